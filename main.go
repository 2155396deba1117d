package main

import (
	"net/http"
	"os"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/icco/rewind/handlers"
	"github.com/icco/rewind/lib/anilist"
	"github.com/icco/rewind/lib/db"
	"github.com/icco/rewind/lib/health"
	"github.com/icco/rewind/lib/lock"
	"github.com/icco/rewind/lib/store"
	"github.com/icco/rewind/lib/summary"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))
	logger := slog.Default()

	dbPath := envOr("DATABASE_PATH", "rewind.db")
	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: db.NewGormLogger(logger),
	})
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := db.RunMigrations(gdb, logger); err != nil {
		logger.Error("Failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	cacheTTL := time.Hour
	if v := os.Getenv("CACHE_TTL"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			logger.Error("Invalid CACHE_TTL", slog.String("value", v), slog.Any("error", err))
			os.Exit(1)
		}
		cacheTTL = parsed
	}

	client := anilist.NewClient(envOr("ANILIST_URL", anilist.DefaultEndpoint), logger)
	st := store.New(gdb, cacheTTL, logger)
	locker := lock.NewFileLock(logger)
	gen := summary.New(os.Getenv("OPENAI_API_KEY"), logger)
	if gen == nil {
		logger.Info("OPENAI_API_KEY not set, recap summaries disabled")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", health.Check(gdb))
	r.Get("/api/rewind", handlers.HandleRewind(st, client, locker, gen))
	r.Get("/api/share", handlers.HandleShare(st))
	r.Get("/api/proxy", handlers.HandleProxy())

	port := envOr("PORT", "8080")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info("Starting server", slog.String("port", port))
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
