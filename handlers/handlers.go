package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/icco/rewind/lib/anilist"
	"github.com/icco/rewind/lib/lock"
	"github.com/icco/rewind/lib/rewind"
	"github.com/icco/rewind/lib/store"
	"github.com/icco/rewind/lib/summary"
	"github.com/icco/rewind/lib/validation"
	"github.com/icco/rewind/models"
)

// buildLockTimeout bounds how long a request waits for another build of
// the same report to finish before starting its own.
const buildLockTimeout = 15 * time.Second

// RewindResponse is the report plus the service envelope that the store
// persists verbatim for share links.
type RewindResponse struct {
	*rewind.Report
	ShareID     string    `json:"shareId"`
	Username    string    `json:"username"`
	GeneratedAt time.Time `json:"generatedAt"`
	Summary     string    `json:"summary,omitempty"`
}

func writeJSON(w http.ResponseWriter, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(payload); err != nil {
		slog.Error("Failed to write response", slog.Any("error", err))
	}
}

// HandleRewind builds (or serves from cache) the year-in-review report
// for ?username=&year=.
func HandleRewind(st *store.Store, client *anilist.Client, locker *lock.FileLock, gen *summary.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		username := req.URL.Query().Get("username")
		if err := validation.ValidateUsername(username); err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		year := time.Now().UTC().Year()
		if yearStr := req.URL.Query().Get("year"); yearStr != "" {
			parsed, err := strconv.Atoi(yearStr)
			if err != nil {
				validation.WriteError(w, fmt.Errorf("invalid year: %s", yearStr), http.StatusBadRequest)
				return
			}
			year = parsed
		}
		if err := validation.ValidateYear(year); err != nil {
			validation.WriteError(w, err, http.StatusBadRequest)
			return
		}

		if rec, err := st.Cached(ctx, username, year); err == nil {
			writeJSON(w, rec.Payload)
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			slog.Error("Cache lookup failed", slog.Any("error", err))
			validation.WriteError(w, fmt.Errorf("failed to look up report"), http.StatusInternalServerError)
			return
		}

		// Hold a per-user-year lock while building so concurrent requests
		// for the same report hit AniList once. If another request built
		// the report while we waited, serve its result.
		lockKey := fmt.Sprintf("%s-%d", strings.ToLower(username), year)
		acquired, err := locker.TryLock(ctx, lockKey, buildLockTimeout)
		if err != nil {
			slog.Warn("Build lock failed, continuing without it", slog.Any("error", err))
		}
		if acquired {
			defer func() {
				if err := locker.Unlock(ctx, lockKey); err != nil {
					slog.Error("Failed to release build lock", slog.Any("error", err))
				}
			}()

			if rec, err := st.Cached(ctx, username, year); err == nil {
				writeJSON(w, rec.Payload)
				return
			}
		}

		var (
			anime     anilist.MediaListCollection
			manga     anilist.MediaListCollection
			favorites anilist.Favorites
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			anime, err = client.AnimeList(gctx, username)
			return err
		})
		g.Go(func() error {
			var err error
			manga, err = client.MangaList(gctx, username)
			return err
		})
		g.Go(func() error {
			var err error
			favorites, err = client.Favorites(gctx, username)
			return err
		})
		if err := g.Wait(); err != nil {
			slog.Error("AniList fetch failed",
				slog.String("username", username),
				slog.Any("error", err))
			validation.WriteError(w, fmt.Errorf("failed to fetch AniList data"), http.StatusBadGateway)
			return
		}

		report := rewind.BuildReport(anime, manga, favorites, year)

		resp := RewindResponse{
			Report:      report,
			ShareID:     store.NewShareToken(),
			Username:    username,
			GeneratedAt: time.Now().UTC(),
		}

		if gen != nil {
			recap, err := gen.Recap(ctx, username, report)
			if err != nil {
				slog.Warn("Recap generation failed", slog.Any("error", err))
			} else {
				resp.Summary = recap
			}
		}

		payload, err := json.Marshal(resp)
		if err != nil {
			slog.Error("Failed to marshal report", slog.Any("error", err))
			validation.WriteError(w, fmt.Errorf("failed to build report"), http.StatusInternalServerError)
			return
		}

		rec := &models.SharedReport{
			Username:    username,
			Year:        year,
			ShareToken:  resp.ShareID,
			Payload:     payload,
			GeneratedAt: resp.GeneratedAt,
		}
		if err := st.Save(ctx, rec); err != nil {
			// Serve the report anyway; only the share link is lost.
			slog.Error("Failed to persist report", slog.Any("error", err))
		}

		writeJSON(w, payload)
	}
}

// HandleShare replays a previously generated report by its share id.
func HandleShare(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		shareID := req.URL.Query().Get("shareId")
		if shareID == "" {
			validation.WriteError(w, fmt.Errorf("shareId is required"), http.StatusBadRequest)
			return
		}

		rec, err := st.ByToken(req.Context(), shareID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				validation.WriteError(w, fmt.Errorf("share not found"), http.StatusNotFound)
				return
			}
			slog.Error("Share lookup failed", slog.Any("error", err))
			validation.WriteError(w, fmt.Errorf("failed to look up share"), http.StatusInternalServerError)
			return
		}

		writeJSON(w, rec.Payload)
	}
}

// HandleProxy streams AniList CDN images with permissive CORS headers so
// the frontend can composite the collage client side.
func HandleProxy() http.HandlerFunc {
	httpClient := &http.Client{Timeout: 10 * time.Second}

	return func(w http.ResponseWriter, req *http.Request) {
		raw := req.URL.Query().Get("url")
		if raw == "" {
			validation.WriteError(w, fmt.Errorf("url is required"), http.StatusBadRequest)
			return
		}

		target, err := url.Parse(raw)
		if err != nil || target.Scheme != "https" {
			validation.WriteError(w, fmt.Errorf("invalid url"), http.StatusBadRequest)
			return
		}
		if !strings.HasSuffix(target.Hostname(), ".anilist.co") {
			validation.WriteError(w, fmt.Errorf("host not allowed"), http.StatusForbidden)
			return
		}

		proxyReq, err := http.NewRequestWithContext(req.Context(), http.MethodGet, target.String(), nil)
		if err != nil {
			validation.WriteError(w, fmt.Errorf("invalid url"), http.StatusBadRequest)
			return
		}

		resp, err := httpClient.Do(proxyReq)
		if err != nil {
			slog.Error("Image proxy request failed", slog.Any("error", err))
			validation.WriteError(w, fmt.Errorf("failed to fetch image"), http.StatusBadGateway)
			return
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				slog.Error("Failed to close proxy response body", slog.Any("error", err))
			}
		}()

		w.Header().Set("Content-Type", resp.Header.Get("Content-Type"))
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(w, resp.Body); err != nil {
			slog.Error("Failed to stream proxied image", slog.Any("error", err))
		}
	}
}
