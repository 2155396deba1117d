// Package store persists generated reports so share links survive and
// repeated requests within the TTL skip the AniList round trips.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/icco/rewind/models"
)

// ErrNotFound is returned when no report matches the lookup.
var ErrNotFound = errors.New("report not found")

type Store struct {
	db     *gorm.DB
	ttl    time.Duration
	logger *slog.Logger
}

func New(db *gorm.DB, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{db: db, ttl: ttl, logger: logger}
}

// NewShareToken issues an 8 character share identifier.
func NewShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Cached returns the most recent report for the user and year if it is
// still within the TTL, ErrNotFound otherwise.
func (s *Store) Cached(ctx context.Context, username string, year int) (*models.SharedReport, error) {
	var rec models.SharedReport
	cutoff := time.Now().Add(-s.ttl)

	result := s.db.WithContext(ctx).
		Where("username = ? AND year = ? AND generated_at > ?", username, year, cutoff).
		Order("generated_at DESC").
		First(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cached report: %w", result.Error)
	}

	return &rec, nil
}

// ByToken returns the report persisted under the given share token.
func (s *Store) ByToken(ctx context.Context, token string) (*models.SharedReport, error) {
	var rec models.SharedReport
	result := s.db.WithContext(ctx).Where("share_token = ?", token).First(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query shared report: %w", result.Error)
	}

	return &rec, nil
}

// Save persists a freshly built report.
func (s *Store) Save(ctx context.Context, rec *models.SharedReport) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	s.logger.Debug("Saved shared report",
		slog.String("username", rec.Username),
		slog.Int("year", rec.Year),
		slog.String("share_token", rec.ShareToken))

	return nil
}
