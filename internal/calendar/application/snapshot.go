// Package application coordinates snapshot acquisition: pulling events from
// an upstream calendar source and keeping a local per-owner cache fresh.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cadencehq/cadence/internal/calendar/domain"
	"github.com/cadencehq/cadence/internal/calendar/infrastructure/persistence"
)

// EventSource fetches events from an upstream calendar in a time range.
type EventSource interface {
	Events(ctx context.Context, start, end time.Time) ([]domain.Event, error)
}

// SnapshotService refreshes and serves locally cached event snapshots.
type SnapshotService struct {
	source EventSource
	repo   persistence.EventRepository
	logger *slog.Logger
}

// NewSnapshotService creates a snapshot service.
func NewSnapshotService(source EventSource, repo persistence.EventRepository, logger *slog.Logger) *SnapshotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotService{source: source, repo: repo, logger: logger}
}

// Refresh pulls the owner's events for [start, end) from the upstream source
// and replaces the cached snapshot. Returns the number of events cached.
func (s *SnapshotService) Refresh(ctx context.Context, owner string, start, end time.Time) (int, error) {
	events, err := s.source.Events(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch events: %w", err)
	}
	if err := domain.ValidateSnapshot(events); err != nil {
		return 0, err
	}
	if err := s.repo.SaveSnapshot(ctx, owner, events); err != nil {
		return 0, fmt.Errorf("failed to cache snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "snapshot refreshed",
		"owner", owner,
		"events", len(events),
		"from", start.Format(time.RFC3339),
		"to", end.Format(time.RFC3339),
	)
	return len(events), nil
}

// Load returns the owner's cached events overlapping [start, end).
func (s *SnapshotService) Load(ctx context.Context, owner string, start, end time.Time) ([]domain.Event, error) {
	return s.repo.FindByRange(ctx, owner, start, end)
}

// Prune drops cached events that ended before the cutoff.
func (s *SnapshotService) Prune(ctx context.Context, owner string, cutoff time.Time) error {
	return s.repo.DeleteBefore(ctx, owner, cutoff)
}
