package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/cadencehq/cadence/internal/availability/domain"
	calendarDomain "github.com/cadencehq/cadence/internal/calendar/domain"
)

// AnalysisStore caches day analyses between runs. A failing store degrades
// the cached analyzer to a plain one, never a failed query.
type AnalysisStore interface {
	Get(ctx context.Context, owner string, date time.Time) (domain.Analysis, bool, error)
	Put(ctx context.Context, owner string, analysis domain.Analysis) error
}

// CachedAnalyzer wraps an Analyzer with a per-owner analysis cache.
type CachedAnalyzer struct {
	analyzer *Analyzer
	store    AnalysisStore
	logger   *slog.Logger
}

// NewCachedAnalyzer creates a caching wrapper around the analyzer.
func NewCachedAnalyzer(analyzer *Analyzer, store AnalysisStore, logger *slog.Logger) *CachedAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedAnalyzer{analyzer: analyzer, store: store, logger: logger}
}

// AnalyzeDay returns the owner's analysis for the date, serving from the
// cache when possible and filling it on a miss.
func (c *CachedAnalyzer) AnalyzeDay(ctx context.Context, owner string, date time.Time, events []calendarDomain.Event) (domain.Analysis, error) {
	cached, hit, err := c.store.Get(ctx, owner, date)
	if err != nil {
		c.logger.WarnContext(ctx, "analysis cache read failed", "owner", owner, "error", err)
	} else if hit {
		return cached, nil
	}

	analysis, err := c.analyzer.Analyze(date, events)
	if err != nil {
		return domain.Analysis{}, err
	}

	if err := c.store.Put(ctx, owner, analysis); err != nil {
		c.logger.WarnContext(ctx, "analysis cache write failed", "owner", owner, "error", err)
	}
	return analysis, nil
}
