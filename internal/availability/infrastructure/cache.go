// Package infrastructure provides an optional Redis-backed cache for day
// analyses, so repeated availability queries over an unchanged snapshot skip
// the block walk. Entries expire by TTL; writing a new snapshot should
// invalidate the affected days.
package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cadencehq/cadence/internal/availability/application"
	"github.com/cadencehq/cadence/internal/availability/domain"
)

const keyPrefix = "cadence:analysis:"

// AnalysisCache stores day analyses keyed by owner and date.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ application.AnalysisStore = (*AnalysisCache)(nil)

// NewAnalysisCache creates a cache around an existing Redis client.
func NewAnalysisCache(client *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{client: client, ttl: ttl}
}

// NewAnalysisCacheFromURL connects to Redis by URL
// (redis://[user:pass@]host:port/db).
func NewAnalysisCacheFromURL(url string, ttl time.Duration) (*AnalysisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewAnalysisCache(redis.NewClient(opts), ttl), nil
}

// Get returns the cached analysis for the owner's day, if present.
func (c *AnalysisCache) Get(ctx context.Context, owner string, date time.Time) (domain.Analysis, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(owner, date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Analysis{}, false, nil
	}
	if err != nil {
		return domain.Analysis{}, false, err
	}

	var analysis domain.Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		// A corrupt entry is a miss, not a failure.
		return domain.Analysis{}, false, nil
	}
	return analysis, true, nil
}

// Put stores the analysis under the cache TTL.
func (c *AnalysisCache) Put(ctx context.Context, owner string, analysis domain.Analysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(owner, analysis.Date), data, c.ttl).Err()
}

// Invalidate drops the owner's cached analysis for one day.
func (c *AnalysisCache) Invalidate(ctx context.Context, owner string, date time.Time) error {
	return c.client.Del(ctx, cacheKey(owner, date)).Err()
}

// Close releases the underlying Redis connection.
func (c *AnalysisCache) Close() error {
	return c.client.Close()
}

func cacheKey(owner string, date time.Time) string {
	return keyPrefix + owner + ":" + date.Format("2006-01-02")
}
