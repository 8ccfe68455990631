package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "github.com/pawell24/TimeTracker/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyUserReport   = "report:user:"
	keyGlobalReport = "report:all"
)

// ReportCache caches working-time-by-day report results in Redis.
// Reports only change when a session closes, so writes invalidate both
// the owner's key and the global key.
type ReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewReportCache returns a new ReportCache.
func NewReportCache(rdb *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{rdb: rdb, ttl: ttl}
}

// GetUser returns the cached per-user report or nil on miss.
func (c *ReportCache) GetUser(ctx context.Context, userID string) ([]dom.DayTotal, error) {
	return c.get(ctx, keyUserReport+userID)
}

// SetUser stores the per-user report.
func (c *ReportCache) SetUser(ctx context.Context, userID string, totals []dom.DayTotal) error {
	return c.set(ctx, keyUserReport+userID, totals)
}

// GetGlobal returns the cached all-users report or nil on miss.
func (c *ReportCache) GetGlobal(ctx context.Context) ([]dom.DayTotal, error) {
	return c.get(ctx, keyGlobalReport)
}

// SetGlobal stores the all-users report.
func (c *ReportCache) SetGlobal(ctx context.Context, totals []dom.DayTotal) error {
	return c.set(ctx, keyGlobalReport, totals)
}

// Invalidate removes the user's report and the global report.
func (c *ReportCache) Invalidate(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, keyUserReport+userID, keyGlobalReport).Err()
}

func (c *ReportCache) get(ctx context.Context, key string) ([]dom.DayTotal, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var totals []dom.DayTotal
	if err := json.Unmarshal(b, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

func (c *ReportCache) set(ctx context.Context, key string, totals []dom.DayTotal) error {
	b, err := json.Marshal(totals)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
