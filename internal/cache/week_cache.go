// Package cache holds the redis-backed cache for rendered week
// grids.  Projecting a week is cheap, but the grid endpoint is the
// hottest path in the application (the UI reloads it after every
// mutation and on every visit), so the serialized grid is kept per
// owner and dropped whenever that owner's lessons change.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/class-schedule/internal/config"
)

// WeekCache stores one serialized week grid per owner under
// "<prefix>:<owner_id>".  A nil redis client disables the cache
// entirely; every method then degrades to a miss or a no-op so
// callers never need to branch.
type WeekCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewWeekCache builds a WeekCache from config.  Disabled config or a
// nil client yields a cache that never hits.
func NewWeekCache(cfg config.CacheConfig, rdb *redis.Client) *WeekCache {
	c := &WeekCache{ttl: cfg.TTL, prefix: cfg.Prefix}
	if cfg.Enabled && rdb != nil {
		c.rdb = rdb
	}
	return c
}

func (c *WeekCache) key(ownerID uint64) string {
	return c.prefix + ":" + strconv.FormatUint(ownerID, 10)
}

// Get returns the cached grid payload for the owner, if present.
func (c *WeekCache) Get(ctx context.Context, ownerID uint64) ([]byte, bool) {
	if c.rdb == nil {
		return nil, false
	}
	bs, err := c.rdb.Get(ctx, c.key(ownerID)).Bytes()
	if err != nil || len(bs) == 0 {
		return nil, false
	}
	return bs, true
}

// Set stores the grid payload for the owner.  Failures are ignored:
// a cache write must never fail a read request.
func (c *WeekCache) Set(ctx context.Context, ownerID uint64, payload []byte) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.SetEx(ctx, c.key(ownerID), payload, c.ttl).Err()
}

// Invalidate drops the owner's cached grid.  Called after every
// lesson mutation so the next read projects from fresh data.
func (c *WeekCache) Invalidate(ctx context.Context, ownerID uint64) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.key(ownerID)).Err()
}
