// Package cache serves user aggregate counters from redis, falling back to
// the relational store on miss.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fleeter/fleeter/internal/models"
	"github.com/redis/go-redis/v9"
)

// StatsLoader computes a user's counters from the primary store.
type StatsLoader func(userID uint) (*models.UserStats, error)

// StatsCache caches per-user fleet/following/follower counts. A nil redis
// client disables caching and every read goes to the loader.
type StatsCache struct {
	rdb  *redis.Client
	ttl  time.Duration
	load StatsLoader
}

// NewStatsCache creates a StatsCache backed by the given client and loader.
func NewStatsCache(rdb *redis.Client, ttl time.Duration, load StatsLoader) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl, load: load}
}

func statsKey(userID uint) string {
	return fmt.Sprintf("user:stats:%d", userID)
}

// Get returns the user's counters, from cache when fresh.
func (c *StatsCache) Get(ctx context.Context, userID uint) (*models.UserStats, error) {
	if c.rdb == nil {
		return c.load(userID)
	}
	if data, err := c.rdb.Get(ctx, statsKey(userID)).Bytes(); err == nil {
		var stats models.UserStats
		if json.Unmarshal(data, &stats) == nil {
			return &stats, nil
		}
	}
	stats, err := c.load(userID)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(stats); err == nil {
		_ = c.rdb.Set(ctx, statsKey(userID), payload, c.ttl).Err()
	}
	return stats, nil
}

// Invalidate drops cached counters after a write that changed them. Cache
// errors are ignored: a stale entry expires with its TTL.
func (c *StatsCache) Invalidate(ctx context.Context, userIDs ...uint) {
	if c.rdb == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = statsKey(id)
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}
