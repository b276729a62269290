// Package cache provides a Redis-backed cache for availability listings.
// Keys embed a per-office version counter; invalidation is a single INCR,
// which orphans the old keys until their TTL expires instead of scanning.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis at addr. Returns nil when the server is
// unreachable; callers degrade by skipping the cache entirely.
func NewRedisClient(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}

type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewAvailabilityCache wraps a Redis client; returns nil for a nil client so
// the service wiring stays a plain nil check.
func NewAvailabilityCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *AvailabilityCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AvailabilityCache{client: client, ttl: ttl, log: log}
}

func (c *AvailabilityCache) Get(ctx context.Context, officeID uint, checkIn, checkOut time.Time, dest any) bool {
	key, err := c.key(ctx, officeID, checkIn, checkOut)
	if err != nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *AvailabilityCache) Set(ctx context.Context, officeID uint, checkIn, checkOut time.Time, value any) {
	key, err := c.key(ctx, officeID, checkIn, checkOut)
	if err != nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("failed to cache availability", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateOffice bumps the office version so every cached listing for it
// stops matching.
func (c *AvailabilityCache) InvalidateOffice(ctx context.Context, officeID uint) {
	if err := c.client.Incr(ctx, c.versionKey(officeID)).Err(); err != nil {
		c.log.Warn("failed to invalidate availability cache", zap.Uint("office_id", officeID), zap.Error(err))
	}
}

func (c *AvailabilityCache) key(ctx context.Context, officeID uint, checkIn, checkOut time.Time) (string, error) {
	version, err := c.client.Get(ctx, c.versionKey(officeID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("avail:%d:v%d:%s:%s",
		officeID, version,
		checkIn.Format("2006-01-02"), checkOut.Format("2006-01-02")), nil
}

func (c *AvailabilityCache) versionKey(officeID uint) string {
	return fmt.Sprintf("avail:%d:version", officeID)
}
