package capacity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"buffet/pkg/logger"

	"github.com/go-redis/redis/v8"
)

const cacheKeyPrefix = "buffet:capacity:tally:"

// Cache stores per-day session tallies keyed by YYYY-MM-DD.
type Cache interface {
	Get(ctx context.Context, day string) (Tally, bool)
	Set(ctx context.Context, day string, tally Tally)
	Invalidate(ctx context.Context, days ...string)
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCache returns a Redis-backed cache, or a no-op cache when client is nil.
func NewCache(client *redis.Client, ttl time.Duration, log *logger.Logger) Cache {
	if client == nil {
		return noopCache{}
	}
	return &redisCache{client: client, ttl: ttl, log: log}
}

func cacheKey(day string) string {
	return fmt.Sprintf("%s%s", cacheKeyPrefix, day)
}

func (c *redisCache) Get(ctx context.Context, day string) (Tally, bool) {
	raw, err := c.client.Get(ctx, cacheKey(day)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Capacity cache read failed", "day", day, "error", err)
		}
		return nil, false
	}
	var t Tally
	if err := json.Unmarshal(raw, &t); err != nil {
		c.log.Warn("Capacity cache entry corrupt", "day", day, "error", err)
		return nil, false
	}
	return t, true
}

func (c *redisCache) Set(ctx context.Context, day string, tally Tally) {
	raw, err := json.Marshal(tally)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(day), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Capacity cache write failed", "day", day, "error", err)
	}
}

func (c *redisCache) Invalidate(ctx context.Context, days ...string) {
	if len(days) == 0 {
		return
	}
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = cacheKey(d)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Capacity cache invalidation failed", "days", days, "error", err)
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (Tally, bool) { return nil, false }
func (noopCache) Set(context.Context, string, Tally)        {}
func (noopCache) Invalidate(context.Context, ...string)     {}

// DayInvalidator drops cached tallies by instant rather than by day key.
type DayInvalidator struct {
	cache Cache
	loc   *time.Location
}

func NewDayInvalidator(cache Cache, loc *time.Location) *DayInvalidator {
	return &DayInvalidator{cache: cache, loc: loc}
}

func (d *DayInvalidator) Invalidate(ctx context.Context, times ...time.Time) {
	days := make([]string, 0, len(times))
	for _, t := range times {
		days = append(days, Midnight(t, d.loc).Format(time.DateOnly))
	}
	d.cache.Invalidate(ctx, days...)
}
