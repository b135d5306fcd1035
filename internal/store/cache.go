package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gridiron-tools/compare-api/internal/models"
)

// RedisCache memoizes comparisons in Redis as JSON.
type RedisCache struct {
	client RedisClient
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewRedisCache(client RedisClient, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger.Sugar()}
}

// Get treats every failure as a miss; the comparison is recomputed.
func (c *RedisCache) Get(ctx context.Context, key string) (*models.Comparison, bool) {
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnw("Redis cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var out models.Comparison
	if err := json.Unmarshal(b, &out); err != nil {
		c.logger.Warnw("Discarding corrupt cache entry", "key", key, "error", err)
		return nil, false
	}
	return &out, true
}

func (c *RedisCache) Set(ctx context.Context, key string, cmp *models.Comparison) error {
	b, err := json.Marshal(cmp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, c.ttl).Err()
}

type memoryCacheEntry struct {
	comparison *models.Comparison
	expires    time.Time
}

// MemoryCache is the in-process fallback when Redis is not configured.
type MemoryCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]memoryCacheEntry
	now  func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, data: make(map[string]memoryCacheEntry), now: time.Now}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*models.Comparison, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.data, key)
		return nil, false
	}
	return e.comparison, true
}

func (c *MemoryCache) Set(ctx context.Context, key string, cmp *models.Comparison) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.data {
		if now.After(e.expires) {
			delete(c.data, k)
		}
	}
	c.data[key] = memoryCacheEntry{comparison: cmp, expires: now.Add(c.ttl)}
	return nil
}
