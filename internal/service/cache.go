package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/recipe-catalog/backend/internal/draft"
)

// RedisNutritionCache keeps nutrition analyses in Redis.
type RedisNutritionCache struct {
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

// NewRedisNutritionCache creates a cache whose entries expire after ttl.
func NewRedisNutritionCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisNutritionCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisNutritionCache{
		redis: client,
		ttl:   ttl,
		log:   log.With(zap.String("component", "nutrition-cache")),
	}
}

// Get retrieves an analysis. Any failure is a miss.
func (c *RedisNutritionCache) Get(ctx context.Context, key string) (*draft.Nutrition, bool) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Failed to read nutrition cache", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var n draft.Nutrition
	if err := json.Unmarshal(data, &n); err != nil {
		c.log.Warn("Discarding corrupt nutrition cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &n, true
}

// Set stores an analysis. Failures are logged and otherwise ignored.
func (c *RedisNutritionCache) Set(ctx context.Context, key string, n draft.Nutrition) {
	data, err := json.Marshal(n)
	if err != nil {
		c.log.Warn("Failed to encode nutrition analysis", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("Failed to write nutrition cache", zap.String("key", key), zap.Error(err))
	}
}
