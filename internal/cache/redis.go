// Package cache provides a Redis-backed store for finished translation
// results. All operations are failure-soft: a down or slow Redis degrades
// every lookup to a miss and every write to a no-op.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
	log    *slog.Logger
}

func NewRedisCache(client *redis.Client, log *slog.Logger) *RedisCache {
	if log == nil {
		log = slog.Default()
	}
	return &RedisCache{
		client: client,
		log:    log.With(slog.String("component", "cache")),
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Debug("cache get failed", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false
	}
	return data, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Debug("cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
