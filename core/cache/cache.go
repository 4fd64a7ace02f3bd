package cache

import (
	"context"
	"encoding/json"
	"time"

	"outreach-api/core/config"
	"outreach-api/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is a small read-through cache for external lookups. A nil Cache is
// valid and behaves as a permanent miss.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type redisCache struct {
	client *redis.Client
}

// InitCache connects to Redis when enabled. Returns nil (cache disabled)
// when redis is turned off or unreachable; callers must tolerate that.
func InitCache(cfg config.RedisConfig) Cache {
	if !cfg.Enabled {
		logger.Info("Cache:Disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Cache:InitCache:PingFailed", "error", err, "addr", cfg.Addr)
		return nil
	}

	logger.Info("Cache:Connected", "addr", cfg.Addr)
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Cache:Get:Error", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Warn("Cache:Get:UnmarshalError", "key", key, "error", err)
		return false
	}
	return true
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Cache:Set:MarshalError", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		logger.Warn("Cache:Set:Error", "key", key, "error", err)
	}
}

func (c *redisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.Warn("Cache:Delete:Error", "key", key, "error", err)
	}
}
