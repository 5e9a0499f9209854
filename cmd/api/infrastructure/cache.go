package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taskmaster-user-service/internal/adapter/cache"
	"taskmaster-user-service/internal/config"
	redisclient "taskmaster-user-service/pkg/redis"
)

// NewRedisClient creates a new Redis client with configuration
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	redisConfig := redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}

	rdb, err := redisclient.NewClient(ctx, redisConfig, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

// NewUserCache builds the Redis-backed user cache on top of rdb.
// Keys are scoped to this process, since the store it fronts is in memory.
func NewUserCache(rdb *redisclient.Client, cfg *config.Config, l *zap.Logger) *cache.RedisUserCache {
	c := cache.NewRedisUserCache(
		rdb.Client,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		l,
	).WithKeyPrefix(cache.ProcessKeyPrefix())

	l.Info("user cache key prefix", zap.String("prefix", c.Prefix()))
	return c
}
