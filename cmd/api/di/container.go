package di

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"taskmaster-user-service/cmd/api/infrastructure"
	ginhandler "taskmaster-user-service/internal/adapter/gin/handler"
	"taskmaster-user-service/internal/adapter/gin/middleware"
	"taskmaster-user-service/internal/adapter/repository/cached"
	"taskmaster-user-service/internal/adapter/repository/memory"
	"taskmaster-user-service/internal/config"
	"taskmaster-user-service/internal/usecase/user"
	redisclient "taskmaster-user-service/pkg/redis"
	"taskmaster-user-service/pkg/security"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Store       *memory.UserStore
	RedisClient *redisclient.Client // nil unless the cache is enabled
	UserUC      user.UserUsecase
	GinHandler  *ginhandler.UserHandler
	Metrics     *middleware.Metrics
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	store := memory.NewSeededUserStore(l)
	var repo user.Repository = store

	var rdb *redisclient.Client
	if cfg.Redis.CacheEnabled {
		var err error
		rdb, err = infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		repo = cached.NewCachedUserRepository(store, infrastructure.NewUserCache(rdb, cfg, l), l)
		l.Info("user cache enabled", zap.Int("ttl_seconds", cfg.Redis.CacheTTL))
	}

	userUC := user.New(repo, l, user.WithPasswordHasher(security.NewBcryptHasher(cfg.Auth.BcryptCost)))

	var metrics *middleware.Metrics
	if cfg.Metrics.Enabled {
		metrics = middleware.NewMetrics(prometheus.NewRegistry())
	}

	return &Container{
		Config:      cfg,
		Logger:      l,
		Store:       store,
		RedisClient: rdb,
		UserUC:      userUC,
		GinHandler:  ginhandler.NewUserHandler(userUC, l),
		Metrics:     metrics,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}
	return nil
}
