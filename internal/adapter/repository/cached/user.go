package cached

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"taskmaster-user-service/internal/adapter/cache"
	domain "taskmaster-user-service/internal/domain/user"
	"taskmaster-user-service/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with a read-through cache.
// It wraps the authoritative repository; the cache only ever holds copies.
type CachedUserRepository struct {
	repo  user.Repository
	cache cache.UserCache
	log   *zap.Logger
	group singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(repo user.Repository, c cache.UserCache, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		repo:  repo,
		cache: c,
		log:   log,
	}
}

// List delegates to the wrapped repository.
func (r *CachedUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.repo.List(ctx)
}

// FindByID retrieves a user by ID using Cache-Aside pattern.
// Absent users are not cached.
func (r *CachedUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	if cachedUser, err := r.cache.Get(ctx, id); err != nil {
		r.log.Warn("cache get error, falling back to store", zap.Int64("id", id), zap.Error(err))
	} else if cachedUser != nil {
		return cachedUser, nil
	}

	// single-flight so concurrent misses hit the store once
	key := fmt.Sprintf("user:%d", id)
	result, err, _ := r.group.Do(key, func() (any, error) {
		u, err := r.repo.FindByID(ctx, id)
		if err != nil || u == nil {
			return u, err
		}

		if err := r.cache.Set(ctx, u); err != nil {
			r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	u, _ := result.(*domain.User)
	if u == nil {
		return nil, nil
	}
	// callers of a shared flight must not share the pointer
	clone := *u
	return &clone, nil
}

// FindByEmail delegates to the wrapped repository.
func (r *CachedUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.repo.FindByEmail(ctx, email)
}

// NextID delegates to the wrapped repository.
func (r *CachedUserRepository) NextID(ctx context.Context) (int64, error) {
	return r.repo.NextID(ctx)
}

// Insert writes through to the wrapped repository and drops any cached entry for the id.
func (r *CachedUserRepository) Insert(ctx context.Context, u *domain.User) error {
	if err := r.repo.Insert(ctx, u); err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, u.ID); err != nil {
		r.log.Warn("failed to invalidate cache after insert", zap.Int64("id", u.ID), zap.Error(err))
	}
	return nil
}

// Replace writes through to the wrapped repository and invalidates the cache.
func (r *CachedUserRepository) Replace(ctx context.Context, id int64, u *domain.User) error {
	if err := r.repo.Replace(ctx, id, u); err != nil {
		return err
	}

	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache after replace", zap.Int64("id", id), zap.Error(err))
	}
	return nil
}
