package cached

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"taskmaster-user-service/internal/adapter/cache"
	"taskmaster-user-service/internal/adapter/repository/memory"
	domain "taskmaster-user-service/internal/domain/user"
)

func setupCachedRepo(t *testing.T) (*CachedUserRepository, *memory.UserStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	logger := zaptest.NewLogger(t)
	store := memory.NewSeededUserStore(logger)
	userCache := cache.NewRedisUserCache(client, time.Minute, logger)
	return NewCachedUserRepository(store, userCache, logger), store, mr
}

func TestCachedUserRepository_FindByID_PopulatesCache(t *testing.T) {
	repo, _, mr := setupCachedRepo(t)
	ctx := context.Background()

	assert.False(t, mr.Exists("taskmaster:user:1"))

	u, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "admin@taskmaster.com", u.Email)

	assert.True(t, mr.Exists("taskmaster:user:1"))
}

func TestCachedUserRepository_FindByID_ServesFromCache(t *testing.T) {
	repo, store, _ := setupCachedRepo(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)

	// a write that bypasses the decorator is invisible until invalidation
	require.NoError(t, store.Replace(ctx, 2, &domain.User{Email: "direct@taskmaster.com"}))

	u, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "manager@taskmaster.com", u.Email)
}

func TestCachedUserRepository_FindByID_MissingNotCached(t *testing.T) {
	repo, _, mr := setupCachedRepo(t)

	u, err := repo.FindByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.False(t, mr.Exists("taskmaster:user:9999"))
}

func TestCachedUserRepository_Replace_Invalidates(t *testing.T) {
	repo, _, mr := setupCachedRepo(t)
	ctx := context.Background()

	u, err := repo.FindByID(ctx, 3)
	require.NoError(t, err)
	require.True(t, mr.Exists("taskmaster:user:3"))

	u.IsActive = false
	require.NoError(t, repo.Replace(ctx, 3, u))
	assert.False(t, mr.Exists("taskmaster:user:3"))

	fresh, err := repo.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.False(t, fresh.IsActive)
}

func TestCachedUserRepository_FallsBackWhenRedisDown(t *testing.T) {
	repo, _, mr := setupCachedRepo(t)
	ctx := context.Background()

	mr.Close()

	u, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "admin@taskmaster.com", u.Email)

	u.FirstName = "Still"
	assert.NoError(t, repo.Replace(ctx, 1, u))
}

func TestCachedUserRepository_Delegates(t *testing.T) {
	repo, _, _ := setupCachedRepo(t)
	ctx := context.Background()

	id, err := repo.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	require.NoError(t, repo.Insert(ctx, &domain.User{ID: id, Email: "new@taskmaster.com"}))

	byEmail, err := repo.FindByEmail(ctx, "new@taskmaster.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, id, byEmail.ID)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)
}

// newRepoOn builds a cached repository over a fresh seeded store sharing client.
func newRepoOn(t *testing.T, client *redis.Client, prefix string) (*CachedUserRepository, *memory.UserStore) {
	logger := zaptest.NewLogger(t)
	store := memory.NewSeededUserStore(logger)
	userCache := cache.NewRedisUserCache(client, time.Minute, logger).WithKeyPrefix(prefix)
	return NewCachedUserRepository(store, userCache, logger), store
}

func TestCachedUserRepository_Insert_InvalidatesStaleEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	ctx := context.Background()

	// an earlier process cached id 4 under the same prefix
	first, _ := newRepoOn(t, client, cache.DefaultKeyPrefix)
	require.NoError(t, first.Insert(ctx, &domain.User{ID: 4, Email: "old@x.com"}))
	_, err := first.FindByID(ctx, 4)
	require.NoError(t, err)
	require.True(t, mr.Exists("taskmaster:user:4"))

	second, _ := newRepoOn(t, client, cache.DefaultKeyPrefix)
	require.NoError(t, second.Insert(ctx, &domain.User{ID: 4, Email: "new@x.com"}))

	u, err := second.FindByID(ctx, 4)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "new@x.com", u.Email)
}

func TestCachedUserRepository_ProcessPrefix_IsolatesStores(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	ctx := context.Background()

	first, _ := newRepoOn(t, client, cache.ProcessKeyPrefix())
	require.NoError(t, first.Insert(ctx, &domain.User{ID: 4, Email: "old@x.com"}))
	_, err := first.FindByID(ctx, 4)
	require.NoError(t, err)

	second, _ := newRepoOn(t, client, cache.ProcessKeyPrefix())

	// the second store never held id 4
	ghost, err := second.FindByID(ctx, 4)
	require.NoError(t, err)
	assert.Nil(t, ghost)

	users, err := second.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}
