package repository

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/gbocchetta/habitflow-engine/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCacheRedis(t *testing.T) *redis.Client {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	pass := os.Getenv("REDIS_PASSWORD")
	if pass == "" {
		pass = "secret_redis_pass_local"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: pass,
		DB:       1,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Skipping cache integration test (Redis down): %v", err)
	}

	rdb.FlushDB(context.Background())
	return rdb
}

func newCacheHabit(t *testing.T, userID, name string) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(userID, name, "", "#FF5733", "", "", domain.TrackingCheckbox, "", 1)
	require.NoError(t, err)
	return h
}

func TestCachedHabitRepository_Integration(t *testing.T) {
	rdb := setupCacheRedis(t)
	defer rdb.Close()

	ctx := context.Background()

	t.Run("List populates the cache and serves from it", func(t *testing.T) {
		inner := NewInMemoryHabitRepository()
		cached := NewCachedHabitRepository(inner, rdb)

		h := newCacheHabit(t, "cache-user-1", "Cached Run")
		require.NoError(t, cached.Create(ctx, h))

		first, err := cached.ListByUserID(ctx, "cache-user-1")
		require.NoError(t, err)
		require.Len(t, first, 1)

		// Mutate the inner store directly. A cache hit must not see it.
		require.NoError(t, inner.Delete(ctx, h.ID))

		second, err := cached.ListByUserID(ctx, "cache-user-1")
		assert.NoError(t, err)
		assert.Len(t, second, 1, "expected the cached snapshot, not a fresh read")
	})

	t.Run("Writes invalidate the per-user list", func(t *testing.T) {
		inner := NewInMemoryHabitRepository()
		cached := NewCachedHabitRepository(inner, rdb)

		h := newCacheHabit(t, "cache-user-2", "Old Name")
		require.NoError(t, cached.Create(ctx, h))

		_, err := cached.ListByUserID(ctx, "cache-user-2")
		require.NoError(t, err)

		h.Name = "New Name"
		require.NoError(t, cached.Update(ctx, h))

		list, err := cached.ListByUserID(ctx, "cache-user-2")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "New Name", list[0].Name)
	})

	t.Run("Delete invalidates before removing", func(t *testing.T) {
		inner := NewInMemoryHabitRepository()
		cached := NewCachedHabitRepository(inner, rdb)

		h := newCacheHabit(t, "cache-user-3", "Doomed")
		require.NoError(t, cached.Create(ctx, h))

		_, err := cached.ListByUserID(ctx, "cache-user-3")
		require.NoError(t, err)

		require.NoError(t, cached.Delete(ctx, h.ID))

		list, err := cached.ListByUserID(ctx, "cache-user-3")
		assert.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("Corrupted cache entry falls through to the source", func(t *testing.T) {
		inner := NewInMemoryHabitRepository()
		cached := NewCachedHabitRepository(inner, rdb)

		h := newCacheHabit(t, "cache-user-4", "Resilient")
		require.NoError(t, cached.Create(ctx, h))

		require.NoError(t, rdb.Set(ctx, "habits:cache-user-4", "{not json", 0).Err())

		list, err := cached.ListByUserID(ctx, "cache-user-4")
		assert.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
