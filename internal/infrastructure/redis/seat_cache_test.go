package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatCache(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	cache := NewSeatCache(client, "test-"+uuid.NewString())
	t.Cleanup(func() { cache.Invalidate(ctx) })

	t.Run("miss before set", func(t *testing.T) {
		_, err := cache.GetAvailableCount(ctx)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, cache.SetAvailableCount(ctx, 79, 30*time.Second))

		n, err := cache.GetAvailableCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 79, n)
	})

	t.Run("invalidate", func(t *testing.T) {
		require.NoError(t, cache.SetAvailableCount(ctx, 50, 30*time.Second))
		require.NoError(t, cache.Invalidate(ctx))

		_, err := cache.GetAvailableCount(ctx)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("entry expires", func(t *testing.T) {
		require.NoError(t, cache.SetAvailableCount(ctx, 80, 100*time.Millisecond))
		time.Sleep(200 * time.Millisecond)

		_, err := cache.GetAvailableCount(ctx)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}

func TestSeatCache_PoolsAreIsolated(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	a := NewSeatCache(client, "a-"+uuid.NewString())
	b := NewSeatCache(client, "b-"+uuid.NewString())
	t.Cleanup(func() { a.Invalidate(ctx); b.Invalidate(ctx) })

	require.NoError(t, a.SetAvailableCount(ctx, 1, time.Minute))

	_, err := b.GetAvailableCount(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}
