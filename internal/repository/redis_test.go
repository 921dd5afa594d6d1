package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisEmbedCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	cache := NewRedisEmbedCache(client, time.Minute)
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		payload := []byte(`{"dates":{"2026-06-15":"booked"},"holdPeriod":7,"readonly":true}`)
		require.NoError(t, cache.Set(ctx, "calendar", payload))

		got, ok, err := cache.Get(ctx, "calendar")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, payload, got)
	})

	t.Run("GetMissingKey", func(t *testing.T) {
		_, ok, err := cache.Get(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "short", []byte("x")))
		s.FastForward(time.Minute + time.Second)

		_, ok, err := cache.Get(ctx, "short")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "gone", []byte("x")))
		require.NoError(t, cache.Invalidate(ctx, "gone"))

		_, ok, err := cache.Get(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("NilClient", func(t *testing.T) {
		cache := NewRedisEmbedCache(nil, time.Minute)
		_, _, err := cache.Get(ctx, "calendar")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})

	t.Run("Close", func(t *testing.T) {
		assert.NoError(t, Close(client))
	})
}
