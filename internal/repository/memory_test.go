package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEmbedCache(t *testing.T) {
	cache := NewMemoryEmbedCache(time.Hour)
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		payload := []byte(`{"readonly":true}`)
		require.NoError(t, cache.Set(ctx, "calendar", payload))

		got, ok, err := cache.Get(ctx, "calendar")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, payload, got)
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, cache.Invalidate(ctx, "calendar"))
		_, ok, _ := cache.Get(ctx, "calendar")
		assert.False(t, ok)
	})

	t.Run("Expiry", func(t *testing.T) {
		short := NewMemoryEmbedCache(10 * time.Millisecond)
		require.NoError(t, short.Set(ctx, "calendar", []byte("x")))

		time.Sleep(20 * time.Millisecond)
		_, ok, err := short.Get(ctx, "calendar")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
