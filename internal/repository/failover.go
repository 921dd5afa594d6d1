package repository

import (
	"context"
	"sync/atomic"
	"time"

	"venuecal/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverEmbedCache serves from the primary cache until it errors, then
// falls back to the secondary and retries the primary after a minute.
type FailoverEmbedCache struct {
	primary  domain.EmbedCache
	fallback domain.EmbedCache
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// UnixNano of the last failed primary probe; accessed from request
	// goroutines concurrently.
	lastCheck atomic.Int64
}

func NewFailoverEmbedCache(primary, fallback domain.EmbedCache, logger *zerolog.Logger) *FailoverEmbedCache {
	return &FailoverEmbedCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverEmbedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !r.isDown.Load() {
		payload, ok, err := r.primary.Get(ctx, key)
		if err == nil {
			return payload, ok, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute {
		payload, ok, err := r.primary.Get(ctx, key)
		if err == nil {
			r.isDown.Store(false)
			return payload, ok, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.Get(ctx, key)
}

func (r *FailoverEmbedCache) Set(ctx context.Context, key string, payload []byte) error {
	if !r.isDown.Load() {
		err := r.primary.Set(ctx, key, payload)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Set(ctx, key, payload)
}

func (r *FailoverEmbedCache) Invalidate(ctx context.Context, key string) error {
	if !r.isDown.Load() {
		err := r.primary.Invalidate(ctx, key)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Invalidate(ctx, key)
}

func (r *FailoverEmbedCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary embed cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck.Store(time.Now().UnixNano())
}
