package repository

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryEmbedCache is the single-process fallback cache. Entries expire
// lazily on read.
type MemoryEmbedCache struct {
	entries sync.Map
	ttl     time.Duration
}

func NewMemoryEmbedCache(ttl time.Duration) *MemoryEmbedCache {
	return &MemoryEmbedCache{
		ttl: ttl,
	}
}

func (r *MemoryEmbedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok := r.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		r.entries.Delete(key)
		return nil, false, nil
	}
	return entry.payload, true, nil
}

func (r *MemoryEmbedCache) Set(ctx context.Context, key string, payload []byte) error {
	r.entries.Store(key, &memoryEntry{
		payload:   payload,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryEmbedCache) Invalidate(ctx context.Context, key string) error {
	r.entries.Delete(key)
	return nil
}
