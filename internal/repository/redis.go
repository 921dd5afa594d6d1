package repository

import (
	"context"
	"fmt"
	"time"

	"venuecal/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisEmbedCache stores rendered embed payloads in Redis so several API
// instances can share one cached copy.
type RedisEmbedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisEmbedCache(client *redis.Client, ttl time.Duration) *RedisEmbedCache {
	return &RedisEmbedCache{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisEmbedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r.client == nil {
		return nil, false, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, cacheKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get embed payload from redis: %w", err)
	}
	return val, true, nil
}

func (r *RedisEmbedCache) Set(ctx context.Context, key string, payload []byte) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Set(ctx, cacheKey(key), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set embed payload in redis: %w", err)
	}
	return nil
}

func (r *RedisEmbedCache) Invalidate(ctx context.Context, key string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete embed payload from redis: %w", err)
	}
	return nil
}

func cacheKey(key string) string {
	return "embed_payload:" + key
}

// Ping verifies the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
