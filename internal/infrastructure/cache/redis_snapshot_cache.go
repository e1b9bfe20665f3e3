package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockpilot/backend/internal/infrastructure/config"
)

// RedisSnapshotCache is a SnapshotCache backed by Redis, shared across
// instances. Payloads are stored as plain values under their snapshot key.
type RedisSnapshotCache struct {
	client *redis.Client
}

// NewRedisSnapshotCache connects to Redis and verifies the connection
func NewRedisSnapshotCache(cfg config.RedisConfig) (*RedisSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSnapshotCache{client: client}, nil
}

// Get returns the cached payload for the key
func (c *RedisSnapshotCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Set stores the payload under the key for the given TTL
func (c *RedisSnapshotCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

// Invalidate removes the given keys
func (c *RedisSnapshotCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close closes the Redis connection
func (c *RedisSnapshotCache) Close() error {
	return c.client.Close()
}

// Ensure RedisSnapshotCache implements SnapshotCache
var _ SnapshotCache = (*RedisSnapshotCache)(nil)
