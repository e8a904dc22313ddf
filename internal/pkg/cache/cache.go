// Package cache provides a small redis-backed read-through cache. The service
// layer treats a nil *Cache as "caching disabled" and falls through to the
// database, so redis stays optional at runtime.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when the requested key is not found in cache.
var ErrCacheMiss = errors.New("cache: key not found")

// Config holds redis connection settings.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// Cache wraps a redis client with JSON value encoding.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to redis and verifies the connection with a ping.
func New(ctx context.Context, config Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := config.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Cache{client: client, ttl: ttl}, nil
}

// GetInt64Slice reads a cached slice of IDs. Returns ErrCacheMiss when the
// key is absent or the cache is disabled.
func (c *Cache) GetInt64Slice(ctx context.Context, key string) ([]int64, error) {
	if c == nil {
		return nil, ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return ids, nil
}

// SetInt64Slice stores a slice of IDs under the key with the configured TTL.
func (c *Cache) SetInt64Slice(ctx context.Context, key string, ids []int64) error {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Invalidate removes keys from the cache. Missing keys are not an error.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache keys: %w", err)
	}
	return nil
}

// Close releases the underlying redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
