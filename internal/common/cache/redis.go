// internal/common/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"keywordgen/internal/common/config"
)

// ErrMiss is returned when a key is absent from the cache.
var ErrMiss = errors.New("cache miss")

// Cache memoizes adapter responses. Autocomplete and SERP lookups are billed
// per call, so repeated runs for the same company reuse recent responses.
// A Cache is never load-bearing: callers fall through to the live adapter on
// any error.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}) error
}

// RedisCache implements Cache on top of a redis instance.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a redis-backed cache from config.
func NewRedis(cfg config.CacheConfig) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	return &RedisCache{
		client: rdb,
		ttl:    time.Duration(cfg.TTL) * time.Second,
	}, nil
}

// Ping tests the redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetJSON fetches and unmarshals a cached value into dest.
func (c *RedisCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal([]byte(raw), dest)
}

// SetJSON marshals and stores a value under the configured TTL.
func (c *RedisCache) SetJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// Key builds a namespaced cache key from parts.
func Key(parts ...string) string {
	key := "keywordgen"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}
