package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache implements usecase.Cache using Redis. Rendered fragments are stored
// as raw bytes under a namespaced key.
type Cache struct {
	client redis.Cmdable
	prefix string
}

// NewCache creates a Cache whose keys live under namespace.
func NewCache(client redis.Cmdable, namespace string) *Cache {
	if namespace == "" {
		namespace = "ledgerform"
	}
	return &Cache{
		client: client,
		prefix: namespace + ":cache:",
	}
}

// Get retrieves a value by key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return val, err
}

// Set stores a value with TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Delete removes a key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}
