package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// pendingMarker holds a key while the first request is still running.
const pendingMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
type IdempotencyStore struct {
	client redis.Cmdable
	prefix string
}

// NewIdempotencyStore creates an IdempotencyStore whose keys live under
// namespace.
func NewIdempotencyStore(client redis.Cmdable, namespace string) *IdempotencyStore {
	if namespace == "" {
		namespace = "ledgerform"
	}
	return &IdempotencyStore{
		client: client,
		prefix: namespace + ":idempotency:",
	}
}

// CheckAndSet claims key. When the key is already claimed it reports true
// with the stored response, which is the pending marker while the first
// request has not finished.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	var value any = pendingMarker
	if response != nil {
		value = response
	}

	set, err := s.client.SetNX(ctx, fullKey, value, ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if set {
		return false, nil, nil
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, nil, err
	}

	return true, existing, nil
}

// Update stores the final response for key.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}

// IsPending reports whether a stored response is the in-flight marker.
func IsPending(response []byte) bool {
	return string(response) == pendingMarker
}
