package repositories

import (
	"context"
	"time"
)

// Cache is a byte-value cache with TTL semantics, used to absorb repeated
// aggregate queries. A nil Cache disables caching; callers must tolerate
// cache errors and fall through to the source of truth.
type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
