package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented cache with TTLs. The record service uses it as a
// read-through cache for patient bundles; misses and backend errors are both
// reported as "not cached".
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
