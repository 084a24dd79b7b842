package domain

import (
	"context"
	"time"
)

// Cache is a key/value store with per-key expiry.
// Callers treat every error as soft: a failed Get is a miss, a failed
// Set or Delete is a no-op.
type Cache interface {
	// Get returns the stored value and whether the key was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys
	Delete(ctx context.Context, keys ...string) error
}

// MetricsInvalidator discards the cached MetricsReport
// Mutating services call it once, after their change is committed
type MetricsInvalidator interface {
	InvalidateMetrics(ctx context.Context)
}
