// Package cache provides the key/value store backing admin sessions and lookup caching.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key/value store with per-key expiry
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
