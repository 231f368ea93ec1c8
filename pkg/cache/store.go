package cache

import (
	"context"
	"errors"
)

// Namespace is the subdirectory (file backend) or key prefix (Redis
// backend) under which every entry is stored.
const Namespace = "monbillet-api-client"

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// Store is a flat key to JSON-blob cache. Staleness is tracked per entry by
// its last write time.
type Store interface {
	// Read returns the raw bytes stored under key, or ErrCacheMiss.
	// Expired entries are still returned; see IsExpired.
	Read(ctx context.Context, key CacheKey) ([]byte, error)

	// Write stores data under key, replacing any previous entry.
	Write(ctx context.Context, key CacheKey, data []byte) error

	// IsExpired reports whether the entry is older than the store's expiry
	// window. A missing entry is expired.
	IsExpired(ctx context.Context, key CacheKey) bool

	// Clear removes every entry. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
