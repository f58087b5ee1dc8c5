package cache

import (
	"context"
	"errors"
)

// Sentinel errors for cache operations.
var (
	ErrNilCache  = errors.New("cache: cache is nil")
	ErrNilLoader = errors.New("cache: loader is nil")
)

// Loader produces the value for key on a cache miss.
type Loader[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Cache is an append-only cache keyed by K.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Loading: GetOrLoad calls load at most once per key until it succeeds;
//     concurrent callers for the same key observe the same stored value.
//   - Errors: load errors are returned unchanged and never cached.
//   - Stability: once stored, a value is never replaced or evicted.
type Cache[K comparable, V any] interface {
	// Get returns the stored value. Returns (zero, false) on miss.
	Get(ctx context.Context, key K) (V, bool)

	// GetOrLoad returns the stored value, loading and storing it on a miss.
	// hit reports whether the value was already present.
	GetOrLoad(ctx context.Context, key K, load Loader[K, V]) (value V, hit bool, err error)

	// Len returns the number of stored entries.
	Len() int
}

// Stats counts cache activity.
type Stats struct {
	Hits       int64
	Misses     int64
	LoadErrors int64
}
