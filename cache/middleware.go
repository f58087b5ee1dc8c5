package cache

import "context"

// SkipRule reports whether a lookup for key should bypass the cache.
type SkipRule[K comparable] func(key K) bool

// NeverSkip is a SkipRule that always uses the cache.
func NeverSkip[K comparable](K) bool { return false }

// PrepareFunc transforms a freshly loaded value before it is stored.
// An error aborts the store and is returned to the caller.
type PrepareFunc[K comparable, V any] func(ctx context.Context, key K, value V) (V, error)

// Middleware routes loads through a Cache unless the skip rule says otherwise.
type Middleware[K comparable, V any] struct {
	cache    Cache[K, V]
	skipRule SkipRule[K]
	prepare  PrepareFunc[K, V]
}

// NewMiddleware creates a new cache middleware.
// If skipRule is nil, NeverSkip is used. prepare may be nil.
func NewMiddleware[K comparable, V any](cache Cache[K, V], skipRule SkipRule[K], prepare PrepareFunc[K, V]) *Middleware[K, V] {
	if skipRule == nil {
		skipRule = NeverSkip[K]
	}
	return &Middleware[K, V]{
		cache:    cache,
		skipRule: skipRule,
		prepare:  prepare,
	}
}

// Execute returns the value for key.
// Skipped keys call load directly; the result is neither prepared nor stored.
// On cache hit, returns the stored value without calling load.
// On cache miss, calls load, prepares the result and stores it.
// Errors are NOT cached.
func (m *Middleware[K, V]) Execute(ctx context.Context, key K, load Loader[K, V]) (V, bool, error) {
	var zero V
	if m == nil || m.cache == nil {
		return zero, false, ErrNilCache
	}
	if load == nil {
		return zero, false, ErrNilLoader
	}

	if m.skipRule(key) {
		value, err := load(ctx, key)
		return value, false, err
	}

	if m.prepare == nil {
		return m.cache.GetOrLoad(ctx, key, load)
	}
	return m.cache.GetOrLoad(ctx, key, func(ctx context.Context, key K) (V, error) {
		value, err := load(ctx, key)
		if err != nil {
			return zero, err
		}
		return m.prepare(ctx, key, value)
	})
}
