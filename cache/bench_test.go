package cache

import (
	"context"
	"testing"
)

// BenchmarkMemoryCache_GetOrLoad_Hit measures cache hit performance.
func BenchmarkMemoryCache_GetOrLoad_Hit(b *testing.B) {
	c := NewMemoryCache[int, string](1)
	ctx := context.Background()
	load := func(context.Context, int) (string, error) { return "value", nil }

	// Pre-populate
	_, _, _ = c.GetOrLoad(ctx, 0, load)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = c.GetOrLoad(ctx, 0, load)
	}
}

// BenchmarkMemoryCache_GetOrLoad_Parallel measures contention on the cache lock.
func BenchmarkMemoryCache_GetOrLoad_Parallel(b *testing.B) {
	c := NewMemoryCache[int, string](8)
	ctx := context.Background()
	load := func(context.Context, int) (string, error) { return "value", nil }

	for i := 0; i < 8; i++ {
		_, _, _ = c.GetOrLoad(ctx, i, load)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _, _ = c.GetOrLoad(ctx, i%8, load)
			i++
		}
	})
}
