package bucket

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"waterquality/internal/ratelimit/models"
)

// BenchmarkAllowN measures single-threaded throughput on one client.
func BenchmarkAllowN(b *testing.B) {
	store := NewInMemoryBucketStore()
	ctx := context.Background()
	key := models.NewIPKey("predict", "10.0.0.1")

	for b.Loop() {
		_, _ = store.AllowN(ctx, key, 1, 1000, time.Minute)
	}
}

// BenchmarkAllowN_Parallel measures contention on a single client key.
func BenchmarkAllowN_Parallel(b *testing.B) {
	store := NewInMemoryBucketStore()
	ctx := context.Background()
	key := models.NewIPKey("predict", "10.0.0.1")

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = store.AllowN(ctx, key, 1, 1000, time.Minute)
		}
	})
}

// BenchmarkAllowN_HighCardinality_Parallel spreads requests over many client IPs.
func BenchmarkAllowN_HighCardinality_Parallel(b *testing.B) {
	store := NewInMemoryBucketStore()
	ctx := context.Background()
	var counter atomic.Int64

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			i := counter.Add(1)
			key := models.NewIPKey("predict", fmt.Sprintf("10.0.%d.%d", (i/256)%256, i%256))
			_, _ = store.AllowN(ctx, key, 1, 100, time.Minute)
		}
	})
}
