package benchmarks

import (
	"testing"
	"time"

	"github.com/utkarsh5026/connpool/pool"
)

func BenchmarkQueuedPool_AcquireRelease(b *testing.B) {
	p := newQueuedPool(pool.WithMaxSize(8), pool.WithMaxOverflow(8))
	defer p.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := p.Acquire()
		if err != nil {
			b.Fatal(err)
		}
		h.Release()
	}
}

func BenchmarkQueuedPool_AcquireRelease_Parallel(b *testing.B) {
	p := newQueuedPool(pool.WithMaxSize(16), pool.WithMaxOverflow(16))
	defer p.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h, err := p.AcquireTimeout(10 * time.Second)
			if err != nil {
				b.Fatal(err)
			}
			h.Release()
		}
	})
}

func BenchmarkQueuedPool_With(b *testing.B) {
	p := newQueuedPool(pool.WithMaxSize(8), pool.WithMaxOverflow(8))
	defer p.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.With(func(ch benchChannel) error { return nil }); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQueuedPool_AcquireRelease_WithRecycle(b *testing.B) {
	p := newQueuedPool(
		pool.WithMaxSize(8),
		pool.WithMaxOverflow(8),
		pool.WithRecycle(time.Hour),
		pool.WithStale(time.Hour),
	)
	defer p.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := p.Acquire()
		if err != nil {
			b.Fatal(err)
		}
		h.Release()
	}
}

func BenchmarkNullPool_AcquireRelease(b *testing.B) {
	p := newNullPool()
	defer p.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := p.Acquire()
		if err != nil {
			b.Fatal(err)
		}
		h.Release()
	}
}
