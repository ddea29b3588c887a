// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Performance benchmarks for hioload-compute components.

package benchmarks

import (
	"runtime"
	"testing"

	"github.com/momentics/hioload-compute/core/concurrency"
	"github.com/momentics/hioload-compute/kernels"
	"github.com/momentics/hioload-compute/partition"
)

func newPool(b *testing.B, workers int) *concurrency.ThreadPool {
	b.Helper()
	p, err := concurrency.NewThreadPool(workers, concurrency.WithName("bench"))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(p.Shutdown)
	return p
}

// BenchmarkSubmitGet measures one round trip through queue, worker and future.
func BenchmarkSubmitGet(b *testing.B) {
	p := newPool(b, runtime.GOMAXPROCS(0))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, err := concurrency.Submit(p, func() (int, error) { return i, nil })
		if err != nil {
			b.Fatal(err)
		}
		if _, err := f.Get(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkExecuteParallel stresses the shared queue from many producers.
func BenchmarkExecuteParallel(b *testing.B) {
	p := newPool(b, runtime.GOMAXPROCS(0))
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := p.Execute(func() {}); err != nil {
				b.Error(err)
				return
			}
		}
	})
	b.StopTimer()
	p.Shutdown()
}

// BenchmarkConstructDestroy covers thread start, pinning to OS threads and join.
func BenchmarkConstructDestroy(b *testing.B) {
	for i := 0; i < b.N; i++ {
		p, err := concurrency.NewThreadPool(4)
		if err != nil {
			b.Fatal(err)
		}
		p.Shutdown()
	}
}

func BenchmarkBlocks(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := partition.Blocks(1<<20, 16); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMatVec(b *testing.B) {
	pr, err := kernels.NewMatVecProblem(1024, 1024)
	if err != nil {
		b.Fatal(err)
	}
	pr.Init()
	threads := runtime.GOMAXPROCS(0)

	b.Run("serial", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			pr.Serial()
		}
	})
	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if err := pr.Parallel(threads); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("pool", func(b *testing.B) {
		p := newPool(b, threads)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if err := pr.Pool(p); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkIntegrate(b *testing.B) {
	in := kernels.Integral{F: kernels.Gauss, A: -4, B: 4, Steps: 1 << 20}
	threads := runtime.GOMAXPROCS(0)

	b.Run("serial", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := in.Serial(); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("pool", func(b *testing.B) {
		p := newPool(b, threads)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := in.Pool(p); err != nil {
				b.Fatal(err)
			}
		}
	})
}
