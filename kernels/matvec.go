// File: kernels/matvec.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// c[m] = a[m, n] * b[n], row-major a.

package kernels

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-compute/api"
	"github.com/momentics/hioload-compute/core/concurrency"
	"github.com/momentics/hioload-compute/partition"
)

// MatVecProblem holds operands and result of one matrix-vector product.
type MatVecProblem struct {
	M, N int
	A    []float64 // M*N, row-major
	B    []float64 // N
	C    []float64 // M
}

// NewMatVecProblem allocates operands for an m x n product.
func NewMatVecProblem(m, n int) (*MatVecProblem, error) {
	if m < 1 || n < 1 {
		return nil, fmt.Errorf("%w: matrix %dx%d", api.ErrInvalidExtent, m, n)
	}
	return &MatVecProblem{
		M: m,
		N: n,
		A: make([]float64, m*n),
		B: make([]float64, n),
		C: make([]float64, m),
	}, nil
}

// MemoryMiB reports operand memory in MiB.
func (p *MatVecProblem) MemoryMiB() int {
	return ((p.M*p.N + p.M + p.N) * 8) >> 20
}

// Init fills a[i][j] = i+j and b[j] = j.
func (p *MatVecProblem) Init() {
	p.initRows(partition.Range{Lo: 0, Hi: p.M - 1})
	p.initCols(partition.Range{Lo: 0, Hi: p.N - 1})
}

// InitPool performs Init with one pool task per block of rows and columns.
func (p *MatVecProblem) InitPool(pool *concurrency.ThreadPool) error {
	t := pool.NumWorkers()
	rows, err := partition.Blocks(p.M, t)
	if err != nil {
		return err
	}
	cols, err := partition.Blocks(p.N, t)
	if err != nil {
		return err
	}
	futures := make([]*concurrency.Future[struct{}], 0, t)
	for k := 0; k < t; k++ {
		r, c := rows[k], cols[k]
		f, err := pool.SubmitFunc(func() error {
			p.initRows(r)
			p.initCols(c)
			return nil
		})
		if err != nil {
			return err
		}
		futures = append(futures, f)
	}
	return concurrency.WaitAllSlice(futures)
}

func (p *MatVecProblem) initRows(r partition.Range) {
	for i := r.Lo; i <= r.Hi; i++ {
		row := p.A[i*p.N : (i+1)*p.N]
		for j := range row {
			row[j] = float64(i + j)
		}
	}
}

func (p *MatVecProblem) initCols(r partition.Range) {
	for j := r.Lo; j <= r.Hi; j++ {
		p.B[j] = float64(j)
	}
}

// rows computes c for rows lo..lo+len(out)-1 into out.
func (p *MatVecProblem) rows(lo int, out []float64) {
	for k := range out {
		i := lo + k
		row := p.A[i*p.N : (i+1)*p.N]
		var sum float64
		for j, aij := range row {
			sum += aij * p.B[j]
		}
		out[k] = sum
	}
}

// Serial computes C single-threaded.
func (p *MatVecProblem) Serial() {
	p.rows(0, p.C)
}

// Parallel computes C with one goroutine per block.
func (p *MatVecProblem) Parallel(threads int) error {
	blocks, err := partition.Blocks(p.M, threads)
	if err != nil {
		return err
	}
	windows, err := partition.Split(p.C, threads)
	if err != nil {
		return err
	}
	var g errgroup.Group
	for k, b := range blocks {
		lo, out := b.Lo, windows[k]
		g.Go(func() error {
			p.rows(lo, out)
			return nil
		})
	}
	return g.Wait()
}

// Pool computes C with one pool task per block, NumWorkers blocks in total.
func (p *MatVecProblem) Pool(pool *concurrency.ThreadPool) error {
	t := pool.NumWorkers()
	blocks, err := partition.Blocks(p.M, t)
	if err != nil {
		return err
	}
	windows, err := partition.Split(p.C, t)
	if err != nil {
		return err
	}
	futures := make([]*concurrency.Future[struct{}], len(blocks))
	for k, b := range blocks {
		lo, out := b.Lo, windows[k]
		futures[k], err = pool.SubmitFunc(func() error {
			p.rows(lo, out)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return concurrency.WaitAllSlice(futures)
}
