// File: kernels/integrate.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Midpoint-rule integration over [a, b] with n steps.

package kernels

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-compute/api"
	"github.com/momentics/hioload-compute/core/concurrency"
	"github.com/momentics/hioload-compute/partition"
)

// Func is an integrand.
type Func func(x float64) float64

// Gauss is exp(-x^2); its integral over the real line is sqrt(pi).
func Gauss(x float64) float64 {
	return math.Exp(-x * x)
}

// Integral describes one integration problem.
type Integral struct {
	F     Func
	A, B  float64
	Steps int
}

func (in Integral) validate() error {
	if in.Steps < 1 {
		return fmt.Errorf("%w: %d steps", api.ErrInvalidExtent, in.Steps)
	}
	if in.F == nil {
		return fmt.Errorf("%w: nil integrand", api.ErrNilTask)
	}
	return nil
}

func (in Integral) step() float64 {
	return (in.B - in.A) / float64(in.Steps)
}

// partial sums f at the midpoints of steps r.Lo..r.Hi, unscaled.
func (in Integral) partial(r partition.Range) float64 {
	h := in.step()
	var sum float64
	for i := r.Lo; i <= r.Hi; i++ {
		sum += in.F(in.A + h*(float64(i)+0.5))
	}
	return sum
}

// Serial integrates single-threaded.
func (in Integral) Serial() (float64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	return in.partial(partition.Range{Lo: 0, Hi: in.Steps - 1}) * in.step(), nil
}

// Parallel integrates with one goroutine per block. Partial sums land in
// per-block slots and are combined in block order.
func (in Integral) Parallel(threads int) (float64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	blocks, err := partition.Blocks(in.Steps, threads)
	if err != nil {
		return 0, err
	}
	sums := make([]float64, len(blocks))
	var g errgroup.Group
	for k, b := range blocks {
		g.Go(func() error {
			sums[k] = in.partial(b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	var total float64
	for _, s := range sums {
		total += s
	}
	return total * in.step(), nil
}

// Pool integrates with one pool task per block; each Future carries a
// partial sum.
func (in Integral) Pool(pool *concurrency.ThreadPool) (float64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	blocks, err := partition.Blocks(in.Steps, pool.NumWorkers())
	if err != nil {
		return 0, err
	}
	futures := make([]*concurrency.Future[float64], len(blocks))
	for k, b := range blocks {
		futures[k], err = concurrency.Submit(pool, func() (float64, error) {
			return in.partial(b), nil
		})
		if err != nil {
			return 0, err
		}
	}
	var total float64
	for _, f := range futures {
		s, err := f.Get()
		if err != nil {
			return 0, err
		}
		total += s
	}
	return total * in.step(), nil
}
