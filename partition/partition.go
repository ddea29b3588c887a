// Package partition
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed block decomposition of an index range for data-parallel submission.
// The first t-1 blocks have length n/t; the last block absorbs the remainder
// and always ends at n-1. Every kernel in this module splits work this way.

package partition

import (
	"fmt"

	"github.com/momentics/hioload-compute/api"
)

// Range is a block of indices [Lo, Hi]; Hi is inclusive.
// An empty block has Hi == Lo-1.
type Range struct {
	Lo int
	Hi int
}

// Len returns the number of indices in r.
func (r Range) Len() int {
	return r.Hi - r.Lo + 1
}

// Each calls fn for every index of r in ascending order.
func (r Range) Each(fn func(i int)) {
	for i := r.Lo; i <= r.Hi; i++ {
		fn(i)
	}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d..%d]", r.Lo, r.Hi)
}

// Blocks splits [0, n) into exactly t contiguous, disjoint, gap-free ranges.
// t > n is allowed: the leading blocks are then empty and the last block
// covers everything.
func Blocks(n, t int) ([]Range, error) {
	if t < 1 {
		return nil, fmt.Errorf("%w: %d blocks", api.ErrInvalidWorkerCount, t)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", api.ErrInvalidExtent, n)
	}
	per := n / t
	out := make([]Range, t)
	for i := range out {
		lo := i * per
		hi := lo + per - 1
		if i == t-1 {
			hi = n - 1
		}
		out[i] = Range{Lo: lo, Hi: hi}
	}
	return out, nil
}

// Split cuts s into t disjoint windows following Blocks(len(s), t).
// Each window is capacity-limited so appending to one can never write into
// its neighbour.
func Split[T any](s []T, t int) ([][]T, error) {
	blocks, err := Blocks(len(s), t)
	if err != nil {
		return nil, err
	}
	out := make([][]T, len(blocks))
	for i, b := range blocks {
		out[i] = s[b.Lo : b.Hi+1 : b.Hi+1]
	}
	return out, nil
}
