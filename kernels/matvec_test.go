package kernels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-compute/api"
	"github.com/momentics/hioload-compute/core/concurrency"
)

// expectedRow is sum_j (i+j)*j for j in [0, n).
func expectedRow(i, n int) float64 {
	var s float64
	for j := 0; j < n; j++ {
		s += float64(i+j) * float64(j)
	}
	return s
}

func TestMatVec_SerialMatchesClosedForm(t *testing.T) {
	p, err := NewMatVecProblem(7, 5)
	require.NoError(t, err)
	p.Init()
	p.Serial()
	for i, v := range p.C {
		assert.Equal(t, expectedRow(i, 5), v, "row %d", i)
	}
}

func TestMatVec_VariantsAgree(t *testing.T) {
	pool, err := concurrency.NewThreadPool(3)
	require.NoError(t, err)
	defer pool.Shutdown()

	for _, dims := range [][2]int{{1, 1}, {2, 9}, {10, 10}, {101, 37}} {
		m, n := dims[0], dims[1]

		ref, err := NewMatVecProblem(m, n)
		require.NoError(t, err)
		ref.Init()
		ref.Serial()

		par, err := NewMatVecProblem(m, n)
		require.NoError(t, err)
		par.Init()
		require.NoError(t, par.Parallel(4))
		assert.Equal(t, ref.C, par.C, "parallel %dx%d", m, n)

		pooled, err := NewMatVecProblem(m, n)
		require.NoError(t, err)
		require.NoError(t, pooled.InitPool(pool))
		assert.Equal(t, ref.A, pooled.A)
		assert.Equal(t, ref.B, pooled.B)
		require.NoError(t, pooled.Pool(pool))
		assert.Equal(t, ref.C, pooled.C, "pool %dx%d", m, n)
	}
}

func TestMatVec_InvalidShape(t *testing.T) {
	_, err := NewMatVecProblem(0, 3)
	assert.ErrorIs(t, err, api.ErrInvalidExtent)
}

func TestMatVec_PoolAfterShutdownRejected(t *testing.T) {
	pool, err := concurrency.NewThreadPool(2)
	require.NoError(t, err)
	pool.Shutdown()

	p, err := NewMatVecProblem(4, 4)
	require.NoError(t, err)
	assert.ErrorIs(t, p.Pool(pool), api.ErrRejected)
}

func TestMatVec_MemoryMiB(t *testing.T) {
	p, err := NewMatVecProblem(1024, 1024)
	require.NoError(t, err)
	assert.Equal(t, 8, p.MemoryMiB())
}
