package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparseCG(t *testing.T) {
	// 1-D Poisson operator with Dirichlet ends
	{
		var (
			n = 20
			A = NewDOK(n, n)
			b = make([]float64, n)
			x = make([]float64, n)
		)
		for i := 0; i < n; i++ {
			A.Set(i, i, 2)
			if i > 0 {
				A.Set(i, i-1, -1)
			}
			if i < n-1 {
				A.AddAt(i, i+1, -1)
			}
		}
		// Exact solution is a linear ramp from 1 to n
		b[0] = 0
		b[n-1] = float64(n + 1)
		csr := A.ToCSR()
		assert.Equal(t, 3*n-2, csr.NNZ())
		_, err := csr.SolveCG(b, x, 1.e-12, 200)
		require.NoError(t, err)
		for i := range x {
			assert.InDelta(t, float64(i+1), x[i], 1.e-8)
		}
		y := make([]float64, n)
		csr.MulVecTo(y, x)
		assert.InDeltaSlice(t, b, y, 1.e-8)
	}
	// Zero rhs short circuits
	{
		A := NewDOK(2, 2)
		A.Set(0, 0, 1)
		A.Set(1, 1, 1)
		x := []float64{5, 5}
		_, err := A.ToCSR().SolveCG([]float64{0, 0}, x, 1.e-10, 10)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, x)
	}
	{
		A := NewDOK(1, 1)
		A.SetReadOnly("frozen")
		assert.Panics(t, func() { A.Set(0, 0, 1) })
	}
}

func TestPartitionMapRun(t *testing.T) {
	var (
		pm  = NewPartitionMap(4, 10)
		hit = make([]int, 10)
	)
	err := pm.Run(func(bn, kMin, kMax int) error {
		for k := kMin; k < kMax; k++ {
			hit[k]++
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, ConstArray(10, 1), toFloat(hit))
}

func toFloat(v []int) (f []float64) {
	f = make([]float64, len(v))
	for i, val := range v {
		f[i] = float64(val)
	}
	return
}
