package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	// Slice
	{
		M := NewMatrix(3, 3, []float64{
			1, 2, 3,
			4, 5, 6,
			7, 8, 9,
		})
		A := M.Slice(1, 3, 0, 2)
		assert.Equal(t, []float64{4, 5, 7, 8}, A.DataP)
		A.Set(0, 0, -1)
		assert.Equal(t, 4., M.At(1, 0))
		assert.Panics(t, func() { M.Slice(0, 4, 0, 1) })
	}
	// FromRows
	{
		M, err := NewMatrixFromRows([][]float64{{1, 2}, {3, 4}, {5, 6}})
		require.NoError(t, err)
		nr, nc := M.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 2, nc)
		assert.Equal(t, 6., M.At(2, 1))
		assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, M.Rows())
		_, err = NewMatrixFromRows([][]float64{{1, 2}, {3}})
		assert.Error(t, err)
		_, err = NewMatrixFromRows(nil)
		assert.Error(t, err)
	}
	// Arithmetic
	{
		A := NewMatrix(1, 3, []float64{1, 2, 3})
		B := NewMatrixConst(1, 3, 2)
		assert.Equal(t, []float64{3, 4, 5}, A.Add(B).DataP)
		assert.Equal(t, []float64{-1, 0, 1}, A.Subtract(B).DataP)
		assert.Equal(t, []float64{2, 4, 6}, A.ElMul(B).DataP)
		assert.Equal(t, []float64{11, 12, 13}, A.AddScalar(10).DataP)
		assert.Equal(t, []float64{.5, 1, 1.5}, A.Scale(.5).DataP)
		assert.Equal(t, []float64{1, 2, 3}, A.DataP)
		assert.Panics(t, func() { A.Add(NewMatrix(3, 1)) })
	}
	// NaN aware reductions
	{
		A := NewMatrix(2, 2, []float64{math.NaN(), -2, 5, 1})
		assert.Equal(t, -2., A.Min())
		assert.Equal(t, 5., A.Max())
		assert.True(t, A.HasNaN())
		assert.Equal(t, []bool{true, false, false, false}, A.NaNMask())
		allNaN := NewMatrixConst(1, 2, math.NaN())
		assert.True(t, math.IsNaN(allNaN.Max()))
	}
	// Read only protection
	{
		A := NewMatrix(1, 1)
		A.SetReadOnly("A")
		assert.Panics(t, func() { A.Set(0, 0, 1) })
		A.SetWritable()
		A.Set(0, 0, 1)
		assert.Equal(t, 1., A.At(0, 0))
	}
}

func TestMathHelpers(t *testing.T) {
	{
		v := Linspace(-1, 0, 5)
		assert.Equal(t, []float64{-1, -.75, -.5, -.25, 0}, v)
		assert.Equal(t, []float64{-.875, -.625, -.375, -.125}, Midpoints(v))
		assert.Equal(t, []float64{3}, Linspace(3, 4, 1))
		assert.Nil(t, Linspace(3, 4, 0))
	}
	{
		v := []float64{1, KernelSentinel, 3, KernelSentinel}
		assert.Equal(t, 2, SentinelToNaN(v))
		assert.True(t, math.IsNaN(v[1]) && math.IsNaN(v[3]))
		assert.Equal(t, 2, NaNToSentinel(v))
		assert.Equal(t, []float64{1, KernelSentinel, 3, KernelSentinel}, v)
	}
	assert.Equal(t, []float64{2.5, 2.5, 2.5}, ConstArray(3, 2.5))
}
