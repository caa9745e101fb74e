package utils

import (
	"gonum.org/v1/gonum/floats"
)

// ConstArray returns N copies of val.
func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	floats.AddConst(val, v)
	return
}

// Linspace returns N evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, N int) (v []float64) {
	if N < 1 {
		return
	}
	v = make([]float64, N)
	if N == 1 {
		v[0] = start
		return
	}
	dx := (stop - start) / float64(N-1)
	for i := range v {
		v[i] = start + float64(i)*dx
	}
	// Pin the end point against accumulated rounding
	v[N-1] = stop
	return
}

// Midpoints returns the N-1 averages of consecutive entries of v.
func Midpoints(v []float64) (m []float64) {
	if len(v) < 2 {
		return
	}
	m = make([]float64, len(v)-1)
	for i := range m {
		m[i] = 0.5 * (v[i] + v[i+1])
	}
	return
}
