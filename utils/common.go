package utils

import "math"

const (
	NODETOL = 1.e-12
	// KernelSentinel is the out-of-range value numerical slicing kernels write
	// where a column has no result. It must never leave the package that
	// calls the kernel; convert it with SentinelToNaN.
	KernelSentinel = 1.e20
)

// SentinelToNaN replaces every KernelSentinel entry of v with NaN in place
// and reports how many were converted.
func SentinelToNaN(v []float64) (count int) {
	for i, val := range v {
		if val == KernelSentinel {
			v[i] = math.NaN()
			count++
		}
	}
	return
}

// NaNToSentinel is the inverse of SentinelToNaN, used when handing a field
// with missing values to a kernel.
func NaNToSentinel(v []float64) (count int) {
	for i, val := range v {
		if val != val {
			v[i] = KernelSentinel
			count++
		}
	}
	return
}
