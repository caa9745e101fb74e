package cgrid

import (
	"math"
	"math/cmplx"

	"github.com/notargets/octant/utils"
)

// Orthogonality is the departure from right angles of each cell, in radians:
// the mean absolute angle between the unit edge vectors at the cell's four
// corners, less pi/2. It is zero for a rectangular grid.
func (g *CGrid) Orthogonality() (ortho utils.Matrix) {
	var (
		ny, nx = g.Shape()
		z      = func(j, i int) complex128 { return complex(g.xVert.At(j, i), g.yVert.At(j, i)) }
		unit   = func(d complex128) complex128 { return d / complex(cmplx.Abs(d), 0) }
		du     = func(j, i int) complex128 { return unit(z(j, i+1) - z(j, i)) }
		dv     = func(j, i int) complex128 { return unit(z(j+1, i) - z(j, i)) }
		angle  = func(a, b complex128) float64 {
			dot := real(a)*real(b) + imag(a)*imag(b)
			return math.Abs(math.Acos(math.Max(-1, math.Min(1, dot))))
		}
	)
	return stencil(ny, nx, func(j, i int) float64 {
		mean := 0.25 * (angle(du(j, i), dv(j, i)) + angle(du(j+1, i), dv(j, i)) +
			angle(du(j, i), dv(j, i+1)) + angle(du(j+1, i), dv(j, i+1)))
		return mean - math.Pi/2
	})
}
