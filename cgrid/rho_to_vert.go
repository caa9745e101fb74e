package cgrid

import (
	"math"

	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// RhoToVert reconstructs cell corners from rho points and the metrics pm, pn
// and angle, as found in model files that do not store vertices. Interior
// corners average the four surrounding centers; the outer ring is stepped out
// by half a cell width along the local grid direction.
func RhoToVert(xr, yr, pm, pn, ang utils.Matrix) (x, y utils.Matrix, err error) {
	for _, m := range []utils.Matrix{yr, pm, pn, ang} {
		if !m.SameShape(xr) {
			err = errors.Wrap(types.ErrValidation, "rho point arrays and metrics must share one shape")
			return
		}
	}
	Mp, Lp := xr.Dims()
	if Mp < 2 || Lp < 2 {
		err = errors.Wrapf(types.ErrValidation, "at least 2 x 2 rho points are required, have (%d, %d)", Mp, Lp)
		return
	}
	var (
		nc   = Lp + 1
		jl   = Mp // last vertex row
		il   = Lp
		a    = ang.At
		dxAt = func(j, i int) float64 { return 1 / pm.At(j, i) }
		dyAt = func(j, i int) float64 { return 1 / pn.At(j, i) }
	)
	x, y = utils.NewMatrix(Mp+1, Lp+1), utils.NewMatrix(Mp+1, Lp+1)
	X := func(j, i int) *float64 { return &x.DataP[j*nc+i] }
	Y := func(j, i int) *float64 { return &y.DataP[j*nc+i] }
	for j := 1; j < jl; j++ {
		for i := 1; i < il; i++ {
			*X(j, i) = 0.25 * (xr.At(j, i) + xr.At(j, i-1) + xr.At(j-1, i) + xr.At(j-1, i-1))
			*Y(j, i) = 0.25 * (yr.At(j, i) + yr.At(j, i-1) + yr.At(j-1, i) + yr.At(j-1, i-1))
		}
	}
	// east and west
	for j := 1; j < jl; j++ {
		var (
			theta = 0.5 * (a(j-1, Lp-1) + a(j, Lp-1))
			dx    = 0.5 * (dxAt(j-1, Lp-1) + dxAt(j, Lp-1))
		)
		*X(j, il) = *X(j, il-1) + dx*math.Cos(theta)
		*Y(j, il) = *Y(j, il-1) + dx*math.Sin(theta)
		theta = 0.5 * (a(j-1, 0) + a(j, 0))
		dx = 0.5 * (dxAt(j-1, 0) + dxAt(j, 0))
		*X(j, 0) = *X(j, 1) - dx*math.Cos(theta)
		*Y(j, 0) = *Y(j, 1) - dx*math.Sin(theta)
	}
	// north and south
	for i := 1; i < il; i++ {
		var (
			theta = 0.5 * (a(Mp-1, i-1) + a(Mp-1, i))
			dy    = 0.5 * (dyAt(Mp-1, i-1) + dyAt(Mp-1, i))
		)
		*X(jl, i) = *X(jl-1, i) - dy*math.Sin(theta)
		*Y(jl, i) = *Y(jl-1, i) + dy*math.Cos(theta)
		theta = 0.5 * (a(0, i-1) + a(0, i))
		dy = 0.5 * (dyAt(0, i-1) + dyAt(0, i))
		*X(0, i) = *X(1, i) + dy*math.Sin(theta)
		*Y(0, i) = *Y(1, i) - dy*math.Cos(theta)
	}
	// corners close the cells around the corner rho points
	for _, v := range []struct {
		r  utils.Matrix
		at func(j, i int) *float64
	}{{xr, X}, {yr, Y}} {
		*v.at(0, 0) = 4*v.r.At(0, 0) - *v.at(1, 0) - *v.at(0, 1) - *v.at(1, 1)
		*v.at(jl, 0) = 4*v.r.At(Mp-1, 0) - *v.at(jl-1, 0) - *v.at(jl, 1) - *v.at(jl-1, 1)
		*v.at(0, il) = 4*v.r.At(0, Lp-1) - *v.at(0, il-1) - *v.at(1, il) - *v.at(1, il-1)
		*v.at(jl, il) = 4*v.r.At(Mp-1, Lp-1) - *v.at(jl-1, il-1) - *v.at(jl-1, il) - *v.at(jl, il-1)
	}
	return
}
