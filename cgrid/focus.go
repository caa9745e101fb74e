package cgrid

import (
	"math"

	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// FocusPoint concentrates resolution of a unit square grid around (Xo, Yo).
// The focused region is roughly Gaussian with extents Rx and Ry, and the
// resolution there increases by about Factor. A large R (10 is plenty)
// focuses along a line instead of around a point.
type FocusPoint struct {
	Xo, Yo float64
	Factor float64
	Rx, Ry float64
}

// NewFocusPoint fills in the defaults: factor 2, Rx 0.1 and Ry = Rx.
func NewFocusPoint(xo, yo, factor, rx, ry float64) (fp FocusPoint) {
	if factor == 0 {
		factor = 2
	}
	if rx == 0 {
		rx = 0.1
	}
	if ry == 0 {
		ry = rx
	}
	return FocusPoint{Xo: xo, Yo: yo, Factor: factor, Rx: rx, Ry: ry}
}

// Transform maps one point of the unit square. The square's edges map onto
// themselves.
func (fp FocusPoint) Transform(x, y float64) (xf, yf float64) {
	var (
		alpha = 1 - 1/fp.Factor
		c     = 0.5 * math.Sqrt(math.Pi) * alpha
		fx    = func(x, y float64) float64 {
			return x - c*fp.Rx*math.Exp(-(y-fp.Yo)*(y-fp.Yo)/(fp.Ry*fp.Ry))*math.Erf((x-fp.Xo)/fp.Rx)
		}
		fy = func(x, y float64) float64 {
			return y - c*fp.Ry*math.Exp(-(x-fp.Xo)*(x-fp.Xo)/(fp.Rx*fp.Rx))*math.Erf((y-fp.Yo)/fp.Ry)
		}
		x0, x1 = fx(0, y), fx(1, y)
		y0, y1 = fy(x, 0), fy(x, 1)
	)
	xf = (fx(x, y) - x0) / (x1 - x0)
	yf = (fy(x, y) - y0) / (y1 - y0)
	return
}

// Focus applies its points in sequence.
type Focus []FocusPoint

func (f Focus) Transform(x, y float64) (xf, yf float64) {
	xf, yf = x, y
	for _, fp := range f {
		xf, yf = fp.Transform(xf, yf)
	}
	return
}

// Apply transforms grids of unit square coordinates.
func (f Focus) Apply(x, y utils.Matrix) (xf, yf utils.Matrix, err error) {
	if !x.SameShape(y) {
		err = errors.Wrap(types.ErrValidation, "x and y must have the same shape")
		return
	}
	for i := range x.DataP {
		if x.DataP[i] < 0 || x.DataP[i] > 1 || y.DataP[i] < 0 || y.DataP[i] > 1 {
			err = errors.Wrapf(types.ErrValidation,
				"focus coordinates must lie in [0, 1], have (%v, %v)", x.DataP[i], y.DataP[i])
			return
		}
	}
	xf, yf = x.Copy(), y.Copy()
	for i := range xf.DataP {
		xf.DataP[i], yf.DataP[i] = f.Transform(x.DataP[i], y.DataP[i])
	}
	return
}

// UnitGrid returns ny x nx evenly spaced coordinates covering [0, 1] x [0, 1],
// x varying along rows.
func UnitGrid(ny, nx int) (x, y utils.Matrix) {
	var (
		xs = utils.Linspace(0, 1, nx)
		ys = utils.Linspace(0, 1, ny)
	)
	x, y = utils.NewMatrix(ny, nx), utils.NewMatrix(ny, nx)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			x.DataP[j*nx+i], y.DataP[j*nx+i] = xs[i], ys[j]
		}
	}
	return
}
