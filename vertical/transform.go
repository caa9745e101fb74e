package vertical

import (
	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// Params selects and parameterizes an s-coordinate system.
type Params struct {
	Hc        float64 // critical depth
	ThetaS    float64 // surface stretching
	ThetaB    float64 // bottom stretching
	N         int     // number of rho layers
	Transform int     // 1 or 2
	Stretch   int     // 1 through 4
	Family    types.PointFamily
}

// Validate checks the selectors and parameter ranges that do not depend on
// bathymetry.
func (p Params) Validate() (err error) {
	if p.N < 1 {
		return errors.Wrapf(types.ErrValidation, "N must be at least 1, have %d", p.N)
	}
	if p.Transform != 1 && p.Transform != 2 {
		return errors.Wrapf(types.ErrUnsupported, "transform kind %d, must be 1 or 2", p.Transform)
	}
	if p.Family != types.Rho && p.Family != types.W {
		return errors.Wrapf(types.ErrUnsupported, "vertical point family %v, must be rho or w", p.Family)
	}
	if p.Hc < 0 {
		return errors.Wrapf(types.ErrParameterRange, "hc must be non-negative, have %v", p.Hc)
	}
	return checkStretching(p.Stretch, p.ThetaS, p.ThetaB)
}

// SLevels returns the dimensionless levels for n layers. The w family has
// n+1 values from -1 to 0 inclusive. The rho family has n values, the
// midpoints of those same w levels.
func SLevels(n int, family types.PointFamily) (s []float64, err error) {
	if n < 1 {
		err = errors.Wrapf(types.ErrValidation, "number of levels must be at least 1, have %d", n)
		return
	}
	sw := utils.Linspace(-1, 0, n+1)
	switch family {
	case types.W:
		s = sw
	case types.Rho:
		s = utils.Midpoints(sw)
	default:
		err = errors.Wrapf(types.ErrUnsupported, "vertical point family %v", family)
	}
	return
}

// Zo returns the zeta independent part of the transform at one level. For
// kind 1 this is the resting depth, for kind 2 it is the dimensionless
// fraction of the total water column.
func Zo(kind int, s, C, hc float64, h utils.Matrix) (zo utils.Matrix, err error) {
	switch kind {
	case 1:
		zo = h.Apply(func(h float64) float64 { return hc*(s-C) + C*h })
	case 2:
		zo = h.Apply(func(h float64) float64 { return (hc*s + C*h) / (hc + h) })
	default:
		err = errors.Wrapf(types.ErrUnsupported, "transform kind %d, must be 1 or 2", kind)
	}
	return
}

// Depth combines Zo with the free surface and bathymetry into physical depth,
// negative down from the resting surface.
func Depth(kind int, zo, h, zeta utils.Matrix) (z utils.Matrix, err error) {
	if !zo.SameShape(h) || !zeta.SameShape(h) {
		nr, nc := h.Dims()
		nrZ, ncZ := zeta.Dims()
		err = errors.Wrapf(types.ErrValidation,
			"zeta shape (%d, %d) does not match bathymetry shape (%d, %d)", nrZ, ncZ, nr, nc)
		return
	}
	z = utils.NewMatrix(h.Dims())
	switch kind {
	case 1:
		for i, zoI := range zo.DataP {
			z.DataP[i] = zoI + zeta.DataP[i]*(1+zoI/h.DataP[i])
		}
	case 2:
		for i, zoI := range zo.DataP {
			z.DataP[i] = zeta.DataP[i] + (zeta.DataP[i]+h.DataP[i])*zoI
		}
	default:
		err = errors.Wrapf(types.ErrUnsupported, "transform kind %d, must be 1 or 2", kind)
	}
	return
}

func checkCriticalDepth(kind int, hc float64, h utils.Matrix) (err error) {
	if kind == 1 {
		if hMin := h.Min(); hc > hMin {
			err = errors.Wrapf(types.ErrParameterRange,
				"transform kind 1 requires hc <= min(h), have hc = %v, min(h) = %v", hc, hMin)
		}
	}
	return
}
