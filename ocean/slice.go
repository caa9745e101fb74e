package ocean

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// IsoSlice projects v onto the surface where prop == isoval, interpolating
// linearly across each sign change of prop - isoval in a column and
// averaging when there are several. Columns without a crossing are NaN; if
// no column crosses, the result is returned with an ErrParameterRange.
func IsoSlice(v, prop []utils.Matrix, isoval float64) (res utils.Matrix, err error) {
	if err = sameStack(v, prop); err != nil {
		return
	}
	if len(v) < 2 {
		err = errors.Wrap(types.ErrValidation, "isoslice needs at least two levels")
		return
	}
	var (
		nr, nc = v[0].Dims()
		count  = make([]int, nr*nc)
	)
	res = utils.NewMatrix(nr, nc)
	for k := 0; k < len(v)-1; k++ {
		for n := range res.DataP {
			var (
				pl, ph = prop[k].DataP[n] - isoval, prop[k+1].DataP[n] - isoval
				vl, vh = v[k].DataP[n], v[k+1].DataP[n]
			)
			if pl*ph < 0 {
				res.DataP[n] += vl - pl*(vh-vl)/(ph-pl)
				count[n]++
			}
		}
	}
	var crossed int
	for n, c := range count {
		if c == 0 {
			res.DataP[n] = math.NaN()
			continue
		}
		res.DataP[n] /= float64(c)
		crossed++
	}
	if crossed == 0 {
		var lo, hi = math.Inf(1), math.Inf(-1)
		for _, m := range prop {
			lo, hi = math.Min(lo, m.Min()), math.Max(hi, m.Max())
		}
		err = errors.Wrapf(types.ErrParameterRange, "property == %v out of range (%v, %v)", isoval, lo, hi)
	}
	return
}

// SliceKernel is the column kernel behind ZSlice, Surface and IsoIntegrate.
// Levels are ordered bottom to top. A kernel writes
// utils.KernelSentinel where a column has no answer, and reads it as a
// missing isosurface depth.
type SliceKernel interface {
	// ZSlice interpolates q to depth zo.
	ZSlice(z, q []float64, zo float64) float64
	// Surface is the depth of the uppermost crossing of q through qo.
	Surface(z, q []float64, qo float64) float64
	// Integrate is the integral of q from depth ziso to the top of the
	// column; q is constant within layers bounded by the w depths zw.
	Integrate(zw, q []float64, ziso float64) float64
}

// Kernel is used by ZSlice, Surface and IsoIntegrate.
var Kernel SliceKernel = LinearKernel{}

type LinearKernel struct{}

func (LinearKernel) ZSlice(z, q []float64, zo float64) float64 {
	for k := 0; k < len(z)-1; k++ {
		if (zo-z[k])*(zo-z[k+1]) <= 0 && z[k] != z[k+1] {
			return q[k] + (q[k+1]-q[k])*(zo-z[k])/(z[k+1]-z[k])
		}
	}
	return utils.KernelSentinel
}

func (LinearKernel) Surface(z, q []float64, qo float64) float64 {
	for k := len(z) - 2; k >= 0; k-- {
		ql, qh := q[k]-qo, q[k+1]-qo
		if ql*qh <= 0 && ql != qh {
			return z[k] - ql*(z[k+1]-z[k])/(qh-ql)
		}
	}
	return utils.KernelSentinel
}

func (LinearKernel) Integrate(zw, q []float64, ziso float64) (sum float64) {
	if ziso == utils.KernelSentinel {
		return utils.KernelSentinel
	}
	for k := range q {
		lo, hi := math.Max(zw[k], ziso), zw[k+1]
		if hi > lo {
			sum += q[k] * (hi - lo)
		}
	}
	return
}

// SplineKernel interpolates depth slices with an Akima spline through the
// column, falling back to linear interpolation for short columns.
type SplineKernel struct {
	LinearKernel
}

func (sk SplineKernel) ZSlice(z, q []float64, zo float64) float64 {
	if len(z) < 3 || zo < z[0] || zo > z[len(z)-1] {
		return sk.LinearKernel.ZSlice(z, q, zo)
	}
	var as interp.AkimaSpline
	if err := as.Fit(z, q); err != nil {
		return sk.LinearKernel.ZSlice(z, q, zo)
	}
	return as.Predict(zo)
}

// column gathers one water column from a level stack.
func column(f []utils.Matrix, n int, col []float64) []float64 {
	for k := range f {
		col[k] = f[k].DataP[n]
	}
	return col
}

func applyKernel(a, b []utils.Matrix, c utils.Matrix, nLev int,
	f func(a, b []float64, c float64) float64) (res utils.Matrix) {
	var (
		nr, nc = c.Dims()
		ca     = make([]float64, len(a))
		cb     = make([]float64, nLev)
	)
	res = utils.NewMatrix(nr, nc)
	for n := range res.DataP {
		res.DataP[n] = f(column(a, n, ca), column(b, n, cb), c.DataP[n])
	}
	utils.SentinelToNaN(res.DataP)
	return
}

// ZSlice interpolates q to the depths zo. Where zo is outside a column the
// result is NaN.
func ZSlice(z, q []utils.Matrix, zo utils.Matrix) (res utils.Matrix, err error) {
	if err = checkSlice(z, q, zo); err != nil {
		return
	}
	return applyKernel(z, q, zo, len(q), Kernel.ZSlice), nil
}

// Surface returns the depth where q == qo, NaN where q never crosses qo.
func Surface(z, q []utils.Matrix, qo utils.Matrix) (res utils.Matrix, err error) {
	if err = checkSlice(z, q, qo); err != nil {
		return
	}
	return applyKernel(z, q, qo, len(q), Kernel.Surface), nil
}

// IsoIntegrate integrates q, given at the N rho levels, from the depths ziso
// to the surface. zw holds the N+1 w levels. NaN isosurface depths give NaN.
func IsoIntegrate(zw, q []utils.Matrix, ziso utils.Matrix) (res utils.Matrix, err error) {
	if len(zw) != len(q)+1 {
		err = errors.Wrapf(types.ErrValidation, "have %d w levels for %d layers", len(zw), len(q))
		return
	}
	if err = checkSlice(zw[1:], q, ziso); err != nil {
		return
	}
	ziso = ziso.Copy()
	utils.NaNToSentinel(ziso.DataP)
	return applyKernel(zw, q, ziso, len(q), Kernel.Integrate), nil
}

func checkSlice(z, q []utils.Matrix, c utils.Matrix) (err error) {
	if err = sameStack(z, q); err != nil {
		return
	}
	if len(z) == 0 {
		return errors.Wrap(types.ErrValidation, "no levels")
	}
	if !c.SameShape(z[0]) {
		return errors.Wrap(types.ErrValidation, "slice value field differs in shape from the levels")
	}
	return
}
