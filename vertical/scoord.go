package vertical

import (
	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// SCoordinate is the depth field of an s-coordinate model. Depths are
// evaluated from the bathymetry, the stretching curve and one free surface
// slice at a time; nothing is precomputed beyond the 1-D s and C arrays.
type SCoordinate struct {
	h      utils.Matrix
	params Params
	zeta   ZetaSource
	s, c   []float64
}

// NewSCoordinate builds a depth field over bathymetry h. A nil zeta means a
// flat, resting free surface.
func NewSCoordinate(h utils.Matrix, p Params, zeta ZetaSource) (sc *SCoordinate, err error) {
	if h.IsEmpty() {
		err = errors.Wrap(types.ErrValidation, "bathymetry is empty")
		return
	}
	if err = p.Validate(); err != nil {
		return
	}
	if err = checkCriticalDepth(p.Transform, p.Hc, h); err != nil {
		return
	}
	if zeta == nil {
		zeta = ConstantZeta{Field: utils.NewMatrix(h.Dims())}
	}
	sc = &SCoordinate{
		h:      h,
		params: p,
		zeta:   zeta,
	}
	if sc.s, sc.c, err = curve(p, p.Family); err != nil {
		return nil, err
	}
	return
}

func curve(p Params, family types.PointFamily) (s, c []float64, err error) {
	if s, err = SLevels(p.N, family); err != nil {
		return
	}
	c, err = Stretching(p.Stretch, s, p.ThetaS, p.ThetaB)
	return
}

func (sc *SCoordinate) Params() Params { return sc.params }
func (sc *SCoordinate) H() utils.Matrix { return sc.h }

// S returns a copy of the dimensionless levels, bottom to top.
func (sc *SCoordinate) S() []float64 { return append([]float64(nil), sc.s...) }

// C returns a copy of the stretching curve at S.
func (sc *SCoordinate) C() []float64 { return append([]float64(nil), sc.c...) }

func (sc *SCoordinate) NumLevels() int { return len(sc.s) }

// NumTimes is the free surface time axis length, 0 when zeta has none.
func (sc *SCoordinate) NumTimes() int { return sc.zeta.NumTimes() }

func (sc *SCoordinate) fetch(t int) (zeta utils.Matrix, err error) {
	if nt := sc.zeta.NumTimes(); nt != 0 && (t < 0 || t >= nt) {
		err = errors.Wrapf(types.ErrValidation, "time index %d outside [0, %d)", t, nt)
		return
	}
	if zeta, err = sc.zeta.Slice(t); err != nil {
		return
	}
	if zeta.IsEmpty() {
		zeta = utils.NewMatrix(sc.h.Dims())
	}
	return
}

func (sc *SCoordinate) levels(s, c []float64, zeta utils.Matrix) (z []utils.Matrix, err error) {
	z = make([]utils.Matrix, len(s))
	for k := range s {
		var zo utils.Matrix
		if zo, err = Zo(sc.params.Transform, s[k], c[k], sc.params.Hc, sc.h); err != nil {
			return
		}
		if z[k], err = Depth(sc.params.Transform, zo, sc.h, zeta); err != nil {
			return
		}
	}
	return
}

// TimeSlice returns the depths at time index t, one field per level ordered
// bottom to top. Only that one free surface slice is read.
func (sc *SCoordinate) TimeSlice(t int) (z []utils.Matrix, err error) {
	var zeta utils.Matrix
	if zeta, err = sc.fetch(t); err != nil {
		return
	}
	return sc.levels(sc.s, sc.c, zeta)
}

// Range returns the time slices [t0, t1).
func (sc *SCoordinate) Range(t0, t1 int) (z [][]utils.Matrix, err error) {
	if t1 < t0 {
		err = errors.Wrapf(types.ErrValidation, "empty time range [%d, %d)", t0, t1)
		return
	}
	z = make([][]utils.Matrix, 0, t1-t0)
	for t := t0; t < t1; t++ {
		var zt []utils.Matrix
		if zt, err = sc.TimeSlice(t); err != nil {
			return nil, err
		}
		z = append(z, zt)
	}
	return
}

// At indexes a single depth. Four indices are (t, k, j, i). Three indices
// (k, j, i) are accepted when the free surface has no time axis.
func (sc *SCoordinate) At(idx ...int) (z float64, err error) {
	var t, k, j, i int
	switch len(idx) {
	case 4:
		t, k, j, i = idx[0], idx[1], idx[2], idx[3]
	case 3:
		if nt := sc.NumTimes(); nt != 0 {
			err = errors.Wrapf(types.ErrValidation, "free surface has %d times, a time index is required", nt)
			return
		}
		k, j, i = idx[0], idx[1], idx[2]
	default:
		err = errors.Wrapf(types.ErrValidation, "expected 3 or 4 indices, have %d", len(idx))
		return
	}
	nr, nc := sc.h.Dims()
	if k < 0 || k >= len(sc.s) || j < 0 || j >= nr || i < 0 || i >= nc {
		err = errors.Wrapf(types.ErrValidation,
			"index (%d, %d, %d) outside (%d, %d, %d)", k, j, i, len(sc.s), nr, nc)
		return
	}
	var (
		zeta utils.Matrix
		zo   utils.Matrix
		col  utils.Matrix
	)
	if zeta, err = sc.fetch(t); err != nil {
		return
	}
	if !zeta.SameShape(sc.h) {
		err = errors.Wrap(types.ErrValidation, "free surface shape does not match bathymetry")
		return
	}
	h := utils.NewMatrix(1, 1, []float64{sc.h.At(j, i)})
	if zo, err = Zo(sc.params.Transform, sc.s[k], sc.c[k], sc.params.Hc, h); err != nil {
		return
	}
	if col, err = Depth(sc.params.Transform, zo, h, utils.NewMatrix(1, 1, []float64{zeta.At(j, i)})); err != nil {
		return
	}
	z = col.DataP[0]
	return
}

// Rest returns the depths with the free surface at rest.
func (sc *SCoordinate) Rest() (z []utils.Matrix) {
	z, _ = sc.levels(sc.s, sc.c, utils.NewMatrix(sc.h.Dims()))
	return
}

// Hz returns the N layer thicknesses at time index t, computed from the w
// levels of the same parameters regardless of the coordinate's own family.
func (sc *SCoordinate) Hz(t int) (hz []utils.Matrix, err error) {
	var (
		sw, cw []float64
		zeta   utils.Matrix
		zw     []utils.Matrix
	)
	if sw, cw, err = curve(sc.params, types.W); err != nil {
		return
	}
	if zeta, err = sc.fetch(t); err != nil {
		return
	}
	if zw, err = sc.levels(sw, cw, zeta); err != nil {
		return
	}
	hz = make([]utils.Matrix, len(zw)-1)
	for k := range hz {
		hz[k] = zw[k+1].Subtract(zw[k])
	}
	return
}
