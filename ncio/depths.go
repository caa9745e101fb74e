package ncio

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
	"github.com/notargets/octant/vertical"
)

// ZetaVariable reads free surface slices from a dataset on demand. A zeta
// without a record dimension has no time axis.
type ZetaVariable struct {
	v *Variable
}

var _ vertical.ZetaSource = ZetaVariable{}

func NewZetaVariable(ds *Dataset, name string) (zv ZetaVariable, err error) {
	if zv.v, err = ds.Variable(name); err != nil {
		return
	}
	if n := len(zv.v.Shape()); (zv.v.IsRecord() && n != 3) || (!zv.v.IsRecord() && n != 2) {
		err = errors.Wrapf(types.ErrValidation, "%s has dimensions %v, expected (time,) eta, xi", name, zv.v.Dims())
	}
	return
}

func (zv ZetaVariable) NumTimes() int { return zv.v.NumRecords() }

func (zv ZetaVariable) Slice(t int) (zeta utils.Matrix, err error) {
	if !zv.v.IsRecord() {
		if t != 0 {
			err = errors.Wrapf(types.ErrValidation, "%s has no time axis, requested slice %d", zv.v.Name, t)
			return
		}
		return zv.v.Matrix()
	}
	return zv.v.Matrix(t)
}

// ReadDepths builds the s-coordinate depths stored in a ROMS file: scalars
// hc, theta_s and theta_b, N from the N or s_rho dimension, and zeta read
// lazily. h is read from the file when empty. Files without Vtransform or
// Vstretching use kind 1.
func ReadDepths(ds *Dataset, family types.PointFamily, h utils.Matrix) (sc *vertical.SCoordinate, err error) {
	if h.IsEmpty() {
		var ok bool
		if h, ok, err = optionalMatrix(ds, "h"); err != nil {
			return
		}
		if !ok {
			err = errors.Wrapf(types.ErrMissingVariable, "h not found in %v", ds.Paths())
			return
		}
	}
	p := vertical.Params{Family: family}
	for name, dst := range map[string]*float64{"hc": &p.Hc, "theta_s": &p.ThetaS, "theta_b": &p.ThetaB} {
		if *dst, err = scalar(ds, name); err != nil {
			return
		}
	}
	for name, dst := range map[string]*int{"Vtransform": &p.Transform, "Vstretching": &p.Stretch} {
		if !ds.HasVariable(name) {
			Log.WithFields(logrus.Fields{"variable": name, "default": 1}).Warn("selector not found, using default")
			*dst = 1
			continue
		}
		var val float64
		if val, err = scalar(ds, name); err != nil {
			return
		}
		*dst = int(val)
	}
	if p.N, err = ds.DimLen("N"); err != nil {
		if p.N, err = ds.DimLen("s_rho"); err != nil {
			err = errors.Wrap(types.ErrMissingVariable, "neither an N nor an s_rho dimension is present")
			return
		}
	}
	var zeta vertical.ZetaSource
	if ds.HasVariable("zeta") {
		if zeta, err = NewZetaVariable(ds, "zeta"); err != nil {
			return
		}
	}
	return vertical.NewSCoordinate(h, p, zeta)
}

func scalar(ds *Dataset, name string) (val float64, err error) {
	var v *Variable
	if v, err = ds.Variable(name); err != nil {
		return
	}
	return v.Scalar()
}
