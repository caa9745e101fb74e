package ncio

import (
	"math"

	"github.com/pkg/errors"

	"github.com/notargets/octant/ocean"
	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
	"github.com/notargets/octant/vertical"
)

// ReadLevels reads record t of a (time, level, eta, xi) variable as a level
// stack, bottom level first.
func ReadLevels(ds *Dataset, name string, t int) (levels []utils.Matrix, err error) {
	var (
		v    *Variable
		data []float64
	)
	if v, err = ds.Variable(name); err != nil {
		return
	}
	shape := v.Shape()
	if !v.IsRecord() || len(shape) != 4 {
		err = errors.Wrapf(types.ErrValidation, "%s with dimensions %v is not a time series of 3-D fields", name, v.Dims())
		return
	}
	if data, err = v.ReadRecord(t); err != nil {
		return
	}
	var (
		nLev, ny, nx = shape[1], shape[2], shape[3]
		size         = ny * nx
	)
	levels = make([]utils.Matrix, nLev)
	for k := range levels {
		levels[k] = utils.NewMatrix(ny, nx, data[k*size:(k+1)*size])
	}
	return
}

// ReadVelocity reads the u and v levels of record t.
func ReadVelocity(ds *Dataset, t int) (u, v []utils.Matrix, err error) {
	if u, err = ReadLevels(ds, "u", t); err != nil {
		return
	}
	v, err = ReadLevels(ds, "v", t)
	return
}

// ReadN2 is the buoyancy frequency squared of record t, from the density
// rho and the rho depths of the file.
func ReadN2(ds *Dataset, t int, rho0 float64) (n2 []utils.Matrix, err error) {
	var (
		rho, zr []utils.Matrix
		sc      *vertical.SCoordinate
	)
	if rho, err = ReadLevels(ds, "rho", t); err != nil {
		return
	}
	if sc, err = ReadDepths(ds, types.Rho, utils.Matrix{}); err != nil {
		return
	}
	if zr, err = sc.TimeSlice(t); err != nil {
		return
	}
	return ocean.N2(rho, zr, rho0)
}

// GLSDissipation is the turbulent dissipation of record t from the tke and
// gls fields and the generic length scale parameters gls_cmu0, gls_m, gls_n
// and gls_p:
//
//	eps = cmu0^(3+p/n) tke^(3/2+m/n) gls^(-1/n)
func GLSDissipation(ds *Dataset, t int) (eps []utils.Matrix, err error) {
	var (
		coef     = make(map[string]float64)
		tke, gls []utils.Matrix
	)
	for _, name := range []string{"gls_cmu0", "gls_m", "gls_n", "gls_p"} {
		if coef[name], err = scalar(ds, name); err != nil {
			return
		}
	}
	n := coef["gls_n"]
	if n == 0 {
		err = errors.Wrap(types.ErrParameterRange, "gls_n must not be zero")
		return
	}
	if tke, err = ReadLevels(ds, "tke", t); err != nil {
		return
	}
	if gls, err = ReadLevels(ds, "gls", t); err != nil {
		return
	}
	if len(tke) != len(gls) {
		err = errors.Wrapf(types.ErrValidation, "tke and gls have %d and %d levels", len(tke), len(gls))
		return
	}
	scale := math.Pow(coef["gls_cmu0"], 3+coef["gls_p"]/n)
	eps = make([]utils.Matrix, len(tke))
	for k := range tke {
		if !tke[k].SameShape(gls[k]) {
			err = errors.Wrapf(types.ErrValidation, "tke and gls level %d differ in shape", k)
			return
		}
		eps[k] = tke[k].Combine(gls[k], func(q, l float64) float64 {
			return scale * math.Pow(q, 1.5+coef["gls_m"]/n) * math.Pow(l, -1/n)
		})
	}
	return
}
