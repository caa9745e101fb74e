package ncio

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/octant/cgrid"
	"github.com/notargets/octant/ocean"
	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
	"github.com/notargets/octant/vertical"
)

type ncVar struct {
	dims []string
	data interface{}
}

// writeNC writes a classic NetCDF file. A dimension of length 0 is the record
// dimension and gets nrec records.
func writeNC(t *testing.T, path string, dimNames []string, dimLens []int, vars map[string]ncVar, nrec int) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	h := cdf.NewHeader(dimNames, dimLens)
	for _, name := range names {
		switch vars[name].data.(type) {
		case []int32:
			h.AddVariable(name, vars[name].dims, []int32{0})
		default:
			h.AddVariable(name, vars[name].dims, []float64{0})
		}
	}
	h.Define()
	require.Empty(t, h.Check())
	fid, err := os.Create(path)
	require.NoError(t, err)
	defer fid.Close()
	f, err := cdf.Create(fid, h)
	require.NoError(t, err)
	for _, name := range names {
		// io.EOF marks the end of a fixed size variable
		if _, err = f.Writer(name, nil, nil).Write(vars[name].data); err != io.EOF {
			require.NoError(t, err)
		}
	}
	if nrec > 0 {
		require.NoError(t, cdf.UpdateNumRecs(fid))
	}
}

func rectGrid(ny, nx int, dx, dy float64) (x, y utils.Matrix) {
	x, y = utils.NewMatrix(ny+1, nx+1), utils.NewMatrix(ny+1, nx+1)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			x.Set(j, i, float64(i)*dx)
			y.Set(j, i, float64(j)*dy)
		}
	}
	return
}

func TestGridRoundTrip(t *testing.T) {
	dir := t.TempDir()
	x, y := rectGrid(3, 4, 100, 50)
	x.Set(3, 4, math.NaN())
	mask := utils.NewMatrixConst(3, 4, 1)
	mask.Set(0, 1, 0)
	h := utils.NewMatrixConst(3, 4, 25)
	g, err := cgrid.New(x, y, cgrid.WithMask(mask), cgrid.WithBathymetry(h))
	require.NoError(t, err)
	path := filepath.Join(dir, "grd.nc")
	require.NoError(t, WriteGridFile(path, g, WriteOptions{FullOutput: true}))

	ds, err := Open(path)
	require.NoError(t, err)
	defer ds.Close()
	for _, name := range []string{"pm", "pn", "dmde", "dndx", "angle", "h", "mask_psi", "x_psi", "y_u", "x_vert", "xl", "spherical"} {
		assert.True(t, ds.HasVariable(name), name)
	}
	assert.False(t, ds.HasVariable("f"))
	assert.False(t, ds.HasVariable("lon_vert"))
	{
		n, err := ds.DimLen("xi_rho")
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		n, err = ds.DimLen("eta_vert")
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, 3, ds.Dimensions()["xi_psi"])
		_, err = ds.DimLen("ocean_time")
		assert.True(t, errors.Is(err, types.ErrMissingVariable))
	}
	{
		v, err := ds.Variable("spherical")
		require.NoError(t, err)
		sp, err := v.Scalar()
		require.NoError(t, err)
		assert.Equal(t, 0., sp)
		v, err = ds.Variable("xl")
		require.NoError(t, err)
		xl, err := v.Scalar()
		require.NoError(t, err)
		assert.InDelta(t, 300, xl, 1.e-9)
	}
	{ // Masked metrics are extrapolated, never NaN
		v, err := ds.Variable("pm")
		require.NoError(t, err)
		pm, err := v.Matrix()
		require.NoError(t, err)
		assert.False(t, pm.HasNaN())
		assert.InDelta(t, 0.01, pm.At(0, 0), 1.e-12)
	}

	g2, err := ReadGrid(ds)
	require.NoError(t, err)
	x2, y2 := g2.Vertices()
	assert.True(t, math.IsNaN(x2.At(3, 4)))
	assert.True(t, math.IsNaN(y2.At(3, 4)))
	x.Set(3, 4, 0)
	x2.Set(3, 4, 0)
	assert.Equal(t, x.DataP, x2.DataP)
	assert.Equal(t, g.MaskRho().DataP, g2.MaskRho().DataP)
	assert.Equal(t, 0., g2.MaskRho().At(2, 3))
	assert.Equal(t, h.DataP, g2.H().DataP)
	assert.False(t, g2.IsGeographic())

	_, err = ds.Variable("zeta")
	assert.True(t, errors.Is(err, types.ErrMissingVariable))
	{
		// Too small for a GRD file
		xs, ys := rectGrid(1, 3, 1, 1)
		gs, err := cgrid.New(xs, ys)
		require.NoError(t, err)
		err = WriteGridFile(filepath.Join(dir, "small.nc"), gs, WriteOptions{})
		assert.True(t, errors.Is(err, types.ErrValidation))
	}
}

func TestReadGridFromRho(t *testing.T) {
	var (
		dir  = t.TempDir()
		path = filepath.Join(dir, "his.nc")
	)
	x, y := rectGrid(3, 4, 2, 1)
	g, err := cgrid.New(x, y)
	require.NoError(t, err)
	var (
		xr, yr = g.Rho()
		xp, yp = g.Psi()
		rho    = []string{"eta_rho", "xi_rho"}
		psi    = []string{"eta_psi", "xi_psi"}
	)
	// psi points shifted to show they take precedence in the interior
	xp = xp.AddScalar(0.1)
	writeNC(t, path, []string{"eta_rho", "xi_rho", "eta_psi", "xi_psi"}, []int{3, 4, 2, 3},
		map[string]ncVar{
			"x_rho": {rho, xr.DataP}, "y_rho": {rho, yr.DataP},
			"pm": {rho, g.Pm().DataP}, "pn": {rho, g.Pn().DataP},
			"x_psi": {psi, xp.DataP}, "y_psi": {psi, yp.DataP},
		}, 0)
	g2, err := ReadGrid(path)
	require.NoError(t, err)
	x2, y2 := g2.Vertices()
	assert.InDeltaSlice(t, y.DataP, y2.DataP, 1.e-10)
	assert.InDelta(t, x.At(1, 1)+0.1, x2.At(1, 1), 1.e-10)
	assert.InDelta(t, x.At(0, 0), x2.At(0, 0), 1.e-10)
	assert.InDelta(t, x.At(3, 4), x2.At(3, 4), 1.e-10)
	{
		writeNC(t, filepath.Join(dir, "bad.nc"), []string{"eta_rho", "xi_rho"}, []int{3, 4},
			map[string]ncVar{"x_rho": {rho, xr.DataP}, "y_rho": {rho, yr.DataP}}, 0)
		_, err = ReadGrid(filepath.Join(dir, "bad.nc"))
		assert.True(t, errors.Is(err, types.ErrMissingVariable))
	}
}

func writeHistory(t *testing.T, path string, h []float64, zeta []float64, nrec int, withSelectors bool) {
	var (
		rho  = []string{"eta_rho", "xi_rho"}
		vars = map[string]ncVar{
			"h":       {rho, h},
			"hc":      {[]string{}, []float64{5}},
			"theta_s": {[]string{}, []float64{5}},
			"theta_b": {[]string{}, []float64{0.4}},
			"s_rho":   {[]string{"s_rho"}, []float64{-0.875, -0.625, -0.375, -0.125}},
			"zeta":    {[]string{"ocean_time", "eta_rho", "xi_rho"}, zeta},
		}
	)
	if withSelectors {
		vars["Vtransform"] = ncVar{[]string{}, []int32{2}}
		vars["Vstretching"] = ncVar{[]string{}, []int32{4}}
	}
	writeNC(t, path, []string{"ocean_time", "s_rho", "eta_rho", "xi_rho"}, []int{0, 4, 2, 3}, vars, nrec)
}

func TestReadDepths(t *testing.T) {
	var (
		dir  = t.TempDir()
		h    = []float64{10, 20, 30, 40, 50, 60}
		zeta = []float64{
			0, 0, 0, 0, 0, 0,
			1, 1, 1, -1, -1, -1,
			.5, .5, .5, .5, .5, .5,
		}
	)
	writeHistory(t, filepath.Join(dir, "his_0001.nc"), h, zeta[:12], 2, true)
	writeHistory(t, filepath.Join(dir, "his_0002.nc"), h, zeta[12:], 1, true)

	ds, err := OpenGlob(filepath.Join(dir, "his_*.nc"))
	require.NoError(t, err)
	defer ds.Close()
	assert.Equal(t, 2, len(ds.Paths()))
	{
		v, err := ds.Variable("zeta")
		require.NoError(t, err)
		assert.True(t, v.IsRecord())
		assert.Equal(t, []int{3, 2, 3}, v.Shape())
		all, err := v.ReadAll()
		require.NoError(t, err)
		assert.Equal(t, zeta, all)
		rec, err := v.ReadRecord(2)
		require.NoError(t, err)
		assert.Equal(t, zeta[12:], rec)
		_, err = v.ReadRecord(3)
		assert.True(t, errors.Is(err, types.ErrValidation))
	}
	sc, err := ReadDepths(ds, types.Rho, utils.Matrix{})
	require.NoError(t, err)
	assert.Equal(t, vertical.Params{Hc: 5, ThetaS: 5, ThetaB: 0.4, N: 4, Transform: 2, Stretch: 4, Family: types.Rho}, sc.Params())
	assert.Equal(t, 3, sc.NumTimes())

	var fields []utils.Matrix
	for k := 0; k < 3; k++ {
		fields = append(fields, utils.NewMatrix(2, 3, append([]float64(nil), zeta[6*k:6*k+6]...)))
	}
	ref, err := vertical.NewSCoordinate(utils.NewMatrix(2, 3, h), sc.Params(), vertical.SeriesZeta{Fields: fields})
	require.NoError(t, err)
	for _, idx := range [][]int{{0, 0, 0, 0}, {1, 3, 1, 2}, {2, 2, 0, 1}} {
		want, err := ref.At(idx...)
		require.NoError(t, err)
		have, err := sc.At(idx...)
		require.NoError(t, err)
		assert.InDelta(t, want, have, 1.e-12)
	}
	top, err := sc.TimeSlice(1)
	require.NoError(t, err)
	assert.True(t, top[3].At(0, 0) < 1)
	{ // Defaults and a supplied h
		path := filepath.Join(dir, "old.nc")
		writeHistory(t, path, h, zeta[:6], 1, false)
		ds1, err := Open(path)
		require.NoError(t, err)
		defer ds1.Close()
		sc, err := ReadDepths(ds1, types.W, utils.NewMatrixConst(2, 3, 100))
		require.NoError(t, err)
		assert.Equal(t, 1, sc.Params().Transform)
		assert.Equal(t, 1, sc.Params().Stretch)
		assert.Equal(t, 5, sc.NumLevels())
		z, err := sc.At(0, 0, 1, 1)
		require.NoError(t, err)
		assert.InDelta(t, -100, z, 1.e-12)
	}
}

func TestResolve(t *testing.T) {
	_, err := Resolve(42)
	assert.True(t, errors.Is(err, types.ErrUnsupported))
	_, err = OpenGlob(filepath.Join(t.TempDir(), "none_*.nc"))
	assert.True(t, errors.Is(err, types.ErrValidation))
	_, err = Open()
	assert.True(t, errors.Is(err, types.ErrValidation))
	_, err = Open(filepath.Join(t.TempDir(), "missing.nc"))
	assert.Error(t, err)
}

func TestAnalysis(t *testing.T) {
	var (
		path = filepath.Join(t.TempDir(), "ocean_his.nc")
		ny   = 3
		nx   = 3
		lev  = func(nLev, nr, nc int, f func(k, j, i int) float64) (data []float64) {
			for k := 0; k < nLev; k++ {
				for j := 0; j < nr; j++ {
					for i := 0; i < nc; i++ {
						data = append(data, f(k, j, i))
					}
				}
			}
			return
		}
		rho4 = []string{"ocean_time", "s_rho", "eta_rho", "xi_rho"}
		w4   = []string{"ocean_time", "s_w", "eta_rho", "xi_rho"}
	)
	writeNC(t, path,
		[]string{"ocean_time", "s_rho", "s_w", "eta_rho", "xi_rho", "eta_u", "xi_u", "eta_v", "xi_v"},
		[]int{0, 2, 3, ny, nx, ny, nx - 1, ny - 1, nx},
		map[string]ncVar{
			"h":           {[]string{"eta_rho", "xi_rho"}, utils.ConstArray(ny*nx, 10)},
			"hc":          {[]string{}, []float64{5}},
			"theta_s":     {[]string{}, []float64{5}},
			"theta_b":     {[]string{}, []float64{0.4}},
			"Vtransform":  {[]string{}, []int32{2}},
			"Vstretching": {[]string{}, []int32{4}},
			"gls_cmu0":    {[]string{}, []float64{0.5}},
			"gls_m":       {[]string{}, []float64{1}},
			"gls_n":       {[]string{}, []float64{-1}},
			"gls_p":       {[]string{}, []float64{3}},
			"zeta":        {[]string{"ocean_time", "eta_rho", "xi_rho"}, utils.ConstArray(ny*nx, 0)},
			"rho":         {rho4, lev(2, ny, nx, func(k, j, i int) float64 { return 1025 - float64(k) })},
			"tke":         {w4, lev(3, ny, nx, func(k, j, i int) float64 { return 4 })},
			"gls":         {w4, lev(3, ny, nx, func(k, j, i int) float64 { return float64(k + 1) })},
			"u": {[]string{"ocean_time", "s_rho", "eta_u", "xi_u"},
				lev(2, ny, nx-1, func(k, j, i int) float64 { return 0.5 * (float64(j) + 0.5) })},
			"v": {[]string{"ocean_time", "s_rho", "eta_v", "xi_v"},
				lev(2, ny-1, nx, func(k, j, i int) float64 { return 0 })},
		}, 1)
	ds, err := Open(path)
	require.NoError(t, err)
	defer ds.Close()
	{
		rho, err := ReadLevels(ds, "rho", 0)
		require.NoError(t, err)
		assert.Equal(t, 2, len(rho))
		assert.Equal(t, 1024., rho[1].At(2, 2))
		_, err = ReadLevels(ds, "h", 0)
		assert.True(t, errors.Is(err, types.ErrValidation))
		_, err = ReadLevels(ds, "rho", 1)
		assert.True(t, errors.Is(err, types.ErrValidation))
	}
	{
		n2, err := ReadN2(ds, 0, 1000)
		require.NoError(t, err)
		require.Equal(t, 1, len(n2))
		sc, err := ReadDepths(ds, types.Rho, utils.Matrix{})
		require.NoError(t, err)
		zr, err := sc.TimeSlice(0)
		require.NoError(t, err)
		dz := zr[1].At(1, 1) - zr[0].At(1, 1)
		assert.True(t, dz > 0)
		assert.InDelta(t, 9.8e-3/dz, n2[0].At(1, 1), 1.e-12)
	}
	{
		// cmu0^0 tke^0.5 gls^1
		eps, err := GLSDissipation(ds, 0)
		require.NoError(t, err)
		require.Equal(t, 3, len(eps))
		for k := range eps {
			assert.InDeltaSlice(t, utils.ConstArray(ny*nx, 2*float64(k+1)), eps[k].DataP, 1.e-12)
		}
	}
	{
		// u = y/2 on a unit grid has curl -1/2
		u, v, err := ReadVelocity(ds, 0)
		require.NoError(t, err)
		x, y := rectGrid(ny, nx, 1, 1)
		g, err := cgrid.New(x, y)
		require.NoError(t, err)
		curl, err := ocean.Curl(g, u, v)
		require.NoError(t, err)
		assert.InDeltaSlice(t, utils.ConstArray((ny-1)*(nx-1), -0.5), curl[1].DataP, 1.e-12)
	}
}
