package ncio

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/ctessum/cdf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/notargets/octant/cgrid"
	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// FillValue marks missing vertices in written files.
const FillValue = 1.e37

// ReadGrid builds a grid from a ROMS grid or history file. Vertices come
// from x_vert/y_vert, else lon_vert/lat_vert, else they are reconstructed
// from the rho points and metrics. mask_rho, h and f are used when present.
// A projection option makes lon_vert/lat_vert preferred over x_vert/y_vert.
func ReadGrid(src interface{}, opts ...cgrid.Option) (g *cgrid.CGrid, err error) {
	var ds *Dataset
	if ds, err = Resolve(src); err != nil {
		return
	}
	if ds != src {
		defer ds.Close()
	}
	for _, name := range []string{"mask_rho", "h", "f"} {
		var (
			m  utils.Matrix
			ok bool
		)
		if m, ok, err = optionalMatrix(ds, name); err != nil {
			return
		}
		if !ok {
			continue
		}
		switch name {
		case "mask_rho":
			opts = append(opts, cgrid.WithMask(m))
		case "h":
			opts = append(opts, cgrid.WithBathymetry(m))
		case "f":
			opts = append(opts, cgrid.WithCoriolis(m))
		}
	}
	var (
		hasXY     = ds.HasVariable("x_vert") && ds.HasVariable("y_vert")
		hasLonLat = ds.HasVariable("lon_vert") && ds.HasVariable("lat_vert")
		probe     cgrid.CGrid
	)
	for _, opt := range opts {
		opt(&probe)
	}
	switch {
	case hasLonLat && (probe.IsGeographic() || !hasXY || ds.Attribute("proj4") != nil):
		var lon, lat utils.Matrix
		if lon, lat, err = matrixPair(ds, "lon_vert", "lat_vert"); err != nil {
			return
		}
		if !probe.IsGeographic() {
			var p *cgrid.SRProjection
			if p, err = fileProjection(ds, lon, lat); err != nil {
				return
			}
			opts = append(opts, cgrid.WithProjection(p))
		}
		return cgrid.New(lon, lat, opts...)
	case hasXY:
		var x, y utils.Matrix
		if x, y, err = matrixPair(ds, "x_vert", "y_vert"); err != nil {
			return
		}
		return cgrid.New(x, y, opts...)
	}
	var x, y utils.Matrix
	if x, y, err = verticesFromRho(ds); err != nil {
		return
	}
	return cgrid.New(x, y, opts...)
}

func verticesFromRho(ds *Dataset) (x, y utils.Matrix, err error) {
	var xr, yr, pm, pn, ang utils.Matrix
	if xr, yr, err = matrixPair(ds, "x_rho", "y_rho"); err != nil {
		return
	}
	if pm, pn, err = matrixPair(ds, "pm", "pn"); err != nil {
		return
	}
	var ok bool
	if ang, ok, err = optionalMatrix(ds, "angle"); err != nil {
		return
	}
	if !ok {
		Log.WithFields(logrus.Fields{"files": ds.Paths()}).Warn("angle not found, assuming an unrotated grid")
		nr, nc := xr.Dims()
		ang = utils.NewMatrix(nr, nc)
	}
	if x, y, err = cgrid.RhoToVert(xr, yr, pm, pn, ang); err != nil {
		return
	}
	if ds.HasVariable("x_psi") && ds.HasVariable("y_psi") {
		var xp, yp utils.Matrix
		if xp, yp, err = matrixPair(ds, "x_psi", "y_psi"); err != nil {
			return
		}
		var (
			nr, nc = x.Dims()
			pr, pc = xp.Dims()
		)
		if pr != nr-2 || pc != nc-2 {
			err = errors.Wrapf(types.ErrValidation, "psi points are (%d, %d), expected (%d, %d)", pr, pc, nr-2, nc-2)
			return
		}
		for j := 0; j < pr; j++ {
			for i := 0; i < pc; i++ {
				x.Set(j+1, i+1, xp.At(j, i))
				y.Set(j+1, i+1, yp.At(j, i))
			}
		}
	}
	return
}

// fileProjection uses the proj4 attribute written by WriteGrid, or a
// Mercator projection centered on the grid.
func fileProjection(ds *Dataset, lon, lat utils.Matrix) (p *cgrid.SRProjection, err error) {
	def, ok := ds.Attribute("proj4").(string)
	if !ok || def == "" {
		def = fmt.Sprintf("+proj=merc +lon_0=%g +lat_ts=%g +datum=WGS84 +units=m",
			0.5*(lon.Min()+lon.Max()), 0.5*(lat.Min()+lat.Max()))
		Log.WithFields(logrus.Fields{"proj4": def}).Warn("no projection in file, using Mercator")
	}
	return cgrid.NewProjection(def)
}

func optionalMatrix(ds *Dataset, name string) (m utils.Matrix, ok bool, err error) {
	if !ds.HasVariable(name) {
		return
	}
	var v *Variable
	if v, err = ds.Variable(name); err != nil {
		return
	}
	if v.IsRecord() {
		m, err = v.Matrix(0)
	} else {
		m, err = v.Matrix()
	}
	ok = err == nil
	return
}

func matrixPair(ds *Dataset, xName, yName string) (x, y utils.Matrix, err error) {
	var ok bool
	for _, name := range []string{xName, yName} {
		var m utils.Matrix
		if m, ok, err = optionalMatrix(ds, name); err != nil {
			return
		}
		if !ok {
			err = errors.Wrapf(types.ErrMissingVariable, "%s not found in %v", name, ds.Paths())
			return
		}
		if name == xName {
			x = m
		} else {
			y = m
		}
	}
	if !x.SameShape(y) {
		err = errors.Wrapf(types.ErrValidation, "%s and %s differ in shape", xName, yName)
	}
	return
}

type WriteOptions struct {
	// FullOutput adds the coordinates of every point family.
	FullOutput bool
	Author     string
}

type gridVar struct {
	name, dims, units string
	data              utils.Matrix
	missing           bool // NaN written as FillValue rather than extrapolated
}

var familyDims = map[types.PointFamily][2]string{
	types.Rho:  {"eta_rho", "xi_rho"},
	types.U:    {"eta_u", "xi_u"},
	types.V:    {"eta_v", "xi_v"},
	types.Psi:  {"eta_psi", "xi_psi"},
	types.Vert: {"eta_vert", "xi_vert"},
}

// WriteGrid writes g as a classic format ROMS GRD file. Metrics undefined
// on masked cells are filled by Laplace extrapolation; missing vertices are
// written as FillValue.
func WriteGrid(w cdf.ReaderWriterAt, g *cgrid.CGrid, opts WriteOptions) (err error) {
	Mp, Lp := g.Shape()
	if Mp < 2 || Lp < 2 {
		return errors.Wrapf(types.ErrValidation, "grid of (%d, %d) cells is too small for a GRD file", Mp, Lp)
	}
	var vars []gridVar
	if vars, err = gridVariables(g, opts); err != nil {
		return
	}
	h := cdf.NewHeader(
		[]string{"xi_rho", "xi_u", "xi_v", "xi_psi", "eta_rho", "eta_u", "eta_v", "eta_psi", "xi_vert", "eta_vert"},
		[]int{Lp, Lp - 1, Lp, Lp - 1, Mp, Mp, Mp - 1, Mp - 1, Lp + 1, Mp + 1})
	author := opts.Author
	if author == "" {
		author = "octant"
	}
	h.AddAttribute("", "Description", "ROMS grid")
	h.AddAttribute("", "Author", author)
	h.AddAttribute("", "Created", time.Now().Format(time.RFC3339))
	h.AddAttribute("", "type", "ROMS GRD file")
	if sp, ok := g.Projection().(*cgrid.SRProjection); ok {
		h.AddAttribute("", "proj4", sp.Def)
	}

	xr, yr := g.Rho()
	mask := g.MaskRho()
	scalars := map[string]float64{"xl": ptp(xr, mask), "el": ptp(yr, mask)}
	for _, name := range []string{"xl", "el"} {
		h.AddVariable(name, []string{}, []float64{0})
		h.AddAttribute(name, "units", "meters")
	}
	h.AddVariable("spherical", []string{}, []int32{0})
	h.AddAttribute("spherical", "long_name", "grid type logical switch")
	h.AddAttribute("spherical", "flag_values", []int32{0, 1})
	h.AddAttribute("spherical", "flag_meanings", "Cartesian spherical")
	for _, v := range vars {
		h.AddVariable(v.name, familyDimsOf(v.dims), []float64{0})
		if v.units != "" {
			h.AddAttribute(v.name, "units", v.units)
		}
		if v.missing {
			h.AddAttribute(v.name, "_FillValue", []float64{FillValue})
		}
	}
	h.Define()
	for _, e := range h.Check() {
		return errors.Wrap(e, "defining grid file")
	}
	var f *cdf.File
	if f, err = cdf.Create(w, h); err != nil {
		return errors.Wrap(err, "creating grid file")
	}
	for name, val := range scalars {
		if err = writeVar(f, name, []float64{val}); err != nil {
			return errors.Wrapf(err, "writing %s", name)
		}
	}
	spherical := int32(0)
	if g.IsGeographic() {
		spherical = 1
	}
	if err = writeVar(f, "spherical", []int32{spherical}); err != nil {
		return errors.Wrap(err, "writing spherical")
	}
	for _, v := range vars {
		if err = writeVar(f, v.name, v.data.DataP); err != nil {
			return errors.Wrapf(err, "writing %s", v.name)
		}
	}
	return
}

// writeVar writes the whole of a fixed size variable. The cdf writer reports
// io.EOF once the last value of the variable is written.
func writeVar(f *cdf.File, name string, data interface{}) error {
	if _, err := f.Writer(name, nil, nil).Write(data); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// WriteGridFile writes the grid to a new file at path.
func WriteGridFile(path string, g *cgrid.CGrid, opts WriteOptions) (err error) {
	var fid *os.File
	if fid, err = os.Create(path); err != nil {
		return
	}
	if err = WriteGrid(fid, g, opts); err != nil {
		fid.Close()
		return
	}
	return fid.Close()
}

func familyDimsOf(key string) []string {
	pf, err := types.NewPointFamily(key)
	if err != nil {
		panic(err)
	}
	d := familyDims[pf]
	return []string{d[0], d[1]}
}

func gridVariables(g *cgrid.CGrid, opts WriteOptions) (vars []gridVar, err error) {
	add := func(name, dims, units string, m utils.Matrix, missing bool) {
		if !m.IsEmpty() {
			vars = append(vars, gridVar{name: name, dims: dims, units: units, data: m, missing: missing})
		}
	}
	f, err := g.Coriolis()
	if err != nil {
		return
	}
	add("pm", "rho", "meters-1", g.Pm(), false)
	add("pn", "rho", "meters-1", g.Pn(), false)
	add("dmde", "rho", "", g.Dmde(), false)
	add("dndx", "rho", "", g.Dndx(), false)
	add("angle", "rho", "radians", g.AngleRho(), false)
	add("f", "rho", "seconds-1", f, false)
	add("h", "rho", "meters", g.H(), false)
	add("mask_rho", "rho", "", g.MaskRho(), false)
	add("mask_u", "u", "", g.MaskU(), false)
	add("mask_v", "v", "", g.MaskV(), false)
	add("mask_psi", "psi", "", g.MaskPsi(), false)
	if opts.FullOutput {
		for _, pf := range []types.PointFamily{types.Vert, types.Rho, types.U, types.V, types.Psi} {
			x, y, _ := g.Points(pf)
			add("x_"+pf.String(), pf.String(), "meters", x, true)
			add("y_"+pf.String(), pf.String(), "meters", y, true)
			if g.IsGeographic() {
				var lon, lat utils.Matrix
				if lon, lat, err = g.LonLat(pf); err != nil {
					return
				}
				add("lon_"+pf.String(), pf.String(), "degree_east", lon, true)
				add("lat_"+pf.String(), pf.String(), "degree_north", lat, true)
			}
		}
	}
	for k, v := range vars {
		if !v.data.HasNaN() {
			continue
		}
		if v.missing {
			vars[k].data = v.data.Apply(func(a float64) float64 {
				if math.IsNaN(a) {
					return FillValue
				}
				return a
			})
			continue
		}
		if vars[k].data, err = cgrid.FillMasked(v.data, nil); err != nil {
			err = errors.Wrapf(err, "filling masked %s", v.name)
			return
		}
	}
	return
}

// ptp is the range of m over unmasked cells.
func ptp(m, mask utils.Matrix) float64 {
	var lo, hi = math.Inf(1), math.Inf(-1)
	for k, val := range m.DataP {
		if mask.DataP[k] == 0 || math.IsNaN(val) {
			continue
		}
		lo, hi = math.Min(lo, val), math.Max(hi, val)
	}
	if lo > hi {
		return 0
	}
	return hi - lo
}
