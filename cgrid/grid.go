package cgrid

import (
	"math"

	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// CGrid is a curvilinear Arakawa C-grid defined by the (Ny+1) x (Nx+1)
// corners of its cells. Every other point family and metric is derived from
// the corners and the rho mask at the time it is requested, so changes to
// either are reflected immediately. The rho mask combines the land mask set
// by the caller with the cells made invalid by missing corners.
//
// A geographic grid is built from corner longitudes and latitudes plus a
// conformal Projection. Its x, y corners are the projected coordinates, its
// cell widths are geodesic distances and its angles use the projected plane.
type CGrid struct {
	xVert, yVert     utils.Matrix
	lonVert, latVert utils.Matrix
	proj             Projection
	land             utils.Matrix // caller and polygon mask
	maskRho          utils.Matrix // land with the missing corner cells removed
	f, h             utils.Matrix
}

type Option func(g *CGrid)

// WithProjection makes the grid geographic; the vertex arrays passed to New
// are then longitudes and latitudes in degrees.
func WithProjection(p Projection) Option { return func(g *CGrid) { g.proj = p } }

// WithMask supplies an initial rho mask, 1 for water and 0 for land.
func WithMask(mask utils.Matrix) Option { return func(g *CGrid) { g.land = copyOf(mask) } }

// WithCoriolis supplies the Coriolis parameter at rho points, overriding the
// value computed from latitude on geographic grids.
func WithCoriolis(f utils.Matrix) Option { return func(g *CGrid) { g.f = copyOf(f) } }

func WithBathymetry(h utils.Matrix) Option { return func(g *CGrid) { g.h = copyOf(h) } }

func copyOf(m utils.Matrix) utils.Matrix {
	if m.IsEmpty() {
		return m
	}
	return m.Copy()
}

func New(x, y utils.Matrix, opts ...Option) (g *CGrid, err error) {
	g = &CGrid{}
	for _, opt := range opts {
		opt(g)
	}
	if err = checkVertices(x, y); err != nil {
		return nil, err
	}
	var (
		nr, nc = x.Dims()
		ny, nx = nr - 1, nc - 1
	)
	if g.land.IsEmpty() {
		g.land = utils.NewMatrixConst(ny, nx, 1)
	}
	for _, fld := range []struct {
		name string
		m    utils.Matrix
	}{{"mask_rho", g.land}, {"f", g.f}, {"h", g.h}} {
		if fld.m.IsEmpty() {
			continue
		}
		if mr, mc := fld.m.Dims(); mr != ny || mc != nx {
			err = errors.Wrapf(types.ErrValidation,
				"%s has shape (%d, %d), rho points are (%d, %d)", fld.name, mr, mc, ny, nx)
			return nil, err
		}
	}
	if err = g.SetVertices(x, y); err != nil {
		return nil, err
	}
	return
}

func checkVertices(x, y utils.Matrix) (err error) {
	if x.IsEmpty() || y.IsEmpty() {
		return errors.Wrap(types.ErrValidation, "vertex arrays must be 2-D and non-empty")
	}
	if !x.SameShape(y) {
		nr, nc := x.Dims()
		nrY, ncY := y.Dims()
		return errors.Wrapf(types.ErrValidation,
			"x and y must have the same shape, have (%d, %d) and (%d, %d)", nr, nc, nrY, ncY)
	}
	if nr, nc := x.Dims(); nr < 2 || nc < 2 {
		return errors.Wrapf(types.ErrValidation, "at least 2 x 2 vertices are required, have (%d, %d)", nr, nc)
	}
	return
}

// SetVertices replaces the cell corners, which must keep the grid's shape.
// NaN corners mask every cell they touch; cells masked only by the previous
// corners are unmasked.
func (g *CGrid) SetVertices(x, y utils.Matrix) (err error) {
	if err = checkVertices(x, y); err != nil {
		return
	}
	if nr, nc := x.Dims(); !g.land.SameShape(utils.NewMatrix(nr-1, nc-1)) {
		return errors.Wrapf(types.ErrValidation, "vertices (%d, %d) do not match the grid shape", nr, nc)
	}
	x, y = x.Copy(), y.Copy()
	jointMissing(x, y)
	if g.proj != nil {
		var xv, yv utils.Matrix
		if xv, yv, err = forwardMatrix(g.proj, x, y); err != nil {
			return
		}
		jointMissing(xv, yv)
		g.lonVert, g.latVert = x, y
		g.xVert, g.yVert = xv, yv
	} else {
		g.xVert, g.yVert = x, y
	}
	g.updateMask()
	return
}

// updateMask rebuilds the rho mask from the land mask and the current
// corners.
func (g *CGrid) updateMask() {
	g.maskRho = g.land.Copy()
	g.maskCorners(jointMissing(g.xVert.Copy(), g.yVert.Copy()))
	if g.proj != nil {
		g.maskCorners(jointMissing(g.lonVert.Copy(), g.latVert.Copy()))
	}
}

// jointMissing marks a vertex missing in both arrays when either is NaN.
func jointMissing(x, y utils.Matrix) (missing []bool) {
	missing = make([]bool, x.Len())
	for i := range missing {
		if math.IsNaN(x.DataP[i]) || math.IsNaN(y.DataP[i]) {
			missing[i] = true
			x.DataP[i], y.DataP[i] = math.NaN(), math.NaN()
		}
	}
	return
}

func (g *CGrid) maskCorners(missing []bool) {
	var (
		ny, nx = g.Shape()
		nc     = nx + 1
	)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if missing[j*nc+i] || missing[j*nc+i+1] || missing[(j+1)*nc+i] || missing[(j+1)*nc+i+1] {
				g.maskRho.DataP[j*nx+i] = 0
			}
		}
	}
}

// Shape is the number of rho cells, (Ny, Nx).
func (g *CGrid) Shape() (ny, nx int) { return g.maskRho.Dims() }

func (g *CGrid) IsGeographic() bool { return g.proj != nil }

func (g *CGrid) Projection() Projection { return g.proj }

// Vertices returns copies of the Cartesian (or projected) cell corners.
func (g *CGrid) Vertices() (x, y utils.Matrix) { return g.xVert.Copy(), g.yVert.Copy() }

// LonLatVertices returns the geographic corners; both are empty on a
// Cartesian grid.
func (g *CGrid) LonLatVertices() (lon, lat utils.Matrix) {
	if g.proj == nil {
		return
	}
	return g.lonVert.Copy(), g.latVert.Copy()
}

// H is the bathymetry at rho points, empty when none was supplied.
func (g *CGrid) H() utils.Matrix { return copyOf(g.h) }

func (g *CGrid) SetH(h utils.Matrix) (err error) {
	ny, nx := g.Shape()
	if hr, hc := h.Dims(); hr != ny || hc != nx {
		return errors.Wrapf(types.ErrValidation, "h has shape (%d, %d), rho points are (%d, %d)", hr, hc, ny, nx)
	}
	g.h = h.Copy()
	return
}

// stencil builds an nr x nc matrix from f, or the empty matrix when either
// dimension is zero.
func stencil(nr, nc int, f func(j, i int) float64) (R utils.Matrix) {
	if nr < 1 || nc < 1 {
		return
	}
	R = utils.NewMatrix(nr, nc)
	for j := 0; j < nr; j++ {
		for i := 0; i < nc; i++ {
			R.DataP[j*nc+i] = f(j, i)
		}
	}
	return
}

func centers(v utils.Matrix, pf types.PointFamily) (R utils.Matrix) {
	var (
		nr, nc = v.Dims()
		ny, nx = nr - 1, nc - 1
		a      = v.At
	)
	switch pf {
	case types.Rho:
		R = stencil(ny, nx, func(j, i int) float64 {
			return 0.25 * (a(j, i) + a(j, i+1) + a(j+1, i) + a(j+1, i+1))
		})
	case types.U:
		R = stencil(ny, nx-1, func(j, i int) float64 { return 0.5 * (a(j, i+1) + a(j+1, i+1)) })
	case types.V:
		R = stencil(ny-1, nx, func(j, i int) float64 { return 0.5 * (a(j+1, i) + a(j+1, i+1)) })
	case types.Psi:
		R = stencil(ny-1, nx-1, func(j, i int) float64 { return a(j+1, i+1) })
	case types.Vert:
		R = v.Copy()
	}
	return
}

// Points returns the Cartesian (or projected) coordinates of a point family.
// U, V and Psi are empty when the grid is one cell wide in that direction.
func (g *CGrid) Points(pf types.PointFamily) (x, y utils.Matrix, err error) {
	switch pf {
	case types.Rho, types.U, types.V, types.Psi, types.Vert:
		x, y = centers(g.xVert, pf), centers(g.yVert, pf)
	default:
		err = errors.Wrapf(types.ErrUnsupported, "horizontal point family %v", pf)
	}
	return
}

func (g *CGrid) Rho() (x, y utils.Matrix) { x, y, _ = g.Points(types.Rho); return }
func (g *CGrid) U() (x, y utils.Matrix)   { x, y, _ = g.Points(types.U); return }
func (g *CGrid) V() (x, y utils.Matrix)   { x, y, _ = g.Points(types.V); return }
func (g *CGrid) Psi() (x, y utils.Matrix) { x, y, _ = g.Points(types.Psi); return }

// LonLat returns the geographic coordinates of a point family by inverse
// projection of its projected coordinates.
func (g *CGrid) LonLat(pf types.PointFamily) (lon, lat utils.Matrix, err error) {
	if g.proj == nil {
		err = errors.Wrap(types.ErrValidation, "grid is not geographic")
		return
	}
	if pf == types.Vert {
		lon, lat = g.LonLatVertices()
		return
	}
	var x, y utils.Matrix
	if x, y, err = g.Points(pf); err != nil || x.IsEmpty() {
		return
	}
	return inverseMatrix(g.proj, x, y)
}
