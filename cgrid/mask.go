package cgrid

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// MaskRho returns a copy of the rho mask, 1 for water and 0 for land.
func (g *CGrid) MaskRho() utils.Matrix { return g.maskRho.Copy() }

// SetMaskRho replaces the rho mask. Cells with a missing corner stay masked.
func (g *CGrid) SetMaskRho(mask utils.Matrix) (err error) {
	if !mask.SameShape(g.maskRho) {
		ny, nx := g.Shape()
		mr, mc := mask.Dims()
		return errors.Wrapf(types.ErrValidation, "mask_rho has shape (%d, %d), rho points are (%d, %d)", mr, mc, ny, nx)
	}
	g.land = mask.Copy()
	g.updateMask()
	return
}

// MaskU is valid only where both neighbouring rho cells are.
func (g *CGrid) MaskU() utils.Matrix {
	var (
		ny, nx = g.Shape()
		m      = g.maskRho.At
	)
	return stencil(ny, nx-1, func(j, i int) float64 { return m(j, i+1) * m(j, i) })
}

func (g *CGrid) MaskV() utils.Matrix {
	var (
		ny, nx = g.Shape()
		m      = g.maskRho.At
	)
	return stencil(ny-1, nx, func(j, i int) float64 { return m(j+1, i) * m(j, i) })
}

func (g *CGrid) MaskPsi() utils.Matrix {
	var (
		ny, nx = g.Shape()
		m      = g.maskRho.At
	)
	return stencil(ny-1, nx-1, func(j, i int) float64 {
		return m(j+1, i+1) * m(j, i+1) * m(j+1, i) * m(j, i)
	})
}

// Polygon is a simple, possibly non-convex, closed polygon in grid
// coordinates.
type Polygon struct {
	poly geom.Polygon
}

// NewPolygon builds a polygon from an (n, 2) array of vertices, n >= 3. The
// ring is closed implicitly.
func NewPolygon(verts [][]float64) (p Polygon, err error) {
	if len(verts) < 3 {
		err = errors.Wrapf(types.ErrValidation, "polygon needs at least 3 vertices, have %d", len(verts))
		return
	}
	path := make(geom.Path, len(verts))
	for n, v := range verts {
		if len(v) != 2 {
			err = errors.Wrapf(types.ErrValidation, "polygon vertex %d has %d columns, must have 2", n, len(v))
			return
		}
		if math.IsNaN(v[0]) || math.IsNaN(v[1]) {
			err = errors.Wrapf(types.ErrValidation, "polygon vertex %d is NaN", n)
			return
		}
		path[n] = geom.Point{X: v[0], Y: v[1]}
	}
	p.poly = geom.Polygon{path}
	return
}

// Contains is true only for points strictly inside p; points on an edge are
// outside.
func (p Polygon) Contains(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	// geom reports edge points as OnEdge
	return geom.Point{X: x, Y: y}.Within(p.poly) == geom.Inside
}

// Inside tests every (x[i], y[i]) pair.
func (p Polygon) Inside(x, y []float64) (inside []bool) {
	inside = make([]bool, len(x))
	for i := range x {
		inside[i] = p.Contains(x[i], y[i])
	}
	return
}

// MaskPolygon sets the rho mask to value in every cell whose center lies
// strictly inside poly, and reports how many cells were inside.
func (g *CGrid) MaskPolygon(poly Polygon, value float64) (count int) {
	xr, yr := g.Rho()
	for i, in := range poly.Inside(xr.DataP, yr.DataP) {
		if in {
			g.land.DataP[i] = value
			count++
		}
	}
	g.updateMask()
	return
}

// MaskVertices is MaskPolygon for a raw (n, 2) vertex array.
func (g *CGrid) MaskVertices(verts [][]float64, value float64) (count int, err error) {
	var poly Polygon
	if poly, err = NewPolygon(verts); err != nil {
		return
	}
	count = g.MaskPolygon(poly, value)
	return
}
