package geometry2D

import (
	"math"

	"github.com/pkg/errors"
	"github.com/pradeep-pyro/triangle"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// Triangulation is a Delaunay triangulation of scattered points used to
// interpolate values defined at those points. NaN points are dropped.
type Triangulation struct {
	Points []Point
	Tris   [][3]int32
	index  []int // Points[k] came from input position index[k]
	nIn    int
}

func NewTriangulation(x, y []float64) (tr *Triangulation, err error) {
	if len(x) != len(y) {
		err = errors.Wrapf(types.ErrValidation, "coordinate arrays differ in length: %d, %d", len(x), len(y))
		return
	}
	tr = &Triangulation{nIn: len(x)}
	pts := make([][2]float64, 0, len(x))
	for i := range x {
		pt := NewPoint(x[i], y[i])
		if pt.IsNaN() {
			continue
		}
		tr.Points = append(tr.Points, pt)
		tr.index = append(tr.index, i)
		pts = append(pts, pt.X)
	}
	if len(pts) < 3 {
		err = errors.Wrapf(types.ErrValidation, "triangulation needs at least 3 valid points, have %d", len(pts))
		return
	}
	tr.Tris = triangle.Delaunay(pts)
	if len(tr.Tris) == 0 {
		err = errors.Wrap(types.ErrValidation, "points are collinear, no triangles formed")
	}
	return
}

// Area sums the triangle areas, the area of the convex hull.
func (tr *Triangulation) Area() (area float64) {
	for _, tri := range tr.Tris {
		a, b, c := tr.Points[tri[0]], tr.Points[tri[1]], tr.Points[tri[2]]
		area += 0.5 * math.Abs(isLeft(a, b, c))
	}
	return
}

// Locate finds the triangle containing p and the barycentric weights of its
// vertices; ok is false outside the hull.
func (tr *Triangulation) Locate(p Point) (tri int, w [3]float64, ok bool) {
	const tol = utils.NODETOL
	for k, t := range tr.Tris {
		var (
			a, b, c = tr.Points[t[0]], tr.Points[t[1]], tr.Points[t[2]]
			det     = isLeft(a, b, c)
		)
		if det == 0 {
			continue
		}
		w[0] = isLeft(b, c, p) / det
		w[1] = isLeft(c, a, p) / det
		w[2] = 1 - w[0] - w[1]
		if w[0] >= -tol && w[1] >= -tol && w[2] >= -tol {
			return k, w, true
		}
	}
	return -1, w, false
}

// Nearest returns the position in the input arrays of the valid point
// closest to p.
func (tr *Triangulation) Nearest(p Point) (idx int) {
	var best = math.Inf(1)
	for k, pt := range tr.Points {
		if d := pt.Distance(p); d < best {
			best, idx = d, tr.index[k]
		}
	}
	return
}

// Interpolate evaluates the piecewise linear interpolant of values, given at
// the input points, at (x, y). Points outside the hull take the value of the
// nearest input point.
func (tr *Triangulation) Interpolate(values, x, y []float64) (res []float64, err error) {
	if len(values) != tr.nIn {
		err = errors.Wrapf(types.ErrValidation, "have %d values for %d points", len(values), tr.nIn)
		return
	}
	if len(x) != len(y) {
		err = errors.Wrapf(types.ErrValidation, "coordinate arrays differ in length: %d, %d", len(x), len(y))
		return
	}
	res = make([]float64, len(x))
	for i := range x {
		p := NewPoint(x[i], y[i])
		if p.IsNaN() {
			res[i] = math.NaN()
			continue
		}
		k, w, ok := tr.Locate(p)
		if !ok {
			res[i] = values[tr.Nearest(p)]
			continue
		}
		for v := 0; v < 3; v++ {
			res[i] += w[v] * values[tr.index[tr.Tris[k][v]]]
		}
	}
	return
}

// Transect carries gridded fields onto a fixed line of points.
type Transect struct {
	tr     *Triangulation
	xv, yv []float64
}

func NewTransect(xg, yg []float64, verts [][2]float64) (ts *Transect, err error) {
	ts = &Transect{xv: make([]float64, len(verts)), yv: make([]float64, len(verts))}
	for i, v := range verts {
		ts.xv[i], ts.yv[i] = v[0], v[1]
	}
	ts.tr, err = NewTriangulation(xg, yg)
	return
}

func (ts *Transect) Extrapolate(prop []float64) ([]float64, error) {
	return ts.tr.Interpolate(prop, ts.xv, ts.yv)
}

// InCircle is true when d lies strictly inside the circle through a, b and
// c, whichever way a-b-c winds. This is the Delaunay edge legality test.
func InCircle(a, b, c, d Point) (inside bool) {
	// Calculate handedness, counter-clockwise is (positive) and clockwise is (negative)
	signBit := math.Signbit(isLeft(a, b, c))
	ax_, ay_ := a.X[0]-d.X[0], a.X[1]-d.X[1]
	bx_, by_ := b.X[0]-d.X[0], b.X[1]-d.X[1]
	cx_, cy_ := c.X[0]-d.X[0], c.X[1]-d.X[1]
	det := (ax_*ax_+ay_*ay_)*(bx_*cy_-cx_*by_) -
		(bx_*bx_+by_*by_)*(ax_*cy_-cx_*ay_) +
		(cx_*cx_+cy_*cy_)*(ax_*by_-bx_*ay_)
	if signBit {
		return det < 0
	}
	return det > 0
}
