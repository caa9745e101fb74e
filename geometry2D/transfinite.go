package geometry2D

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/notargets/octant/cgrid"
	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// PolyLine is an open path parameterized by normalized arc length.
type PolyLine struct {
	Geometry []Point
	s        []float64 // cumulative length, 0 to 1
	length   float64
}

func NewPolyLine(geom []Point) (pl *PolyLine) {
	pl = &PolyLine{Geometry: geom, s: make([]float64, len(geom))}
	for i := 1; i < len(geom); i++ {
		pl.s[i] = pl.s[i-1] + geom[i].Distance(geom[i-1])
	}
	pl.length = pl.s[len(geom)-1]
	if pl.length > 0 {
		for i := range pl.s {
			pl.s[i] /= pl.length
		}
	}
	return
}

func (pl *PolyLine) Length() float64 { return pl.length }

// At returns the point a fraction t of the way along the path.
func (pl *PolyLine) At(t float64) Point {
	var (
		n    = len(pl.Geometry)
		last = pl.Geometry[n-1]
	)
	switch {
	case t <= 0 || pl.length == 0:
		return pl.Geometry[0]
	case t >= 1:
		return last
	}
	k := sort.SearchFloat64s(pl.s, t) // s[k-1] < t <= s[k]
	var (
		p0, p1 = pl.Geometry[k-1], pl.Geometry[k]
		w      = (t - pl.s[k-1]) / (pl.s[k] - pl.s[k-1])
	)
	return p0.Scale(1 - w).Plus(p1.Scale(w))
}

// TransfiniteSolver fills a four-cornered boundary with a Coons patch: every
// node blends the four sides, each parameterized by arc length. It handles
// boundaries with exactly four left turning corners and no right turns; the
// corners run counterclockwise upper left, lower left, lower right, upper
// right starting at ULIdx.
type TransfiniteSolver struct{}

var _ cgrid.BoundarySolver = TransfiniteSolver{}

func (TransfiniteSolver) Solve(in cgrid.SolverInput) (x, y utils.Matrix, err error) {
	var sides [4]*PolyLine
	if sides, err = boundarySides(in); err != nil {
		return
	}
	if !in.XGrid.SameShape(in.YGrid) {
		err = errors.Wrap(types.ErrValidation, "unit grid coordinates must share one shape")
		return
	}
	var (
		left, bottom, right, top = sides[0], sides[1], sides[2], sides[3]
		ul, ll                   = left.At(0), bottom.At(0)
		lr, ur                   = right.At(0), top.At(0)
		ny, nx                   = in.XGrid.Dims()
	)
	x, y = utils.NewMatrix(ny, nx), utils.NewMatrix(ny, nx)
	for k := range x.DataP {
		var (
			u, v = in.XGrid.DataP[k], in.YGrid.DataP[k]
			L    = left.At(1 - v)
			B    = bottom.At(u)
			R    = right.At(v)
			T    = top.At(1 - u)
			P    = L.Scale(1 - u).Plus(R.Scale(u)).Plus(B.Scale(1 - v)).Plus(T.Scale(v))
			C    = ll.Scale((1 - u) * (1 - v)).Plus(lr.Scale(u * (1 - v))).
				Plus(ul.Scale((1 - u) * v)).Plus(ur.Scale(u * v))
		)
		P = P.Minus(C)
		x.DataP[k], y.DataP[k] = P.X[0], P.X[1]
	}
	return
}

// boundarySides splits the boundary into its left, bottom, right and top
// sides, each running counterclockwise.
func boundarySides(in cgrid.SolverInput) (sides [4]*PolyLine, err error) {
	if err = in.Validate(); err != nil {
		return
	}
	nv := len(in.X)
	for n, bt := range in.Beta {
		if bt == types.CornerRight {
			err = errors.Wrapf(types.ErrUnsupported,
				"vertex %d turns right, transfinite interpolation needs four convex corners", n)
			return
		}
	}
	if in.ULIdx < 0 || in.ULIdx >= nv || in.Beta[in.ULIdx] != types.CornerLeft {
		err = errors.Wrapf(types.ErrValidation, "upper left index %d is not a corner", in.ULIdx)
		return
	}
	if NewPolygonXY(in.X, in.Y).Area() <= 0 {
		err = errors.Wrap(types.ErrValidation, "boundary must run counterclockwise")
		return
	}
	var (
		side int
		path = []Point{NewPoint(in.X[in.ULIdx], in.Y[in.ULIdx])}
	)
	for k := 1; k <= nv; k++ {
		n := (in.ULIdx + k) % nv
		path = append(path, NewPoint(in.X[n], in.Y[n]))
		if in.Beta[n] == types.CornerLeft {
			sides[side] = NewPolyLine(path)
			side++
			path = []Point{path[len(path)-1]}
		}
	}
	return
}
