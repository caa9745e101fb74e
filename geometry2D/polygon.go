package geometry2D

import (
	"math"
)

type Point struct {
	X [2]float64
}

func NewPoint(x, y float64) Point {
	return Point{X: [2]float64{x, y}}
}

func (pt Point) Minus(rhs Point) Point {
	return Point{X: [2]float64{pt.X[0] - rhs.X[0], pt.X[1] - rhs.X[1]}}
}

func (pt Point) Plus(rhs Point) Point {
	return Point{X: [2]float64{pt.X[0] + rhs.X[0], pt.X[1] + rhs.X[1]}}
}

func (pt Point) Scale(a float64) Point {
	return Point{X: [2]float64{a * pt.X[0], a * pt.X[1]}}
}

func (pt Point) Distance(rhs Point) float64 {
	return math.Hypot(pt.X[0]-rhs.X[0], pt.X[1]-rhs.X[1])
}

func (pt Point) IsNaN() bool {
	return math.IsNaN(pt.X[0]) || math.IsNaN(pt.X[1])
}

// Points zips coordinate arrays.
func Points(x, y []float64) (pts []Point) {
	if len(x) != len(y) {
		panic("coordinate arrays differ in length")
	}
	pts = make([]Point, len(x))
	for i := range x {
		pts[i] = NewPoint(x[i], y[i])
	}
	return
}

type BoundingBox struct {
	XMin [2]float64
	XMax [2]float64
}

func NewBoundingBox(geometry []Point) (Box *BoundingBox) {
	if len(geometry) == 0 {
		return nil
	}
	Box = &BoundingBox{XMin: geometry[0].X, XMax: geometry[0].X}
	for _, point := range geometry {
		for i := 0; i < 2; i++ {
			Box.XMin[i] = math.Min(Box.XMin[i], point.X[i])
			Box.XMax[i] = math.Max(Box.XMax[i], point.X[i])
		}
	}
	return Box
}

func (bb *BoundingBox) Centroid() Point {
	return NewPoint(0.5*(bb.XMax[0]+bb.XMin[0]), 0.5*(bb.XMax[1]+bb.XMin[1]))
}

func (bb *BoundingBox) PointInside(point Point) (within bool) {
	for ii := 0; ii < 2; ii++ {
		if point.X[ii] > bb.XMax[ii] || point.X[ii] < bb.XMin[ii] {
			return false
		}
	}
	return true
}

// Polygon is a closed ring; the first vertex is repeated at the end.
type Polygon struct {
	Box      *BoundingBox
	Geometry []Point
}

func NewPolygon(geom []Point) (poly *Polygon) {
	if len(geom) == 0 {
		panic("empty polygon")
	}
	geom = append([]Point(nil), geom...)
	if geom[len(geom)-1] != geom[0] {
		geom = append(geom, geom[0])
	}
	return &Polygon{Box: NewBoundingBox(geom), Geometry: geom}
}

func NewPolygonXY(x, y []float64) *Polygon { return NewPolygon(Points(x, y)) }

// Area is signed by Green's theorem, positive for counterclockwise rings.
func (pg *Polygon) Area() (area float64) {
	for i := 0; i < len(pg.Geometry)-1; i++ {
		p0, p1 := pg.Geometry[i], pg.Geometry[i+1]
		area += p0.X[0]*p1.X[1] - p1.X[0]*p0.X[1]
	}
	return 0.5 * area
}

// Centroid of the enclosed region, see
// https://en.wikipedia.org/wiki/Centroid#Of_a_polygon
func (pg *Polygon) Centroid() (centroid Point) {
	var (
		area = pg.Area()
		ct   [2]float64
	)
	for i := 0; i < len(pg.Geometry)-1; i++ {
		x0, y0 := pg.Geometry[i].X[0], pg.Geometry[i].X[1]
		x1, y1 := pg.Geometry[i+1].X[0], pg.Geometry[i+1].X[1]
		metric := x0*y1 - y0*x1
		ct[0] += (x0 + x1) * metric
		ct[1] += (y0 + y1) * metric
	}
	return NewPoint(ct[0]/(6*area), ct[1]/(6*area))
}

func (pg *Polygon) Perimeter() (length float64) {
	for i := 0; i < len(pg.Geometry)-1; i++ {
		length += pg.Geometry[i].Distance(pg.Geometry[i+1])
	}
	return
}

// isLeft is >0 for P2 left of the line through P0 and P1, 0 on it and <0 to
// the right.
func isLeft(P0, P1, P2 Point) float64 {
	return (P1.X[0]-P0.X[0])*(P2.X[1]-P0.X[1]) -
		(P2.X[0]-P0.X[0])*(P1.X[1]-P0.X[1])
}

// PointInside uses the winding number from
// http://geomalgorithms.com/a03-_inclusion.html; wn = 0 is outside.
func (pg *Polygon) PointInside(point Point) (inside bool) {
	if point.IsNaN() || !pg.Box.PointInside(point) {
		return false
	}
	var wn int
	for i := 0; i < len(pg.Geometry)-1; i++ {
		pt0, pt1 := pg.Geometry[i], pg.Geometry[i+1]
		if pt0.X[1] <= point.X[1] {
			if pt1.X[1] > point.X[1] && isLeft(pt0, pt1, point) > 0 {
				wn++
			}
		} else if pt1.X[1] <= point.X[1] && isLeft(pt0, pt1, point) < 0 {
			wn--
		}
	}
	return wn != 0
}
