package cgrid

import (
	"math"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// Omega is the rotation rate of the Earth used for the Coriolis parameter.
const Omega = 7.29e-5

// Dx is the cell width in the xi direction at rho points, in meters on
// geographic grids.
func (g *CGrid) Dx() (dx utils.Matrix) {
	ny, nx := g.Shape()
	if g.proj != nil {
		lon, lat := g.lonVert.At, g.latVert.At
		edge := func(j, i int) float64 { return GeodesicDistance(lon(j, i+1), lat(j, i+1), lon(j, i), lat(j, i)) }
		return stencil(ny, nx, func(j, i int) float64 { return 0.5 * (edge(j, i) + edge(j+1, i)) })
	}
	var (
		x, y = g.xVert.At, g.yVert.At
		xt   = func(j, i int) float64 { return 0.5 * (x(j+1, i) + x(j, i)) }
		yt   = func(j, i int) float64 { return 0.5 * (y(j+1, i) + y(j, i)) }
	)
	return stencil(ny, nx, func(j, i int) float64 {
		return math.Hypot(xt(j, i+1)-xt(j, i), yt(j, i+1)-yt(j, i))
	})
}

// Dy is the cell width in the eta direction at rho points.
func (g *CGrid) Dy() (dy utils.Matrix) {
	ny, nx := g.Shape()
	if g.proj != nil {
		lon, lat := g.lonVert.At, g.latVert.At
		edge := func(j, i int) float64 { return GeodesicDistance(lon(j+1, i), lat(j+1, i), lon(j, i), lat(j, i)) }
		return stencil(ny, nx, func(j, i int) float64 { return 0.5 * (edge(j, i) + edge(j, i+1)) })
	}
	var (
		x, y = g.xVert.At, g.yVert.At
		xt   = func(j, i int) float64 { return 0.5 * (x(j, i+1) + x(j, i)) }
		yt   = func(j, i int) float64 { return 0.5 * (y(j, i+1) + y(j, i)) }
	)
	return stencil(ny, nx, func(j, i int) float64 {
		return math.Hypot(xt(j+1, i)-xt(j, i), yt(j+1, i)-yt(j, i))
	})
}

func (g *CGrid) Pm() utils.Matrix { return g.Dx().Apply(func(d float64) float64 { return 1 / d }) }
func (g *CGrid) Pn() utils.Matrix { return g.Dy().Apply(func(d float64) float64 { return 1 / d }) }

// Dndx is the xi derivative of 1/pn. The outer ring of cells is zero.
func (g *CGrid) Dndx() (dndx utils.Matrix) {
	var (
		ny, nx = g.Shape()
		dy     = g.Dy()
	)
	dndx = utils.NewMatrix(ny, nx)
	for j := 1; j < ny-1; j++ {
		for i := 1; i < nx-1; i++ {
			dndx.DataP[j*nx+i] = 0.5 * (dy.At(j, i+1) - dy.At(j, i-1))
		}
	}
	return
}

// Dmde is the eta derivative of 1/pm. The outer ring of cells is zero.
func (g *CGrid) Dmde() (dmde utils.Matrix) {
	var (
		ny, nx = g.Shape()
		dx     = g.Dx()
	)
	dmde = utils.NewMatrix(ny, nx)
	for j := 1; j < ny-1; j++ {
		for i := 1; i < nx-1; i++ {
			dmde.DataP[j*nx+i] = 0.5 * (dx.At(j+1, i) - dx.At(j-1, i))
		}
	}
	return
}

// Angle is the rotation of the xi axis from east at the vertices, in
// radians. Interior vertices average the four adjoining grid lines, edges
// three and corners two.
func (g *CGrid) Angle() (angle utils.Matrix) {
	var (
		x, y   = g.xVert.At, g.yVert.At
		nr, nc = g.xVert.Dims()
		ud     = stencil(nr, nc-1, func(j, i int) float64 {
			return math.Atan2(y(j, i+1)-y(j, i), x(j, i+1)-x(j, i))
		}).At
		lr = stencil(nr-1, nc, func(j, i int) float64 {
			return math.Atan2(y(j+1, i)-y(j, i), x(j+1, i)-x(j, i)) - math.Pi/2
		}).At
		jl, il = nr - 1, nc - 1
	)
	angle = utils.NewMatrix(nr, nc)
	set := func(j, i int, val float64) { angle.DataP[j*nc+i] = val }
	for j := 1; j < jl; j++ {
		for i := 1; i < il; i++ {
			set(j, i, 0.25*(ud(j, i)+ud(j, i-1)+lr(j, i)+lr(j-1, i)))
		}
	}
	for i := 1; i < il; i++ {
		set(0, i, (lr(0, i)+ud(0, i)+ud(0, i-1))/3)
		set(jl, i, (lr(jl-1, i)+ud(jl, i)+ud(jl, i-1))/3)
	}
	for j := 1; j < jl; j++ {
		set(j, 0, (ud(j, 0)+lr(j, 0)+lr(j-1, 0))/3)
		set(j, il, (ud(j, il-1)+lr(j, il)+lr(j-1, il))/3)
	}
	set(0, 0, 0.5*(lr(0, 0)+ud(0, 0)))
	set(0, il, 0.5*(lr(0, il)+ud(0, il-1)))
	set(jl, 0, 0.5*(lr(jl-1, 0)+ud(jl, 0)))
	set(jl, il, 0.5*(lr(jl-1, il)+ud(jl, il-1)))
	return
}

// AngleRho is the xi axis rotation at rho points, from the direction between
// the midpoints of consecutive cell walls.
func (g *CGrid) AngleRho() (angle utils.Matrix) {
	var (
		ny, nx = g.Shape()
		x, y   = g.xVert.At, g.yVert.At
		xt     = func(j, i int) float64 { return 0.5 * (x(j+1, i) + x(j, i)) }
		yt     = func(j, i int) float64 { return 0.5 * (y(j+1, i) + y(j, i)) }
	)
	return stencil(ny, nx, func(j, i int) float64 {
		return math.Atan2(yt(j, i+1)-yt(j, i), xt(j, i+1)-xt(j, i))
	})
}

// Coriolis returns the Coriolis parameter at rho points: the supplied field
// if any, 2 Omega sin(lat) on geographic grids, and an empty matrix
// otherwise.
func (g *CGrid) Coriolis() (f utils.Matrix, err error) {
	switch {
	case !g.f.IsEmpty():
		f = g.f.Copy()
	case g.proj != nil:
		var lat utils.Matrix
		if _, lat, err = g.LonLat(types.Rho); err != nil {
			return
		}
		f = lat.Apply(func(lat float64) float64 { return 2 * Omega * math.Sin(lat*math.Pi/180) })
	}
	return
}
