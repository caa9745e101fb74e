package ocean

import (
	"math"

	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// Staggered locates the u and v points of a C-grid; *cgrid.CGrid is one.
type Staggered interface {
	U() (x, y utils.Matrix)
	V() (x, y utils.Matrix)
}

// Curl is the relative vorticity dv/dx - du/dy of every level, at psi
// points.
func Curl(g Staggered, u, v []utils.Matrix) (curl []utils.Matrix, err error) {
	var yu, xv utils.Matrix
	if _, yu, xv, _, err = checkStaggered(g, u, v, 2); err != nil {
		return
	}
	curl = make([]utils.Matrix, len(u))
	for k := range u {
		curl[k] = dXi(v[k], xv).Subtract(dEta(u[k], yu))
	}
	return
}

// Div is the horizontal divergence du/dx + dv/dy of every level, at interior
// rho points.
func Div(g Staggered, u, v []utils.Matrix) (div []utils.Matrix, err error) {
	var ex, ey []utils.Matrix
	if ex, ey, err = normalStrain(g, u, v); err != nil {
		return
	}
	div = make([]utils.Matrix, len(u))
	for k := range u {
		div[k] = ex[k].Add(ey[k])
	}
	return
}

// PStrain is the pair of principal strain rates of every level at interior
// rho points, the larger first. The shear strain is carried from psi points
// by Shrink.
func PStrain(g Staggered, u, v []utils.Matrix) (s1, s2 []utils.Matrix, err error) {
	var (
		ex, ey []utils.Matrix
		yu, xv utils.Matrix
	)
	if _, yu, xv, _, err = checkStaggered(g, u, v, 3); err != nil {
		return
	}
	if ex, ey, err = normalStrain(g, u, v); err != nil {
		return
	}
	s1, s2 = make([]utils.Matrix, len(u)), make([]utils.Matrix, len(u))
	for k := range u {
		var (
			nr, nc = ex[k].Dims()
			gamma  = Shrink(dEta(u[k], yu).Add(dXi(v[k], xv)), nr, nc)
			mean   = ex[k].Add(ey[k]).Scale(0.5)
			radius = utils.NewMatrix(nr, nc)
		)
		for i := range radius.DataP {
			radius.DataP[i] = math.Hypot(0.5*(ex[k].DataP[i]-ey[k].DataP[i]), 0.5*gamma.DataP[i])
		}
		s1[k], s2[k] = mean.Add(radius), mean.Subtract(radius)
	}
	return
}

// normalStrain is du/dx and dv/dy at interior rho points.
func normalStrain(g Staggered, u, v []utils.Matrix) (ex, ey []utils.Matrix, err error) {
	var xu, yv utils.Matrix
	if xu, _, _, yv, err = checkStaggered(g, u, v, 3); err != nil {
		return
	}
	ex, ey = make([]utils.Matrix, len(u)), make([]utils.Matrix, len(u))
	for k := range u {
		var (
			dudx   = dXi(u[k], xu)
			dvdy   = dEta(v[k], yv)
			nr, nc = dudx.Dims()
		)
		ex[k] = dudx.Slice(1, nr-1, 0, nc)
		nr, nc = dvdy.Dims()
		ey[k] = dvdy.Slice(0, nr, 1, nc-1)
	}
	return
}

func checkStaggered(g Staggered, u, v []utils.Matrix, minCells int) (xu, yu, xv, yv utils.Matrix, err error) {
	if len(u) == 0 || len(u) != len(v) {
		err = errors.Wrapf(types.ErrValidation, "u and v have %d and %d levels", len(u), len(v))
		return
	}
	xu, yu = g.U()
	xv, yv = g.V()
	if xu.IsEmpty() || xv.IsEmpty() {
		err = errors.Wrap(types.ErrValidation, "grid has no u or v points")
		return
	}
	if ny, nxU := xu.Dims(); ny < minCells || nxU+1 < minCells {
		err = errors.Wrapf(types.ErrValidation, "grid of (%d, %d) rho points needs at least %d in each direction", ny, nxU+1, minCells)
		return
	}
	for k := range u {
		if !u[k].SameShape(xu) || !v[k].SameShape(xv) {
			err = errors.Wrapf(types.ErrValidation, "level %d is not on the u and v points of the grid", k)
			return
		}
	}
	return
}

// dXi differences a along xi over the same difference of x.
func dXi(a, x utils.Matrix) (R utils.Matrix) {
	nr, nc := a.Dims()
	R = utils.NewMatrix(nr, nc-1)
	for j := 0; j < nr; j++ {
		for i := 0; i < nc-1; i++ {
			R.Set(j, i, (a.At(j, i+1)-a.At(j, i))/(x.At(j, i+1)-x.At(j, i)))
		}
	}
	return
}

// dEta differences a along eta over the same difference of y.
func dEta(a, y utils.Matrix) (R utils.Matrix) {
	nr, nc := a.Dims()
	R = utils.NewMatrix(nr-1, nc)
	for j := 0; j < nr-1; j++ {
		for i := 0; i < nc; i++ {
			R.Set(j, i, (a.At(j+1, i)-a.At(j, i))/(y.At(j+1, i)-y.At(j, i)))
		}
	}
	return
}
