// Package ocean holds analysis tools for 3-D model fields stored as a stack
// of horizontal levels, bottom level first.
package ocean

import (
	"math"

	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// Gravity used by N2.
const Gravity = 9.8

// Rot2D rotates the vector (x, y) counterclockwise by ang radians.
func Rot2D(x, y, ang utils.Matrix) (xr, yr utils.Matrix) {
	xr, yr = x.Copy(), y.Copy()
	for k := range xr.DataP {
		s, c := math.Sincos(ang.DataP[k])
		xr.DataP[k] = x.DataP[k]*c - y.DataP[k]*s
		yr.DataP[k] = x.DataP[k]*s + y.DataP[k]*c
	}
	return
}

// Shrink1D reduces a to length n, trimming both ends while two or more
// values must go and averaging neighbours when one must.
func Shrink1D(a []float64, n int) []float64 {
	a = append([]float64(nil), a...)
	for len(a) > n {
		if len(a)-n >= 2 {
			a = a[1 : len(a)-1]
		} else {
			a = utils.Midpoints(a)
		}
	}
	return a
}

// Shrink reduces a to at most nr x nc, one dimension at a time the way
// Shrink1D does, e.g. to bring u and v points onto psi points.
func Shrink(a utils.Matrix, nr, nc int) (R utils.Matrix) {
	var (
		rows = a.Rows()
	)
	for j := range rows {
		rows[j] = Shrink1D(rows[j], nc)
	}
	ncR := len(rows[0])
	cols := make([][]float64, ncR)
	for i := range cols {
		col := make([]float64, len(rows))
		for j := range rows {
			col[j] = rows[j][i]
		}
		cols[i] = Shrink1D(col, nr)
	}
	nrR := len(cols[0])
	R = utils.NewMatrix(nrR, ncR)
	for i := range cols {
		for j, val := range cols[i] {
			R.DataP[j*ncR+i] = val
		}
	}
	return
}

// ShrinkPair shrinks a and b to the shape of each other.
func ShrinkPair(a, b utils.Matrix) (as, bs utils.Matrix) {
	nrB, ncB := b.Dims()
	as = Shrink(a, nrB, ncB)
	nrA, ncA := as.Dims()
	bs = Shrink(b, nrA, ncA)
	return
}

// N2 is the buoyancy frequency squared between consecutive levels of
// density rho at depths z.
func N2(rho, z []utils.Matrix, rho0 float64) (n2 []utils.Matrix, err error) {
	if err = sameStack(rho, z); err != nil {
		return
	}
	if len(rho) < 2 {
		err = errors.Wrap(types.ErrValidation, "N2 needs at least two levels")
		return
	}
	n2 = make([]utils.Matrix, len(rho)-1)
	for k := range n2 {
		var (
			dr = rho[k+1].Subtract(rho[k])
			dz = z[k+1].Subtract(z[k])
		)
		n2[k] = dr.Combine(dz, func(dr, dz float64) float64 { return -(Gravity / rho0) * dr / dz })
	}
	return
}

// ArgNearest returns the (j, i) positions where the point xo is closest to
// the coordinate fields x, each dimension weighted by scale (nil for none).
// Every position at the minimum distance is returned.
func ArgNearest(x []utils.Matrix, xo, scale []float64) (idx [][2]int, err error) {
	if len(x) == 0 || len(x) != len(xo) {
		err = errors.Wrapf(types.ErrValidation, "have %d coordinate fields for a %d dimensional point", len(x), len(xo))
		return
	}
	if scale != nil && len(scale) != len(xo) {
		err = errors.Wrapf(types.ErrValidation, "have %d scales for %d dimensions", len(scale), len(xo))
		return
	}
	for _, m := range x[1:] {
		if !m.SameShape(x[0]) {
			err = errors.Wrap(types.ErrValidation, "coordinate fields differ in shape")
			return
		}
	}
	var (
		_, nc = x[0].Dims()
		dist  = make([]float64, x[0].Len())
		best  = math.Inf(1)
	)
	for d, m := range x {
		sc := 1.
		if scale != nil {
			sc = scale[d]
		}
		for k, val := range m.DataP {
			dd := sc * (val - xo[d])
			dist[k] += dd * dd
		}
	}
	for _, d := range dist {
		if d < best {
			best = d
		}
	}
	for k, d := range dist {
		if d == best {
			idx = append(idx, [2]int{k / nc, k % nc})
		}
	}
	return
}

// sameStack checks that two level stacks have the same depth and
// horizontal shape.
func sameStack(a, b []utils.Matrix) (err error) {
	if len(a) != len(b) {
		return errors.Wrapf(types.ErrValidation, "fields have %d and %d levels", len(a), len(b))
	}
	for k := range a {
		if !a[k].SameShape(b[k]) {
			return errors.Wrapf(types.ErrValidation, "level %d differs in shape", k)
		}
	}
	return
}
