package ocean

import (
	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// OmegaHz is the grid relative vertical velocity times layer thickness,
// integrated upward from omega = 0 at the bottom through continuity,
//
//	Hz_t + (Hz u)_x + (Hz v)_y + (Hz omega)_s = 0.
//
// u and v hold N levels on their C-grid points, hz the N layer thicknesses
// at rho points. hzt may be nil for a steady coordinate, otherwise it holds N
// levels over the interior rho points. The result holds the N w levels above
// the bottom over the interior rho points, (ny-2, nx-2).
func OmegaHz(u, v []utils.Matrix, pm, pn utils.Matrix, hz, hzt []utils.Matrix) (omega []utils.Matrix, err error) {
	var ny, nx int
	if ny, nx, err = checkVelocity(u, v, pm, pn, hz); err != nil {
		return
	}
	if hzt != nil {
		if err = checkInterior(hzt, len(u), ny, nx, "hz_t"); err != nil {
			return
		}
	}
	var (
		nyI, nxI = ny - 2, nx - 2
		running  = utils.NewMatrix(nyI, nxI)
	)
	omega = make([]utils.Matrix, len(u))
	for k := range u {
		var (
			H     = hz[k].At
			uflux = func(j, i int) float64 { return u[k].At(j, i) * 0.5 * (H(j, i) + H(j, i+1)) }
			vflux = func(j, i int) float64 { return v[k].At(j, i) * 0.5 * (H(j, i) + H(j+1, i)) }
		)
		for jj := 0; jj < nyI; jj++ {
			for ii := 0; ii < nxI; ii++ {
				j, i := jj+1, ii+1
				div := -(uflux(j, i)-uflux(j, i-1))*pm.At(j, i) - (vflux(j, i)-vflux(j-1, i))*pn.At(j, i)
				if hzt != nil {
					div -= hzt[k].At(jj, ii)
				}
				running.DataP[jj*nxI+ii] += div
			}
		}
		omega[k] = running.Copy()
	}
	return
}

// WVelocity is the vertical velocity w = z_t + u z_x + v z_y + omega Hz on
// the interior rho points, from OmegaHz and the rho level depths zr. zt may
// be nil.
func WVelocity(u, v, omegaHz []utils.Matrix, pm, pn utils.Matrix, zr, zt []utils.Matrix) (w []utils.Matrix, err error) {
	var ny, nx int
	if ny, nx, err = checkVelocity(u, v, pm, pn, zr); err != nil {
		return
	}
	if err = checkInterior(omegaHz, len(u), ny, nx, "omegaHz"); err != nil {
		return
	}
	if zt != nil {
		if err = checkInterior(zt, len(u), ny, nx, "z_t"); err != nil {
			return
		}
	}
	var (
		nyI, nxI = ny - 2, nx - 2
		pmU      = func(j, i int) float64 { return 0.5 * (pm.At(j, i) + pm.At(j, i+1)) }
		pnV      = func(j, i int) float64 { return 0.5 * (pn.At(j, i) + pn.At(j+1, i)) }
	)
	w = make([]utils.Matrix, len(u))
	for k := range u {
		var (
			z  = zr[k].At
			fx = func(j, i int) float64 { return u[k].At(j, i) * pmU(j, i) * (z(j, i+1) - z(j, i)) }
			fy = func(j, i int) float64 { return v[k].At(j, i) * pnV(j, i) * (z(j+1, i) - z(j, i)) }
		)
		w[k] = omegaHz[k].Copy()
		for jj := 0; jj < nyI; jj++ {
			for ii := 0; ii < nxI; ii++ {
				j, i := jj+1, ii+1
				val := (fx(j, i) - fx(j, i-1)) + (fy(j, i) - fy(j-1, i))
				if zt != nil {
					val += zt[k].At(jj, ii)
				}
				w[k].DataP[jj*nxI+ii] += val
			}
		}
	}
	return
}

func checkVelocity(u, v []utils.Matrix, pm, pn utils.Matrix, rho []utils.Matrix) (ny, nx int, err error) {
	if len(u) == 0 || len(u) != len(v) || len(u) != len(rho) {
		err = errors.Wrapf(types.ErrValidation, "u, v and rho fields have %d, %d and %d levels", len(u), len(v), len(rho))
		return
	}
	ny, nx = pm.Dims()
	if ny < 3 || nx < 3 {
		err = errors.Wrapf(types.ErrValidation, "grid of (%d, %d) rho points has no interior", ny, nx)
		return
	}
	if !pn.SameShape(pm) {
		err = errors.Wrap(types.ErrValidation, "pm and pn differ in shape")
		return
	}
	for k := range u {
		var (
			ur, uc = u[k].Dims()
			vr, vc = v[k].Dims()
		)
		if ur != ny || uc != nx-1 || vr != ny-1 || vc != nx || !rho[k].SameShape(pm) {
			err = errors.Wrapf(types.ErrValidation, "level %d is not on the C-grid of (%d, %d) rho points", k, ny, nx)
			return
		}
	}
	return
}

func checkInterior(f []utils.Matrix, n, ny, nx int, name string) (err error) {
	if len(f) != n {
		return errors.Wrapf(types.ErrValidation, "%s has %d levels, expected %d", name, len(f), n)
	}
	for k := range f {
		if r, c := f[k].Dims(); r != ny-2 || c != nx-2 {
			return errors.Wrapf(types.ErrValidation, "%s level %d is (%d, %d), expected interior (%d, %d)", name, k, r, c, ny-2, nx-2)
		}
	}
	return
}
