package cgrid

import (
	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// FillMasked replaces the missing entries of a, those that are NaN or true
// in mask (which may be nil), with the solution of Laplace's equation that
// matches the valid entries around them. Valid entries are returned
// unchanged.
func FillMasked(a utils.Matrix, mask []bool) (filled utils.Matrix, err error) {
	var (
		nr, nc  = a.Dims()
		missing = a.NaNMask()
		index   = make([]int, len(missing))
		nUnk    int
	)
	if mask != nil {
		if len(mask) != len(missing) {
			err = errors.Wrapf(types.ErrValidation, "mask has %d entries, field has %d", len(mask), len(missing))
			return
		}
		for i, m := range mask {
			missing[i] = missing[i] || m
		}
	}
	for i, m := range missing {
		index[i] = -1
		if m {
			index[i] = nUnk
			nUnk++
		}
	}
	filled = a.Copy()
	if nUnk == 0 {
		return
	}
	if nUnk == len(missing) {
		err = errors.Wrap(types.ErrValidation, "every entry is masked, nothing to extrapolate from")
		return
	}
	var (
		A   = utils.NewDOK(nUnk, nUnk)
		rhs = make([]float64, nUnk)
		sol = make([]float64, nUnk)
	)
	for j := 0; j < nr; j++ {
		for i := 0; i < nc; i++ {
			row := index[j*nc+i]
			if row < 0 {
				continue
			}
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				jn, in := j+d[0], i+d[1]
				if jn < 0 || jn >= nr || in < 0 || in >= nc {
					continue
				}
				A.AddAt(row, row, 1)
				if col := index[jn*nc+in]; col >= 0 {
					A.AddAt(row, col, -1)
				} else {
					rhs[row] += a.At(jn, in)
				}
			}
		}
	}
	if _, err = A.ToCSR().SolveCG(rhs, sol, 1.e-12, 10*nUnk+100); err != nil {
		return
	}
	for k, row := range index {
		if row >= 0 {
			filled.DataP[k] = sol[row]
		}
	}
	return
}
