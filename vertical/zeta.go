package vertical

import (
	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// ZetaSource supplies free surface elevation fields one time slice at a time,
// so a long series is never read in full.
type ZetaSource interface {
	// NumTimes is the length of the time axis, 0 when the field has none.
	NumTimes() int
	// Slice returns the field at time index t. Sources without a time axis
	// accept only t = 0.
	Slice(t int) (utils.Matrix, error)
}

// ConstantZeta is a single free surface field with no time axis.
type ConstantZeta struct {
	Field utils.Matrix
}

func (cz ConstantZeta) NumTimes() int { return 0 }

func (cz ConstantZeta) Slice(t int) (zeta utils.Matrix, err error) {
	if t != 0 {
		err = errors.Wrapf(types.ErrValidation, "time index %d requested from a field without a time axis", t)
		return
	}
	zeta = cz.Field
	return
}

// SeriesZeta is an in-memory time series of free surface fields.
type SeriesZeta struct {
	Fields []utils.Matrix
}

func (sz SeriesZeta) NumTimes() int { return len(sz.Fields) }

func (sz SeriesZeta) Slice(t int) (zeta utils.Matrix, err error) {
	if t < 0 || t >= len(sz.Fields) {
		err = errors.Wrapf(types.ErrValidation, "time index %d outside [0, %d)", t, len(sz.Fields))
		return
	}
	zeta = sz.Fields[t]
	return
}
