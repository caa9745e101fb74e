package types

import (
	"fmt"
	"strings"
)

// PointFamily names one of the staggered point sets of an Arakawa C-grid,
// plus the layer interface family (W) of the vertical coordinate.
type PointFamily uint8

const (
	Rho PointFamily = iota
	U
	V
	Psi
	Vert
	W
)

var PointFamilyNameMap = map[string]PointFamily{
	"rho":  Rho,
	"r":    Rho,
	"u":    U,
	"v":    V,
	"psi":  Psi,
	"vert": Vert,
	"w":    W,
}

func (pf PointFamily) String() string {
	switch pf {
	case Rho:
		return "rho"
	case U:
		return "u"
	case V:
		return "v"
	case Psi:
		return "psi"
	case Vert:
		return "vert"
	case W:
		return "w"
	}
	return fmt.Sprintf("PointFamily(%d)", uint8(pf))
}

func NewPointFamily(label string) (pf PointFamily, err error) {
	var ok bool
	if pf, ok = PointFamilyNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("%w: unknown point family %q", ErrUnsupported, label)
	}
	return
}

// Shape returns the array shape of point family pf on a grid with ny x nx
// rho cells.
func (pf PointFamily) Shape(ny, nx int) (nr, nc int) {
	switch pf {
	case Rho, W:
		nr, nc = ny, nx
	case U:
		nr, nc = ny, nx-1
	case V:
		nr, nc = ny-1, nx
	case Psi:
		nr, nc = ny-1, nx-1
	case Vert:
		nr, nc = ny+1, nx+1
	}
	return
}
