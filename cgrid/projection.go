package cgrid

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// Projection maps geographic coordinates in degrees to a plane and back. Grid
// angles are only meaningful for conformal projections such as Mercator or
// Lambert conformal conic.
type Projection interface {
	Forward(lon, lat float64) (x, y float64, err error)
	Inverse(x, y float64) (lon, lat float64, err error)
}

// SRProjection is a Projection backed by a PROJ.4 style spatial reference.
type SRProjection struct {
	Def     string
	forward proj.Transformer
	inverse proj.Transformer
}

// NewProjection parses a PROJ.4 definition such as
// "+proj=merc +lat_ts=0 +lon_0=0 +datum=WGS84 +units=m".
func NewProjection(def string) (p *SRProjection, err error) {
	var (
		sr, ll *proj.SR
	)
	if sr, err = proj.Parse(def); err != nil {
		return nil, errors.Wrapf(err, "parsing projection %q", def)
	}
	// NewTransform resolves the projection name only on first use
	if _, _, err = sr.Transformers(); err != nil {
		return nil, errors.Wrapf(types.ErrUnsupported, "projection %q: %v", def, err)
	}
	if ll, err = proj.Parse("+proj=longlat +datum=WGS84"); err != nil {
		return nil, err
	}
	p = &SRProjection{Def: def}
	if p.forward, err = ll.NewTransform(sr); err != nil {
		return nil, errors.Wrapf(err, "projection %q", def)
	}
	if p.inverse, err = sr.NewTransform(ll); err != nil {
		return nil, errors.Wrapf(err, "projection %q", def)
	}
	return
}

func (p *SRProjection) Forward(lon, lat float64) (x, y float64, err error) {
	return transformPoint(p.forward, lon, lat)
}

func (p *SRProjection) Inverse(x, y float64) (lon, lat float64, err error) {
	return transformPoint(p.inverse, x, y)
}

func transformPoint(t proj.Transformer, x, y float64) (xo, yo float64, err error) {
	var g geom.Geom
	if g, err = (geom.Point{X: x, Y: y}).Transform(t); err != nil {
		return
	}
	pt := g.(geom.Point)
	xo, yo = pt.X, pt.Y
	return
}

func forwardMatrix(p Projection, lon, lat utils.Matrix) (x, y utils.Matrix, err error) {
	return mapMatrix(p.Forward, lon, lat)
}

func inverseMatrix(p Projection, x, y utils.Matrix) (lon, lat utils.Matrix, err error) {
	return mapMatrix(p.Inverse, x, y)
}

// mapMatrix applies f pointwise, passing NaN through untouched.
func mapMatrix(f func(a, b float64) (float64, float64, error), a, b utils.Matrix) (ra, rb utils.Matrix, err error) {
	ra, rb = utils.NewMatrix(a.Dims()), utils.NewMatrix(b.Dims())
	for i := range a.DataP {
		if math.IsNaN(a.DataP[i]) || math.IsNaN(b.DataP[i]) {
			ra.DataP[i], rb.DataP[i] = math.NaN(), math.NaN()
			continue
		}
		if ra.DataP[i], rb.DataP[i], err = f(a.DataP[i], b.DataP[i]); err != nil {
			return
		}
	}
	return
}
