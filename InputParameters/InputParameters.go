package InputParameters

import (
	"fmt"
	"math"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"

	"github.com/notargets/octant/cgrid"
	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
	"github.com/notargets/octant/vertical"
)

// Parameters obtained from the YAML grid input file. ghodss/yaml goes
// through encoding/json, so keys follow the json tags.
type GridParameters struct {
	Title      string            `json:"Title"`
	Ny         int               `json:"Ny"` // nodes, one more than cells
	Nx         int               `json:"Nx"`
	ULIdx      int               `json:"ULIdx"`    // boundary vertex at the upper left grid corner
	Boundary   [][3]float64      `json:"Boundary"` // x (or lon), y (or lat), beta
	Projection string            `json:"Projection"`
	Focus      []FocusParameters `json:"Focus"`
	Land       [][][]float64     `json:"Land"` // polygons masked out of the grid
	Depth      float64           `json:"Depth"`
	Coriolis   float64           `json:"Coriolis"` // f for Cartesian grids
	FullOutput bool              `json:"FullOutput"`
	Author     string            `json:"Author"`
}

type FocusParameters struct {
	Xo     float64 `json:"Xo"`
	Yo     float64 `json:"Yo"`
	Factor float64 `json:"Factor"`
	Rx     float64 `json:"Rx"`
	Ry     float64 `json:"Ry"`
}

func (gp *GridParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, gp)
}

func (gp *GridParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", gp.Title)
	fmt.Printf("[%d, %d]\t\t= Nodes (Ny, Nx)\n", gp.Ny, gp.Nx)
	fmt.Printf("%d\t\t\t= Boundary Vertices\n", len(gp.Boundary))
	fmt.Printf("%d\t\t\t= Upper Left Vertex\n", gp.ULIdx)
	if len(gp.Projection) != 0 {
		fmt.Printf("[%s]\t= Projection\n", gp.Projection)
	}
	for i, fp := range gp.Focus {
		fmt.Printf("Focus[%d] = %+v\n", i, fp)
	}
	fmt.Printf("%d\t\t\t= Land Polygons\n", len(gp.Land))
	fmt.Printf("%8.2f\t\t= Depth\n", gp.Depth)
}

func (gp *GridParameters) Validate() (err error) {
	if gp.Ny < 2 || gp.Nx < 2 {
		return errors.Wrapf(types.ErrValidation, "grid needs at least 2 x 2 nodes, have (%d, %d)", gp.Ny, gp.Nx)
	}
	if len(gp.Boundary) < 3 {
		return errors.Wrapf(types.ErrValidation, "boundary needs at least 3 vertices, have %d", len(gp.Boundary))
	}
	if gp.Depth < 0 {
		return errors.Wrapf(types.ErrParameterRange, "depth must be non-negative, have %v", gp.Depth)
	}
	for i, poly := range gp.Land {
		if _, err = cgrid.NewPolygon(poly); err != nil {
			return errors.Wrapf(err, "land polygon %d", i)
		}
	}
	_, err = gp.NewBoundary()
	return
}

// NewBoundary converts the Boundary rows into a checked cgrid.Boundary.
func (gp *GridParameters) NewBoundary() (b cgrid.Boundary, err error) {
	var (
		n          = len(gp.Boundary)
		x, y, beta = make([]float64, n), make([]float64, n), make([]float64, n)
	)
	for i, row := range gp.Boundary {
		x[i], y[i], beta[i] = row[0], row[1], row[2]
	}
	return cgrid.NewBoundary(x, y, beta)
}

// Options collects everything but the boundary needed by cgrid.Generate.
func (gp *GridParameters) Options() (opts cgrid.GridgenOptions, err error) {
	opts = cgrid.GridgenOptions{Ny: gp.Ny, Nx: gp.Nx, ULIdx: gp.ULIdx}
	for _, fp := range gp.Focus {
		opts.Focus = append(opts.Focus, cgrid.NewFocusPoint(fp.Xo, fp.Yo, fp.Factor, fp.Rx, fp.Ry))
	}
	if len(gp.Projection) != 0 {
		var p *cgrid.SRProjection
		if p, err = cgrid.NewProjection(gp.Projection); err != nil {
			return
		}
		opts.Proj = p
	}
	return
}

// Parameters obtained from the YAML vertical coordinate input file
type VerticalParameters struct {
	Title       string  `json:"Title"`
	Hc          float64 `json:"hc"`
	ThetaS      float64 `json:"theta_s"`
	ThetaB      float64 `json:"theta_b"`
	N           int     `json:"Nlevels"` // a bare N key reads as the YAML boolean false
	Vtransform  int     `json:"Vtransform"`
	Vstretching int     `json:"Vstretching"`
	Family      string  `json:"Family"` // rho (default) or w
	H           float64 `json:"h"`      // depth of the column printed by "octant depths"
	Zeta        float64 `json:"zeta"`
}

func (vp *VerticalParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, vp)
}

func (vp *VerticalParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", vp.Title)
	fmt.Printf("%8.3f\t\t= hc\n", vp.Hc)
	fmt.Printf("%8.3f\t\t= theta_s\n", vp.ThetaS)
	fmt.Printf("%8.3f\t\t= theta_b\n", vp.ThetaB)
	fmt.Printf("[%d]\t\t\t= Nlevels\n", vp.N)
	fmt.Printf("[%d]\t\t\t= Vtransform\n", vp.Vtransform)
	fmt.Printf("[%d]\t\t\t= Vstretching\n", vp.Vstretching)
	fmt.Printf("[%s]\t\t\t= Family\n", vp.family())
}

func (vp *VerticalParameters) family() string {
	if len(vp.Family) == 0 {
		return types.Rho.String()
	}
	return vp.Family
}

// Params converts to vertical.Params, checking the ranges that do not depend
// on bathymetry.
func (vp *VerticalParameters) Params() (p vertical.Params, err error) {
	p = vertical.Params{
		Hc:        vp.Hc,
		ThetaS:    vp.ThetaS,
		ThetaB:    vp.ThetaB,
		N:         vp.N,
		Transform: vp.Vtransform,
		Stretch:   vp.Vstretching,
	}
	if p.Family, err = types.NewPointFamily(vp.family()); err != nil {
		return
	}
	err = p.Validate()
	return
}

func (vp *VerticalParameters) Validate() (err error) {
	if _, err = vp.Params(); err != nil {
		return
	}
	if math.IsNaN(vp.H) || vp.H < 0 {
		return errors.Wrapf(types.ErrParameterRange, "h must be non-negative, have %v", vp.H)
	}
	return
}

// Column returns the depths of a single water column of depth H.
func (vp *VerticalParameters) Column() (z []float64, err error) {
	var (
		p  vertical.Params
		sc *vertical.SCoordinate
		zs []utils.Matrix
	)
	if p, err = vp.Params(); err != nil {
		return
	}
	zeta := vertical.ConstantZeta{Field: utils.NewMatrixConst(1, 1, vp.Zeta)}
	if sc, err = vertical.NewSCoordinate(utils.NewMatrixConst(1, 1, vp.H), p, zeta); err != nil {
		return
	}
	if zs, err = sc.TimeSlice(0); err != nil {
		return
	}
	z = make([]float64, len(zs))
	for k := range zs {
		z[k] = zs[k].At(0, 0)
	}
	return
}
