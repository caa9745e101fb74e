package cgrid

import (
	"math"

	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// Boundary is the closed, counterclockwise polygon handed to a grid
// generator. Beta marks each vertex as a left turn (1), right turn (-1) or
// straight (0); the markers of a valid boundary sum to 4.
type Boundary struct {
	X, Y []float64
	Beta []types.CornerType
}

// NewBoundary checks and converts raw boundary arrays.
func NewBoundary(x, y, beta []float64) (b Boundary, err error) {
	if len(x) != len(y) || len(x) != len(beta) {
		err = errors.Wrapf(types.ErrValidation,
			"boundary arrays differ in length: x %d, y %d, beta %d", len(x), len(y), len(beta))
		return
	}
	b = Boundary{
		X:    append([]float64(nil), x...),
		Y:    append([]float64(nil), y...),
		Beta: make([]types.CornerType, len(beta)),
	}
	for n, bt := range beta {
		if b.Beta[n], err = types.NewCornerType(bt); err != nil {
			return
		}
	}
	err = b.Validate()
	return
}

func (b Boundary) Validate() (err error) {
	if len(b.X) < 3 {
		return errors.Wrapf(types.ErrValidation, "boundary needs at least 3 vertices, have %d", len(b.X))
	}
	if len(b.X) != len(b.Y) || len(b.X) != len(b.Beta) {
		return errors.Wrap(types.ErrValidation, "boundary arrays differ in length")
	}
	if sum := types.CornerSum(b.Beta); sum != 4 {
		return errors.Wrapf(types.ErrValidation, "sum of beta must be 4, have %d", sum)
	}
	for n := range b.X {
		if math.IsNaN(b.X[n]) || math.IsNaN(b.Y[n]) {
			return errors.Wrapf(types.ErrValidation, "boundary vertex %d is NaN", n)
		}
	}
	return
}

// Corners returns the indices of the left turning vertices.
func (b Boundary) Corners() (idx []int) {
	for n, bt := range b.Beta {
		if bt == types.CornerLeft {
			idx = append(idx, n)
		}
	}
	return
}

// SolverInput is everything a grid generator needs: the (projected)
// boundary, the index of the vertex mapped to the upper left grid corner,
// the node count in each direction and the (possibly focused) unit square
// positions of the nodes.
type SolverInput struct {
	Boundary
	ULIdx        int
	Ny, Nx       int
	XGrid, YGrid utils.Matrix
}

// BoundarySolver places the interior nodes of a grid inside a boundary. It
// returns Ny x Nx node coordinates; nodes it cannot place are NaN.
type BoundarySolver interface {
	Solve(in SolverInput) (x, y utils.Matrix, err error)
}

type GridgenOptions struct {
	Ny, Nx int // number of nodes, one more than cells
	ULIdx  int
	Focus  Focus
	Proj   Projection
}

// Generate builds a grid inside boundary b. With a projection, b is given in
// longitude and latitude and the result is a geographic grid.
func Generate(b Boundary, opts GridgenOptions, solver BoundarySolver) (g *CGrid, err error) {
	if err = b.Validate(); err != nil {
		return
	}
	if opts.Ny < 2 || opts.Nx < 2 {
		err = errors.Wrapf(types.ErrValidation, "grid shape must be at least 2 x 2 nodes, have (%d, %d)", opts.Ny, opts.Nx)
		return
	}
	if opts.ULIdx < 0 || opts.ULIdx >= len(b.X) {
		err = errors.Wrapf(types.ErrValidation, "upper left index %d outside boundary of %d vertices", opts.ULIdx, len(b.X))
		return
	}
	in := SolverInput{Boundary: b, ULIdx: opts.ULIdx, Ny: opts.Ny, Nx: opts.Nx}
	if opts.Proj != nil {
		in.X, in.Y = make([]float64, len(b.X)), make([]float64, len(b.Y))
		for n := range b.X {
			if in.X[n], in.Y[n], err = opts.Proj.Forward(b.X[n], b.Y[n]); err != nil {
				return
			}
		}
	}
	in.XGrid, in.YGrid = UnitGrid(opts.Ny, opts.Nx)
	if len(opts.Focus) != 0 {
		if in.XGrid, in.YGrid, err = opts.Focus.Apply(in.XGrid, in.YGrid); err != nil {
			return
		}
	}
	var x, y utils.Matrix
	if x, y, err = solver.Solve(in); err != nil {
		return
	}
	if nr, nc := x.Dims(); nr != opts.Ny || nc != opts.Nx || !x.SameShape(y) {
		err = errors.Wrapf(types.ErrValidation, "solver returned (%d, %d) nodes, expected (%d, %d)", nr, nc, opts.Ny, opts.Nx)
		return
	}
	if opts.Proj != nil {
		var lon, lat utils.Matrix
		if lon, lat, err = inverseMatrix(opts.Proj, x, y); err != nil {
			return
		}
		return New(lon, lat, WithProjection(opts.Proj))
	}
	return New(x, y)
}
