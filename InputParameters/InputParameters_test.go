package InputParameters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/octant/types"
)

func TestGridParameters(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Test Basin
Ny: 11
Nx: 21
ULIdx: 3
Boundary:
  - [0, 0, 1]
  - [2000, 0, 1]
  - [2000, 1000, 1]
  - [0, 1000, 1]
Focus:
  - Xo: 0.5
    Yo: 0.5
    Factor: 3
Land:
  - [[900, 400], [1100, 400], [1100, 600], [900, 600]]
Depth: 50
`)
	var input GridParameters
	require.NoError(t, input.Parse(fileInput))
	input.Print()
	assert.Equal(t, "Test Basin", input.Title)
	assert.Equal(t, [3]float64{2000, 1000, 1}, input.Boundary[2])
	assert.Equal(t, 4, len(input.Land[0]))
	require.NoError(t, input.Validate())
	{
		b, err := input.NewBoundary()
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3}, b.Corners())
	}
	{
		opts, err := input.Options()
		require.NoError(t, err)
		assert.Equal(t, 11, opts.Ny)
		assert.Equal(t, 3, opts.ULIdx)
		assert.Nil(t, opts.Proj)
		// Defaults fill in the unset extents
		assert.Equal(t, 0.1, opts.Focus[0].Rx)
		assert.Equal(t, 0.1, opts.Focus[0].Ry)
	}
	{
		bad := input
		bad.Boundary = [][3]float64{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 0.5}}
		err = bad.Validate()
		assert.True(t, errors.Is(err, types.ErrValidation))
		bad = input
		bad.Ny = 1
		assert.True(t, errors.Is(bad.Validate(), types.ErrValidation))
		bad = input
		bad.Land = [][][]float64{{{0, 0}, {1, 1}}}
		assert.True(t, errors.Is(bad.Validate(), types.ErrValidation))
	}
	{
		geo := input
		geo.Projection = "+proj=merc +lat_ts=0 +lon_0=-70 +datum=WGS84 +units=m"
		opts, err := geo.Options()
		require.NoError(t, err)
		assert.NotNil(t, opts.Proj)
	}
}

func TestVerticalParameters(t *testing.T) {
	fileInput := []byte(`
Title: Shelf
hc: 5
theta_s: 5
theta_b: 0.4
Nlevels: 4
Vtransform: 2
Vstretching: 4
h: 100
`)
	var input VerticalParameters
	require.NoError(t, input.Parse(fileInput))
	input.Print()
	assert.Equal(t, 4, input.N)
	assert.Equal(t, 2, input.Vtransform)
	require.NoError(t, input.Validate())
	p, err := input.Params()
	require.NoError(t, err)
	assert.Equal(t, types.Rho, p.Family)
	assert.Equal(t, 5., p.ThetaS)
	z, err := input.Column()
	require.NoError(t, err)
	assert.Equal(t, 4, len(z))
	for k := 1; k < len(z); k++ {
		assert.True(t, z[k] > z[k-1])
	}
	assert.True(t, z[0] > -100 && z[3] < 0)
	{
		w := input
		w.Family = "w"
		z, err = w.Column()
		require.NoError(t, err)
		assert.Equal(t, 5, len(z))
		assert.InDelta(t, -100, z[0], 1.e-10)
		assert.InDelta(t, 0, z[4], 1.e-10)
	}
	{
		bad := input
		bad.Family = "psi"
		assert.True(t, errors.Is(bad.Validate(), types.ErrUnsupported))
		bad = input
		bad.Vtransform = 3
		assert.True(t, errors.Is(bad.Validate(), types.ErrUnsupported))
		bad = input
		bad.H = -1
		assert.True(t, errors.Is(bad.Validate(), types.ErrParameterRange))
	}
	{
		// An unquoted N key is the boolean false in YAML 1.1 and never
		// reaches the level count
		var old VerticalParameters
		require.NoError(t, old.Parse([]byte("hc: 5\ntheta_s: 5\nN: 4\nh: 100\n")))
		assert.Equal(t, 0, old.N)
		assert.True(t, errors.Is(old.Validate(), types.ErrValidation))
	}
}
