package cgrid

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

// plateCarree scales degrees to meters at the equator.
type plateCarree struct{}

const metersPerDegree = EllipsoidA * math.Pi / 180

func (plateCarree) Forward(lon, lat float64) (x, y float64, err error) {
	return lon * metersPerDegree, lat * metersPerDegree, nil
}

func (plateCarree) Inverse(x, y float64) (lon, lat float64, err error) {
	return x / metersPerDegree, y / metersPerDegree, nil
}

func TestGeodesicDistance(t *testing.T) {
	assert.InDelta(t, metersPerDegree, GeodesicDistance(0, 0, 1, 0), 1.e-4)
	assert.InDelta(t, 110574.3886, GeodesicDistance(0, 0, 0, 1), 1.e-3)
	assert.InDelta(t, 139698.7554, GeodesicDistance(-97, 40, -96, 41), 1.e-3)
	assert.InDelta(t, GeodesicDistance(-97, 40, -96, 41), GeodesicDistance(-96, 41, -97, 40), 1.e-6)
	assert.Equal(t, 0., GeodesicDistance(10, 10, 10, 10))
	assert.True(t, math.IsNaN(GeodesicDistance(math.NaN(), 0, 1, 0)))
}

func TestGeographicGrid(t *testing.T) {
	lon, lat := rectVertices(2, 2, 1, 1)
	g, err := New(lon, lat, WithProjection(plateCarree{}))
	require.NoError(t, err)
	assert.True(t, g.IsGeographic())
	{
		dx := g.Dx()
		assert.Equal(t, [2]int{2, 2}, dims(dx))
		assert.InDelta(t, 0.5*(GeodesicDistance(1, 0, 0, 0)+GeodesicDistance(1, 1, 0, 1)), dx.At(0, 0), 1.e-9)
		assert.InDelta(t, 0.5*(GeodesicDistance(1, 1, 0, 1)+GeodesicDistance(1, 2, 0, 2)), dx.At(1, 0), 1.e-9)
		dy := g.Dy()
		assert.InDelta(t, GeodesicDistance(0, 1, 0, 0), dy.At(0, 0), 1.e-9)
		assert.True(t, dx.At(1, 0) < dx.At(0, 0))
	}
	{
		lonR, latR, err := g.LonLat(types.Rho)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{.5, 1.5, .5, 1.5}, lonR.DataP, 1.e-12)
		assert.InDeltaSlice(t, []float64{.5, .5, 1.5, 1.5}, latR.DataP, 1.e-12)
		f, err := g.Coriolis()
		require.NoError(t, err)
		assert.InDelta(t, 2*Omega*math.Sin(0.5*math.Pi/180), f.At(0, 0), 1.e-15)
		assert.InDelta(t, 2*Omega*math.Sin(1.5*math.Pi/180), f.At(1, 1), 1.e-15)
		lv, _ := g.LonLatVertices()
		assert.Equal(t, lon.DataP, lv.DataP)
		xv, _ := g.Vertices()
		assert.InDelta(t, 2*metersPerDegree, xv.At(0, 2), 1.e-6)
		assert.InDeltaSlice(t, utils.ConstArray(9, 0), g.Angle().DataP, 1.e-12)
	}
	// A supplied Coriolis field wins
	{
		g, err := New(lon, lat, WithProjection(plateCarree{}), WithCoriolis(utils.NewMatrixConst(2, 2, 1.e-4)))
		require.NoError(t, err)
		f, err := g.Coriolis()
		require.NoError(t, err)
		assert.Equal(t, utils.ConstArray(4, 1.e-4), f.DataP)
	}
	// Missing geographic corners
	{
		lon2 := lon.Copy()
		lon2.Set(2, 2, math.NaN())
		g, err := New(lon2, lat, WithProjection(plateCarree{}))
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 1, 1, 0}, g.MaskRho().DataP)
		assert.True(t, math.IsNaN(g.Dx().At(1, 1)))
	}
}

func TestSRProjection(t *testing.T) {
	p, err := NewProjection("+proj=lcc +lat_1=33.000000 +lat_2=45.000000 +lat_0=40.000000 +lon_0=-97.000000 +x_0=0 +y_0=0 +a=6370997.000000 +b=6370997.000000 +to_meter=1")
	require.NoError(t, err)
	for _, pt := range [][2]float64{{-97, 40}, {-90, 35}, {-110.5, 47.25}} {
		x, y, err := p.Forward(pt[0], pt[1])
		require.NoError(t, err)
		lon, lat, err := p.Inverse(x, y)
		require.NoError(t, err)
		assert.InDelta(t, pt[0], lon, 1.e-6)
		assert.InDelta(t, pt[1], lat, 1.e-6)
	}
	_, err = NewProjection("+proj=nonsense")
	assert.True(t, errors.Is(err, types.ErrUnsupported))
	_, err = NewProjection("+proj=merc +lat_ts=0 +lon_0=-70 +datum=WGS84 +units=m")
	assert.NoError(t, err)
}
