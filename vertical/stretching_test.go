package vertical

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/octant/types"
	"github.com/notargets/octant/utils"
)

func TestStretching(t *testing.T) {
	var (
		s      = utils.Linspace(-1, 0, 41)
		params = map[int][][2]float64{
			1: {{0.1, 0}, {5, 0.4}, {8, 1}},
			2: {{0.5, 0}, {5, 0.4}, {12, 4}},
			3: {{0.5, 0.5}, {3, 3}},
			4: {{0.1, 0}, {5, 0}, {7, 2}, {10, 3}},
		}
	)
	// End points and bounds for every kind
	{
		for kind, sets := range params {
			for _, p := range sets {
				C, err := Stretching(kind, s, p[0], p[1])
				require.NoError(t, err)
				assert.InDelta(t, -1., C[0], 1.e-10)
				assert.InDelta(t, 0., C[len(C)-1], 1.e-10)
				for k := range C {
					assert.True(t, C[k] >= -1-1.e-10 && C[k] <= 1.e-10,
						"kind %d, theta = %v, C[%d] = %v", kind, p, k, C[k])
				}
			}
		}
	}
	// The closed forms reach the end points without the exact end point values
	{
		curves := map[int]func(s, thetaS, thetaB float64) float64{
			1: stretch1,
			2: func(s, thetaS, _ float64) float64 { return csur(s, thetaS) },
			3: stretch3,
			4: stretch4,
		}
		for kind, sets := range params {
			for _, p := range sets {
				assert.InDelta(t, -1., curves[kind](-1, p[0], p[1]), 1.e-10, "kind %d, theta = %v", kind, p)
				assert.InDelta(t, 0., curves[kind](0, p[0], p[1]), 1.e-10, "kind %d, theta = %v", kind, p)
			}
		}
	}
	// Interior values match the closed forms
	{
		C, err := Stretching(2, []float64{-0.5}, 5, 0)
		require.NoError(t, err)
		assert.InDelta(t, csur(-0.5, 5), C[0], 1.e-14)
		// theta_b does not enter kind 2
		C2, err := Stretching(2, []float64{-0.5}, 5, 2)
		require.NoError(t, err)
		assert.InDelta(t, -0.070104, C2[0], 1.e-6)
		assert.Equal(t, C, C2)
		C4, err := Stretching(4, []float64{-0.5}, 5, 0)
		require.NoError(t, err)
		assert.Equal(t, C, C4)
		C1, err := Stretching(1, []float64{-0.5}, 5, 0)
		require.NoError(t, err)
		assert.InDelta(t, -0.0815356, C1[0], 1.e-6)
	}
	// Out of range s
	{
		_, err := Stretching(1, []float64{-1.5}, 5, 0)
		assert.True(t, errors.Is(err, types.ErrValidation))
		_, err = Stretching(1, []float64{0.1}, 5, 0)
		assert.True(t, errors.Is(err, types.ErrValidation))
	}
	// Parameter domains
	{
		for _, c := range []struct {
			kind           int
			thetaS, thetaB float64
		}{
			{1, 0, 0}, {1, 8.5, 0}, {1, 5, 1.5},
			{2, 0, 0}, {2, 5, -1},
			{3, 5, 0}, {3, 0, 1},
			{4, 11, 0}, {4, 5, 3.5}, {4, 0, 1},
		} {
			_, err := Stretching(c.kind, s, c.thetaS, c.thetaB)
			assert.True(t, errors.Is(err, types.ErrParameterRange), "%+v", c)
			assert.Contains(t, err.Error(), "requires")
		}
		_, err := Stretching(5, s, 5, 0)
		assert.True(t, errors.Is(err, types.ErrUnsupported))
	}
}

func TestSLevels(t *testing.T) {
	{
		sw, err := SLevels(4, types.W)
		require.NoError(t, err)
		assert.Equal(t, []float64{-1, -.75, -.5, -.25, 0}, sw)
		sr, err := SLevels(4, types.Rho)
		require.NoError(t, err)
		assert.Equal(t, utils.Midpoints(sw), sr)
	}
	{
		_, err := SLevels(0, types.Rho)
		assert.True(t, errors.Is(err, types.ErrValidation))
		_, err = SLevels(3, types.U)
		assert.True(t, errors.Is(err, types.ErrUnsupported))
	}
}
