package vertical

import (
	"math"

	"github.com/pkg/errors"

	"github.com/notargets/octant/types"
)

// Hscale is the fixed internal scale of the kind 3 (Geyer) stretching.
const Hscale = 3.

// Stretching evaluates the vertical stretching curve C(s) of the given kind at
// every entry of s. Every s must lie in [-1, 0]. The returned curve satisfies
// C(-1) = -1 and C(0) = 0 exactly.
func Stretching(kind int, s []float64, thetaS, thetaB float64) (C []float64, err error) {
	var f func(s float64) float64
	if err = checkStretching(kind, thetaS, thetaB); err != nil {
		return
	}
	switch kind {
	case 1:
		f = func(s float64) float64 { return stretch1(s, thetaS, thetaB) }
	case 2:
		f = func(s float64) float64 { return csur(s, thetaS) }
	case 3:
		f = func(s float64) float64 { return stretch3(s, thetaS, thetaB) }
	case 4:
		f = func(s float64) float64 { return stretch4(s, thetaS, thetaB) }
	}
	C = make([]float64, len(s))
	for k, sk := range s {
		switch {
		case math.IsNaN(sk) || sk < -1 || sk > 0:
			err = errors.Wrapf(types.ErrValidation, "s[%d] = %v is outside [-1, 0]", k, sk)
			return nil, err
		case sk == 0:
			C[k] = 0
		case sk == -1:
			C[k] = -1
		default:
			C[k] = f(sk)
		}
	}
	return
}

func checkStretching(kind int, thetaS, thetaB float64) (err error) {
	outOfRange := func(rng string) error {
		return errors.Wrapf(types.ErrParameterRange,
			"stretching kind %d requires %s, have theta_s = %v, theta_b = %v", kind, rng, thetaS, thetaB)
	}
	switch kind {
	case 1:
		if !(thetaS > 0 && thetaS <= 8) {
			return outOfRange("0 < theta_s <= 8")
		}
		if !(thetaB >= 0 && thetaB <= 1) {
			return outOfRange("0 <= theta_b <= 1")
		}
	case 2:
		if !(thetaS > 0) {
			return outOfRange("theta_s > 0")
		}
		if !(thetaB >= 0) {
			return outOfRange("theta_b >= 0")
		}
	case 3:
		if !(thetaS > 0) {
			return outOfRange("theta_s > 0")
		}
		if !(thetaB > 0) {
			return outOfRange("theta_b > 0")
		}
	case 4:
		if !(thetaS > 0 && thetaS <= 10) {
			return outOfRange("0 < theta_s <= 10")
		}
		if !(thetaB >= 0 && thetaB <= 3) {
			return outOfRange("0 <= theta_b <= 3")
		}
	default:
		err = errors.Wrapf(types.ErrUnsupported, "stretching kind %d, must be one of 1, 2, 3, 4", kind)
	}
	return
}

// Song and Haidvogel (1994)
func stretch1(s, thetaS, thetaB float64) float64 {
	var (
		t = math.Tanh(0.5 * thetaS)
	)
	return (1-thetaB)*math.Sinh(thetaS*s)/math.Sinh(thetaS) +
		0.5*thetaB*(math.Tanh(thetaS*(s+0.5))-t)/t
}

// Geyer (2009), for shallow sediment applications
func stretch3(s, thetaS, thetaB float64) float64 {
	var (
		lc   = math.Log(math.Cosh(Hscale))
		cbot = math.Log(math.Cosh(Hscale*math.Pow(s+1, thetaB)))/lc - 1
		cs   = -math.Log(math.Cosh(Hscale*math.Pow(math.Abs(s), thetaS))) / lc
		w    = 0.5 * (1 - math.Tanh(Hscale*(s+0.5)))
	)
	return w*cbot + (1-w)*cs
}

// Shchepetkin (2010), double stretching
func stretch4(s, thetaS, thetaB float64) (C float64) {
	C = csur(s, thetaS)
	if thetaB > 0 {
		C = (math.Exp(thetaB*C) - 1) / (1 - math.Exp(-thetaB))
	}
	return
}

// Shchepetkin (2005) surface curve, used alone by kind 2. theta_b is checked
// but takes no part in it.
func csur(s, thetaS float64) float64 {
	return (1 - math.Cosh(thetaS*s)) / (math.Cosh(thetaS) - 1)
}
