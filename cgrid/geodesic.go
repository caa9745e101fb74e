package cgrid

import "math"

// WGS84 style reference ellipsoid used for geodesic cell widths.
const (
	EllipsoidA = 6378137.0
	EllipsoidB = 6356752.3142
)

// GeodesicDistance is the Vincenty inverse solution for the distance in meters
// between two points on the reference ellipsoid, coordinates in degrees.
func GeodesicDistance(lon1, lat1, lon2, lat2 float64) (s float64) {
	const (
		a       = EllipsoidA
		b       = EllipsoidB
		f       = (a - b) / a
		tol     = 1.e-12
		maxIter = 200
		deg     = math.Pi / 180
	)
	if math.IsNaN(lon1) || math.IsNaN(lat1) || math.IsNaN(lon2) || math.IsNaN(lat2) {
		return math.NaN()
	}
	var (
		L                = (lon2 - lon1) * deg
		U1               = math.Atan((1 - f) * math.Tan(lat1*deg))
		U2               = math.Atan((1 - f) * math.Tan(lat2*deg))
		sinU1, cosU1     = math.Sincos(U1)
		sinU2, cosU2     = math.Sincos(U2)
		lambda           = L
		sinSigma, cosSig float64
		sigma, cos2SigM  float64
		cosSqAlpha       float64
	)
	for iter := 0; iter < maxIter; iter++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma = math.Hypot(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
		if sinSigma == 0 {
			return 0
		}
		cosSig = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSig)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigM = cosSig - 2*sinU1*sinU2/cosSqAlpha
		} else {
			// equatorial line
			cos2SigM = 0
		}
		C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
		lambdaP := lambda
		lambda = L + (1-C)*f*sinAlpha*
			(sigma+C*sinSigma*(cos2SigM+C*cosSig*(-1+2*cos2SigM*cos2SigM)))
		if math.Abs(lambda-lambdaP) < tol {
			break
		}
	}
	var (
		uSq = cosSqAlpha * (a*a - b*b) / (b * b)
		A   = 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
		B   = uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
		c2  = cos2SigM * cos2SigM
	)
	deltaSigma := B * sinSigma * (cos2SigM + B/4*(cosSig*(-1+2*c2)-
		B/6*cos2SigM*(-3+4*sinSigma*sinSigma)*(-3+4*c2)))
	s = b * A * (sigma - deltaSigma)
	return
}
