// Package projection converts between Lambert 93, the legal planar reference
// system for metropolitan France, and WGS84 geographic coordinates.
//
// The projection is a secant Lambert Conformal Conic on the GRS80 ellipsoid.
// Its parameters are a fixed characteristic of the ingested data, so they are
// compile-time constants rather than configuration.
package projection

import "math"

const (
	// GRS80 ellipsoid.
	semiMajorAxis = 6378137.0
	flattening    = 1.0 / 298.257222101

	// Lambert 93 definition (RGF93 / EPSG:2154).
	latStdParallel1 = 49.0      // degrees
	latStdParallel2 = 44.0      // degrees
	latOrigin       = 46.5      // degrees
	lonOrigin       = 3.0       // degrees
	falseEasting    = 700000.0  // meters
	falseNorthing   = 6600000.0 // meters

	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi

	// Iterative inverse latitude convergence bound, in radians. Well below
	// the 1e-6 degree round-trip requirement.
	latTolerance = 1e-12
)

var (
	eccSquared = 2*flattening - flattening*flattening
	ecc        = math.Sqrt(eccSquared)

	// Derived conic constants, computed once at package init.
	coneConstant float64 // n
	coneScale    float64 // F
	originRadius float64 // rho0
)

func init() {
	phi1 := latStdParallel1 * degToRad
	phi2 := latStdParallel2 * degToRad
	phi0 := latOrigin * degToRad

	m1 := parallelRadius(phi1)
	m2 := parallelRadius(phi2)
	t0 := isometricT(phi0)
	t1 := isometricT(phi1)
	t2 := isometricT(phi2)

	coneConstant = (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	coneScale = m1 / (coneConstant * math.Pow(t1, coneConstant))
	originRadius = semiMajorAxis * coneScale * math.Pow(t0, coneConstant)
}

// parallelRadius is the normalized radius of the parallel at latitude phi.
func parallelRadius(phi float64) float64 {
	sinPhi := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-eccSquared*sinPhi*sinPhi)
}

// isometricT is the conformal latitude function t(phi) of the conic projection.
func isometricT(phi float64) float64 {
	sinPhi := math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) /
		math.Pow((1-ecc*sinPhi)/(1+ecc*sinPhi), ecc/2)
}

// ToGeographic converts Lambert 93 planar coordinates in meters to WGS84
// latitude and longitude in degrees. The function is total: any finite input
// yields a defined result, plausibility of out-of-domain points is the
// caller's concern.
func ToGeographic(x, y float64) (lat, lon float64) {
	dx := x - falseEasting
	dy := originRadius - (y - falseNorthing)

	rho := math.Sqrt(dx*dx + dy*dy)
	theta := math.Atan2(dx, dy)

	lon = (theta/coneConstant)*radToDeg + lonOrigin

	t := math.Pow(rho/(semiMajorAxis*coneScale), 1/coneConstant)

	// Invert t(phi) by fixed-point iteration; converges in a handful of
	// rounds for any point on the ellipsoid.
	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 15; i++ {
		sinPhi := math.Sin(phi)
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-ecc*sinPhi)/(1+ecc*sinPhi), ecc/2))
		if math.Abs(next-phi) < latTolerance {
			phi = next
			break
		}
		phi = next
	}

	lat = phi * radToDeg
	return lat, lon
}

// FromGeographic converts WGS84 latitude and longitude in degrees to Lambert
// 93 planar coordinates in meters.
func FromGeographic(lat, lon float64) (x, y float64) {
	phi := lat * degToRad

	rho := semiMajorAxis * coneScale * math.Pow(isometricT(phi), coneConstant)
	theta := coneConstant * (lon - lonOrigin) * degToRad

	x = falseEasting + rho*math.Sin(theta)
	y = falseNorthing + originRadius - rho*math.Cos(theta)
	return x, y
}
