// Package units is the boundary between the caller-facing units used by the
// astrometric and orbital calculators (AU, parsec, Julian year, arcsecond,
// milliarcsecond, km/s) and the SI values used internally.
package units

import (
	"math"

	"github.com/soniakeys/unit"
)

const (
	// AstronomicalUnit is the IAU 2012 astronomical unit in meters.
	AstronomicalUnit = 149597870700.0

	// Parsec in meters, defined as 648000/π AU.
	Parsec = 648000 / math.Pi * AstronomicalUnit

	// JulianYear in seconds (365.25 days).
	JulianYear = 31557600.0

	// ArcsecondsPerDegree is the number of arcseconds in one degree.
	ArcsecondsPerDegree = 3600.0

	// MillisecondsPerArcsecond converts milliarcseconds to arcseconds.
	MillisecondsPerArcsecond = 1000.0

	metersPerKilometer = 1000.0
)

// AUToMeters converts astronomical units to meters.
func AUToMeters(au float64) float64 { return au * AstronomicalUnit }

// MetersToAU converts meters to astronomical units.
func MetersToAU(m float64) float64 { return m / AstronomicalUnit }

// ParsecsToMeters converts parsecs to meters.
func ParsecsToMeters(pc float64) float64 { return pc * Parsec }

// MetersToParsecs converts meters to parsecs.
func MetersToParsecs(m float64) float64 { return m / Parsec }

// JulianYearsToSeconds converts Julian years to seconds.
func JulianYearsToSeconds(yr float64) float64 { return yr * JulianYear }

// SecondsToJulianYears converts seconds to Julian years.
func SecondsToJulianYears(s float64) float64 { return s / JulianYear }

// ArcsecondsToDegrees converts arcseconds to degrees.
func ArcsecondsToDegrees(as float64) float64 {
	return unit.AngleFromSec(as).Deg()
}

// DegreesToArcseconds converts degrees to arcseconds.
func DegreesToArcseconds(deg float64) float64 {
	return unit.AngleFromDeg(deg).Sec()
}

// KmPerSecondToMetersPerSecond converts km/s to m/s.
func KmPerSecondToMetersPerSecond(kms float64) float64 { return kms * metersPerKilometer }

// ParallaxToParsecs returns the distance in parsecs for a parallax given in
// milliarcseconds. A zero parallax yields +Inf.
func ParallaxToParsecs(parallaxMas float64) float64 {
	return 1 / (parallaxMas / MillisecondsPerArcsecond)
}

// ParallaxToMeters returns the distance in meters for a parallax given in
// milliarcseconds.
func ParallaxToMeters(parallaxMas float64) float64 {
	return ParsecsToMeters(ParallaxToParsecs(parallaxMas))
}

// SeparationToAU converts an angular separation (arcseconds), seen at the
// distance implied by parallaxMas, to a physical length in AU. At one parsec
// one arcsecond spans exactly one AU.
func SeparationToAU(parallaxMas, separationArcsec float64) float64 {
	return separationArcsec * ParallaxToParsecs(parallaxMas)
}

// RightAscensionFromHMS returns a right ascension in degrees for sexagesimal
// hour, minute, second components. The result is normalized to [0, 360).
func RightAscensionFromHMS(h, m int, s float64) float64 {
	return unit.NewRA(h, m, s).Deg()
}

// DeclinationFromDMS returns a declination in degrees. Pass '-' for neg to
// indicate a southern declination; d, m and s are then taken as magnitudes.
func DeclinationFromDMS(neg byte, d, m int, s float64) float64 {
	return unit.NewAngle(neg, d, m, s).Deg()
}

// Radians converts degrees to radians without normalization.
func Radians(deg float64) float64 { return unit.AngleFromDeg(deg).Rad() }

// Degrees converts radians to degrees without normalization.
func Degrees(rad float64) float64 { return unit.Angle(rad).Deg() }
