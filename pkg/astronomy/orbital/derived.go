package orbital

import "math"

// The functions in this file take and return SI values only: meters,
// seconds, m³/s² for μ, J/kg for energy and m²/s for angular momentum.

// StandardGravitationalParameter returns μ = 4π²a³/P² from Kepler's third
// law, with a in meters and the period in seconds.
func StandardGravitationalParameter(a, period float64) float64 {
	return 4 * math.Pi * math.Pi * a * a * a / (period * period)
}

// SemiMinorAxis returns b = a·sqrt(1-e²).
func SemiMinorAxis(a, e float64) float64 {
	return a * math.Sqrt(1-e*e)
}

// SemiParameter returns the semi-latus rectum p = b²/a.
func SemiParameter(a, e float64) float64 {
	b := SemiMinorAxis(a, e)
	return b * b / a
}

// Perigee returns the periapsis distance a(1-e).
func Perigee(a, e float64) float64 { return a * (1 - e) }

// Apogee returns the apoapsis distance a(1+e).
func Apogee(a, e float64) float64 { return a * (1 + e) }

// SpecificMechanicalEnergy returns ξ = -μ/2a.
func SpecificMechanicalEnergy(mu, a float64) float64 {
	return -mu / (2 * a)
}

// SpecificAngularMomentum returns h = sqrt(μp).
func SpecificAngularMomentum(mu, p float64) float64 {
	return math.Sqrt(mu * p)
}

// MeanMotion returns n = sqrt(μ/a³) in rad/s.
func MeanMotion(mu, a float64) float64 {
	return math.Sqrt(mu / (a * a * a))
}

// LinearEccentricity returns the center-to-focus distance a·e.
func LinearEccentricity(a, e float64) float64 { return a * e }

// Flattening returns (a-b)/a.
func Flattening(a, e float64) float64 {
	return (a - SemiMinorAxis(a, e)) / a
}

// ConicRadius returns r = p/(1+e·cos ν).
func ConicRadius(p, e, nu float64) float64 {
	return p / (1 + e*math.Cos(nu))
}

// VisVivaSpeed returns the orbital speed at radius r, sqrt(μ(2/r - 1/a)).
func VisVivaSpeed(mu, r, a float64) float64 {
	return math.Sqrt(mu * (2/r - 1/a))
}

// Period returns 2π·sqrt(a³/μ) in seconds.
func Period(mu, a float64) float64 {
	return 2 * math.Pi * math.Sqrt(a*a*a/mu)
}

// SemiMajorAxisFromEnergy returns a = -μ/2ξ.
func SemiMajorAxisFromEnergy(mu, energy float64) float64 {
	return -mu / (2 * energy)
}

// EccentricityFromInvariants returns e = sqrt(1 + 2ξh²/μ²).
func EccentricityFromInvariants(mu, energy, h float64) float64 {
	return math.Sqrt(1 + 2*energy*h*h/(mu*mu))
}

// Derived bundles the scalar orbit quantities of one set of elements.
type Derived struct {
	SemiMajorAxis                  float64 `json:"semi_major_axis_m"`
	SemiMinorAxis                  float64 `json:"semi_minor_axis_m"`
	SemiParameter                  float64 `json:"semi_parameter_m"`
	Perigee                        float64 `json:"perigee_m"`
	Apogee                         float64 `json:"apogee_m"`
	LinearEccentricity             float64 `json:"linear_eccentricity_m"`
	Flattening                     float64 `json:"flattening"`
	Period                         float64 `json:"period_s"`
	StandardGravitationalParameter float64 `json:"mu_m3_s2"`
	SpecificMechanicalEnergy       float64 `json:"specific_mechanical_energy_j_kg"`
	SpecificAngularMomentum        float64 `json:"specific_angular_momentum_m2_s"`
	MeanMotion                     float64 `json:"mean_motion_rad_s"`
}

// Scalars returns d keyed by its JSON field names.
func (d Derived) Scalars() map[string]float64 {
	return map[string]float64{
		"semi_major_axis_m":               d.SemiMajorAxis,
		"semi_minor_axis_m":               d.SemiMinorAxis,
		"semi_parameter_m":                d.SemiParameter,
		"perigee_m":                       d.Perigee,
		"apogee_m":                        d.Apogee,
		"linear_eccentricity_m":           d.LinearEccentricity,
		"flattening":                      d.Flattening,
		"period_s":                        d.Period,
		"mu_m3_s2":                        d.StandardGravitationalParameter,
		"specific_mechanical_energy_j_kg": d.SpecificMechanicalEnergy,
		"specific_angular_momentum_m2_s":  d.SpecificAngularMomentum,
		"mean_motion_rad_s":               d.MeanMotion,
	}
}
