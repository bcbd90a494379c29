package orbital

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/AlbinSjoegren/SPV/pkg/astronomy/kepler"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/rotation"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/units"
)

// Elements describes a companion's Keplerian orbit in the units a catalogue
// or a form would use.
type Elements struct {
	SemiMajorAxisAU             float64 `json:"a_au" yaml:"a_au" mapstructure:"a_au"`
	Eccentricity                float64 `json:"e" yaml:"e" mapstructure:"e"`
	PeriodYears                 float64 `json:"period_yr" yaml:"period_yr" mapstructure:"period_yr"`
	TimeSincePeriapsisYears     float64 `json:"t_p_yr" yaml:"t_p_yr" mapstructure:"t_p_yr"`
	LongitudeOfAscendingNodeDeg float64 `json:"lotn_deg" yaml:"lotn_deg" mapstructure:"lotn_deg"`
	ArgumentOfPeriapsisDeg      float64 `json:"aop_deg" yaml:"aop_deg" mapstructure:"aop_deg"`
	InclinationDeg              float64 `json:"inclination_deg" yaml:"inclination_deg" mapstructure:"inclination_deg"`
}

// PlaneState is a position (m) and velocity (m/s) in the perifocal frame,
// origin at the occupied focus, x toward periapsis.
type PlaneState struct {
	Position r2.Vec
	Velocity r2.Vec
}

// State is a position (m) and velocity (m/s) relative to the occupied focus,
// in the reference frame.
type State struct {
	Position r3.Vec
	Velocity r3.Vec
}

// Calculator computes companion states with a given Kepler solver. It holds
// no mutable state; the zero value uses the default solver.
type Calculator struct {
	Solver kepler.Solver
}

// DefaultCalculator is used by the package-level functions.
var DefaultCalculator = Calculator{Solver: kepler.DefaultSolver}

// conic is one orbit reduced to SI, with the true anomaly at the requested
// time already solved.
type conic struct {
	a, e, p, mu float64
	nu          float64
}

func (c Calculator) conic(aAU, e, periodYears, tpYears float64) conic {
	a := units.AUToMeters(aAU)
	return conic{
		a:  a,
		e:  e,
		p:  SemiParameter(a, e),
		mu: StandardGravitationalParameter(a, units.JulianYearsToSeconds(periodYears)),
		nu: c.Solver.TrueAnomaly(e, periodYears, tpYears),
	}
}

func (k conic) radius() float64 { return ConicRadius(k.p, k.e, k.nu) }

func (k conic) position() r2.Vec {
	r := k.radius()
	s, c := math.Sincos(k.nu)
	return r2.Vec{X: r * c, Y: r * s}
}

func (k conic) velocity() r2.Vec {
	f := math.Sqrt(k.mu / k.p)
	s, c := math.Sincos(k.nu)
	return r2.Vec{X: -f * s, Y: f * (k.e + c)}
}

// CompanionPosition returns the perifocal position in meters for a in AU and
// period and time since periapsis in Julian years.
func (c Calculator) CompanionPosition(a, e, period, tp float64) r2.Vec {
	return c.conic(a, e, period, tp).position()
}

// CompanionVelocity returns the perifocal velocity in m/s.
func (c Calculator) CompanionVelocity(a, e, period, tp float64) r2.Vec {
	return c.conic(a, e, period, tp).velocity()
}

// CompanionRelativePosition returns the position rotated into the reference
// frame by Ω, ω and i (degrees).
func (c Calculator) CompanionRelativePosition(a, e, period, tp, lotn, aop, i float64) r3.Vec {
	m := rotation.EulerAngleTransformation(lotn, aop, i)
	return m.ApplyPlane(c.CompanionPosition(a, e, period, tp))
}

// CompanionRelativeVelocity returns the velocity rotated into the reference
// frame by Ω, ω and i (degrees).
func (c Calculator) CompanionRelativeVelocity(a, e, period, tp, lotn, aop, i float64) r3.Vec {
	m := rotation.EulerAngleTransformation(lotn, aop, i)
	return m.ApplyPlane(c.CompanionVelocity(a, e, period, tp))
}

// CompanionSpeed returns |v| from the vis-viva equation.
func (c Calculator) CompanionSpeed(a, e, period, tp float64) float64 {
	k := c.conic(a, e, period, tp)
	return VisVivaSpeed(k.mu, k.radius(), k.a)
}

// Radius returns the focus-to-companion distance in meters.
func (c Calculator) Radius(a, e, period, tp float64) float64 {
	return c.conic(a, e, period, tp).radius()
}

// FlightPathAngle returns the angle between the velocity and the local
// horizontal, in degrees.
func (c Calculator) FlightPathAngle(e, period, tp float64) float64 {
	ecc := c.Solver.EccentricAnomaly(e, period, tp)
	s, co := math.Sincos(ecc)
	return units.Degrees(math.Asin(e * s / math.Sqrt(1-e*e*co*co)))
}

// SpecificAngularMomentumVector returns h = r × v in the reference frame.
func (c Calculator) SpecificAngularMomentumVector(a, e, period, tp, lotn, aop, i float64) r3.Vec {
	s := c.State(Elements{
		SemiMajorAxisAU:             a,
		Eccentricity:                e,
		PeriodYears:                 period,
		TimeSincePeriapsisYears:     tp,
		LongitudeOfAscendingNodeDeg: lotn,
		ArgumentOfPeriapsisDeg:      aop,
		InclinationDeg:              i,
	})
	return r3.Cross(s.Position, s.Velocity)
}

// PlaneState returns position and velocity in the perifocal frame.
func (c Calculator) PlaneState(el Elements) PlaneState {
	k := c.conic(el.SemiMajorAxisAU, el.Eccentricity, el.PeriodYears, el.TimeSincePeriapsisYears)
	return PlaneState{Position: k.position(), Velocity: k.velocity()}
}

// State returns position and velocity in the reference frame.
func (c Calculator) State(el Elements) State {
	ps := c.PlaneState(el)
	m := el.Rotation()
	return State{Position: m.ApplyPlane(ps.Position), Velocity: m.ApplyPlane(ps.Velocity)}
}

// Anomalies returns the solver outcome for the elements' epoch, including
// whether the solve converged.
func (c Calculator) Anomalies(el Elements) kepler.Solution {
	return c.Solver.Anomalies(el.Eccentricity, el.PeriodYears, el.TimeSincePeriapsisYears)
}

// Rotation returns the perifocal-to-reference rotation of the orbit.
func (el Elements) Rotation() rotation.Matrix {
	return rotation.EulerAngleTransformation(el.LongitudeOfAscendingNodeDeg, el.ArgumentOfPeriapsisDeg, el.InclinationDeg)
}

// RelativePerigee returns the periapsis point in the reference frame.
func (el Elements) RelativePerigee() r3.Vec {
	a := units.AUToMeters(el.SemiMajorAxisAU)
	return r3.Scale(Perigee(a, el.Eccentricity), el.Rotation().X)
}

// RelativeApogee returns the apoapsis point in the reference frame, on the
// opposite side of the focus from periapsis.
func (el Elements) RelativeApogee() r3.Vec {
	a := units.AUToMeters(el.SemiMajorAxisAU)
	return r3.Scale(-Apogee(a, el.Eccentricity), el.Rotation().X)
}

// Derived returns the scalar orbit quantities in SI.
func (el Elements) Derived() Derived {
	a := units.AUToMeters(el.SemiMajorAxisAU)
	e := el.Eccentricity
	period := units.JulianYearsToSeconds(el.PeriodYears)
	mu := StandardGravitationalParameter(a, period)
	p := SemiParameter(a, e)
	return Derived{
		SemiMajorAxis:                  a,
		SemiMinorAxis:                  SemiMinorAxis(a, e),
		SemiParameter:                  p,
		Perigee:                        Perigee(a, e),
		Apogee:                         Apogee(a, e),
		LinearEccentricity:             LinearEccentricity(a, e),
		Flattening:                     Flattening(a, e),
		Period:                         period,
		StandardGravitationalParameter: mu,
		SpecificMechanicalEnergy:       SpecificMechanicalEnergy(mu, a),
		SpecificAngularMomentum:        SpecificAngularMomentum(mu, p),
		MeanMotion:                     MeanMotion(mu, a),
	}
}

// CompanionPosition uses DefaultCalculator.
func CompanionPosition(a, e, period, tp float64) r2.Vec {
	return DefaultCalculator.CompanionPosition(a, e, period, tp)
}

// CompanionVelocity uses DefaultCalculator.
func CompanionVelocity(a, e, period, tp float64) r2.Vec {
	return DefaultCalculator.CompanionVelocity(a, e, period, tp)
}

// CompanionRelativePosition uses DefaultCalculator.
func CompanionRelativePosition(a, e, period, tp, lotn, aop, i float64) r3.Vec {
	return DefaultCalculator.CompanionRelativePosition(a, e, period, tp, lotn, aop, i)
}

// CompanionRelativeVelocity uses DefaultCalculator.
func CompanionRelativeVelocity(a, e, period, tp, lotn, aop, i float64) r3.Vec {
	return DefaultCalculator.CompanionRelativeVelocity(a, e, period, tp, lotn, aop, i)
}
