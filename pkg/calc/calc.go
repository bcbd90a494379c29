// Package calc turns validated calculator inputs into exportable results.
// It is the entry point shared by the command line and the HTTP API.
package calc

import (
	errorsmod "cosmossdk.io/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/AlbinSjoegren/SPV/internal/metrics"
	"github.com/AlbinSjoegren/SPV/internal/types"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/astrometry"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/kepler"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/orbital"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/rotation"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/validation"
)

// Angles orient an orbital plane, in degrees.
type Angles struct {
	LongitudeOfAscendingNodeDeg float64 `json:"lotn_deg"`
	ArgumentOfPeriapsisDeg      float64 `json:"aop_deg"`
	InclinationDeg              float64 `json:"inclination_deg"`
}

// Validate reports a non-finite angle.
func (a Angles) Validate() error {
	return validation.FirstError(
		validation.Finite(validation.ErrInvalidAngle, "longitude of the ascending node", a.LongitudeOfAscendingNodeDeg),
		validation.Finite(validation.ErrInvalidAngle, "argument of periapsis", a.ArgumentOfPeriapsisDeg),
		validation.Finite(validation.ErrInvalidAngle, "inclination", a.InclinationDeg),
	)
}

// Calculator produces results with one solver configuration.
type Calculator struct {
	orbit orbital.Calculator
}

// New returns a Calculator using solver for every Kepler solve.
func New(solver kepler.Solver) Calculator {
	return Calculator{orbit: orbital.Calculator{Solver: solver}}
}

// finish rejects results holding NaN or Inf and counts the rest.
func finish(results ...types.Result) ([]types.Result, error) {
	for _, r := range results {
		if !r.IsFinite() {
			return nil, errorsmod.Wrapf(validation.ErrNonFiniteResult, "%s", r.Quantity)
		}
	}
	for _, r := range results {
		metrics.Calculation(string(r.Quantity))
	}
	return results, nil
}

// Position returns the observer-relative position of o in meters.
func (c Calculator) Position(o astrometry.Observation) ([]types.Result, error) {
	if err := validatePosition(o); err != nil {
		return nil, err
	}
	return finish(types.NewVectorResult(types.QuantityPosition, "m", o.Position()))
}

// proper motion and radial velocity do not enter the position.
func validatePosition(o astrometry.Observation) error {
	o.ProperMotionRAArcsecPerYr = 0
	o.ProperMotionDecArcsecPerYr = 0
	o.RadialVelocityKmS = 0
	return astrometry.Validate(o)
}

// Velocity returns the observer-relative velocity of o in m/s.
func (c Calculator) Velocity(o astrometry.Observation) ([]types.Result, error) {
	if err := astrometry.Validate(o); err != nil {
		return nil, err
	}
	return finish(types.NewVectorResult(types.QuantityVelocity, "m/s", o.Velocity()))
}

// Rotation returns the perifocal-to-reference rotation matrix.
func (c Calculator) Rotation(a Angles) ([]types.Result, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	m := rotation.EulerAngleTransformation(a.LongitudeOfAscendingNodeDeg, a.ArgumentOfPeriapsisDeg, a.InclinationDeg)
	return finish(types.NewMatrixResult(types.QuantityEulerAngleTransformations, m))
}

// Companion returns the companion's perifocal and reference-frame state.
func (c Calculator) Companion(el orbital.Elements) ([]types.Result, error) {
	ps, err := c.orbit.CheckedPlaneState(el)
	if err != nil {
		return nil, err
	}
	m := el.Rotation()
	return finish(
		types.NewPlaneResult(types.QuantityCompanionPosition, "m", ps.Position),
		types.NewPlaneResult(types.QuantityCompanionVelocity, "m/s", ps.Velocity),
		types.NewVectorResult(types.QuantityCompanionRelativePosition, "m", m.ApplyPlane(ps.Position)),
		types.NewVectorResult(types.QuantityCompanionRelativeVelocity, "m/s", m.ApplyPlane(ps.Velocity)),
	)
}

// Derived returns the scalar orbit quantities together with the angular
// momentum vector and the apsides in the reference frame.
func (c Calculator) Derived(el orbital.Elements) ([]types.Result, error) {
	st, err := c.orbit.CheckedState(el)
	if err != nil {
		return nil, err
	}
	sol := c.orbit.Anomalies(el)

	scalars := el.Derived().Scalars()
	scalars["mean_anomaly_rad"] = sol.Mean
	scalars["eccentric_anomaly_rad"] = sol.Eccentric
	scalars["true_anomaly_rad"] = sol.True
	scalars["radius_m"] = c.orbit.Radius(el.SemiMajorAxisAU, el.Eccentricity, el.PeriodYears, el.TimeSincePeriapsisYears)
	scalars["speed_m_s"] = c.orbit.CompanionSpeed(el.SemiMajorAxisAU, el.Eccentricity, el.PeriodYears, el.TimeSincePeriapsisYears)
	scalars["flight_path_angle_deg"] = c.orbit.FlightPathAngle(el.Eccentricity, el.PeriodYears, el.TimeSincePeriapsisYears)

	return finish(
		types.NewScalarsResult(types.QuantityDerived, scalars),
		types.NewVectorResult(types.QuantitySpecificAngularMomentum, "m^2/s", r3.Cross(st.Position, st.Velocity)),
		types.NewVectorResult(types.QuantityRelativePerigee, "m", el.RelativePerigee()),
		types.NewVectorResult(types.QuantityRelativeApogee, "m", el.RelativeApogee()),
	)
}

// Select keeps the results whose quantity is in qs, in the order of qs.
func Select(results []types.Result, qs ...types.Quantity) []types.Result {
	out := make([]types.Result, 0, len(qs))
	for _, q := range qs {
		for _, r := range results {
			if r.Quantity == q {
				out = append(out, r)
			}
		}
	}
	return out
}
