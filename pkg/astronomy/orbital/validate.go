package orbital

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/AlbinSjoegren/SPV/pkg/astronomy/validation"
)

// Validate checks the preconditions under which the calculator produces
// finite output: a finite positive semi-major axis and period, 0 <= e < 1,
// and finite angles and epoch.
func Validate(el Elements) error {
	if !validation.IsFinite(el.Eccentricity) || el.Eccentricity < 0 || el.Eccentricity >= 1 {
		return errorsmod.Wrapf(validation.ErrInvalidEccentricity,
			"eccentricity must satisfy 0 <= e < 1 for a bound orbit, got %v", el.Eccentricity)
	}
	return validation.FirstError(
		validation.Positive(validation.ErrInvalidDistance, "semi-major axis", el.SemiMajorAxisAU),
		validation.Positive(validation.ErrInvalidPeriod, "period", el.PeriodYears),
		validation.Finite(validation.ErrInvalidPeriod, "time since periapsis", el.TimeSincePeriapsisYears),
		validation.Finite(validation.ErrInvalidAngle, "longitude of the ascending node", el.LongitudeOfAscendingNodeDeg),
		validation.Finite(validation.ErrInvalidAngle, "argument of periapsis", el.ArgumentOfPeriapsisDeg),
		validation.Finite(validation.ErrInvalidAngle, "inclination", el.InclinationDeg),
	)
}

// CheckedState validates el and then computes its reference-frame state.
func (c Calculator) CheckedState(el Elements) (State, error) {
	if err := Validate(el); err != nil {
		return State{}, err
	}
	return c.State(el), nil
}

// CheckedPlaneState validates el and then computes its perifocal state.
func (c Calculator) CheckedPlaneState(el Elements) (PlaneState, error) {
	if err := Validate(el); err != nil {
		return PlaneState{}, err
	}
	return c.PlaneState(el), nil
}
