package astrometry

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/AlbinSjoegren/SPV/pkg/astronomy/validation"
)

// Validate checks that o yields a finite state. The parallax must be finite
// and non-zero; every other field must be finite.
func Validate(o Observation) error {
	if !validation.IsFinite(o.ParallaxMas) || o.ParallaxMas == 0 {
		return errorsmod.Wrapf(validation.ErrInvalidParallax,
			"parallax must be finite and non-zero, got %v mas", o.ParallaxMas)
	}
	return validation.FirstError(
		validation.Finite(validation.ErrInvalidAngle, "right ascension", o.RightAscensionDeg),
		validation.Finite(validation.ErrInvalidAngle, "declination", o.DeclinationDeg),
		validation.Finite(validation.ErrInvalidVelocity, "proper motion in right ascension", o.ProperMotionRAArcsecPerYr),
		validation.Finite(validation.ErrInvalidVelocity, "proper motion in declination", o.ProperMotionDecArcsecPerYr),
		validation.Finite(validation.ErrInvalidVelocity, "radial velocity", o.RadialVelocityKmS),
	)
}

// CheckedState validates o and then computes its state.
func (o Observation) CheckedState() (State, error) {
	if err := Validate(o); err != nil {
		return State{}, err
	}
	return o.State(), nil
}
