// Package validation holds the domain errors returned by the optional
// validating wrappers around the numeric calculators, and the small checks
// they share. The calculators themselves never return errors: out-of-domain
// input propagates as NaN or Inf.
package validation

import (
	errorsmod "cosmossdk.io/errors"
)

// Codespace groups every error registered by this module.
const Codespace = "spv"

var (
	ErrInvalidParallax     = errorsmod.Register(Codespace, 2, "invalid parallax")
	ErrInvalidEccentricity = errorsmod.Register(Codespace, 3, "invalid eccentricity")
	ErrInvalidPeriod       = errorsmod.Register(Codespace, 4, "invalid period")
	ErrInvalidAngle        = errorsmod.Register(Codespace, 5, "invalid angle")
	ErrInvalidDistance     = errorsmod.Register(Codespace, 6, "invalid distance")
	ErrInvalidVelocity     = errorsmod.Register(Codespace, 7, "invalid velocity")
	ErrInvalidRecord       = errorsmod.Register(Codespace, 8, "invalid record")
	ErrInvalidConfig       = errorsmod.Register(Codespace, 9, "invalid config")
	ErrNonFiniteResult     = errorsmod.Register(Codespace, 10, "result is not finite")
)
