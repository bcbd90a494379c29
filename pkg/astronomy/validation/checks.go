package validation

import (
	"math"

	errorsmod "cosmossdk.io/errors"
)

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Finite returns err wrapped with the field name when x is NaN or infinite.
func Finite(err error, field string, x float64) error {
	if !IsFinite(x) {
		return errorsmod.Wrapf(err, "%s must be finite, got %v", field, x)
	}
	return nil
}

// Positive returns err wrapped with the field name unless x is finite and > 0.
func Positive(err error, field string, x float64) error {
	if !IsFinite(x) || x <= 0 {
		return errorsmod.Wrapf(err, "%s must be finite and positive, got %v", field, x)
	}
	return nil
}

// FirstError returns the first non-nil error.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
