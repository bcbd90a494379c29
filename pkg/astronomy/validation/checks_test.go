package validation

import (
	"errors"
	"math"
	"testing"

	errorsmod "cosmossdk.io/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinite(t *testing.T) {
	assert.NoError(t, Finite(ErrInvalidAngle, "ra", 12.5))
	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := Finite(ErrInvalidAngle, "ra", x)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidAngle))
		assert.Contains(t, err.Error(), "ra must be finite")
	}
}

func TestPositive(t *testing.T) {
	assert.NoError(t, Positive(ErrInvalidPeriod, "period", 1e-9))
	for _, x := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := Positive(ErrInvalidPeriod, "period", x)
		require.Error(t, err, "x=%v", x)
		assert.True(t, errorsmod.IsOf(err, ErrInvalidPeriod))
		assert.False(t, errors.Is(err, ErrInvalidAngle))
	}
}

func TestFirstError(t *testing.T) {
	assert.NoError(t, FirstError(nil, nil))
	assert.Equal(t, ErrInvalidRecord, FirstError(nil, ErrInvalidRecord, ErrInvalidConfig))
}

func TestRegisteredCodes(t *testing.T) {
	assert.Equal(t, Codespace, ErrInvalidParallax.Codespace())
	assert.NotEqual(t, ErrInvalidParallax.ABCICode(), ErrInvalidEccentricity.ABCICode())
}

func TestNonFiniteResultCode(t *testing.T) {
	assert.Equal(t, Codespace, ErrNonFiniteResult.Codespace())
	assert.Equal(t, uint32(10), ErrNonFiniteResult.ABCICode())
}
