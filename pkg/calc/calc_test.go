package calc

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/AlbinSjoegren/SPV/internal/metrics"
	"github.com/AlbinSjoegren/SPV/internal/types"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/astrometry"
	astromath "github.com/AlbinSjoegren/SPV/pkg/astronomy/math"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/kepler"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/orbital"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/units"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/validation"
)

var (
	calculator = New(kepler.DefaultSolver)

	sirius = orbital.Elements{
		SemiMajorAxisAU:             19.8,
		Eccentricity:                0.5923,
		PeriodYears:                 50.13,
		TimeSincePeriapsisYears:     12.4,
		LongitudeOfAscendingNodeDeg: 45.4,
		ArgumentOfPeriapsisDeg:      149.2,
		InclinationDeg:              136.3,
	}
)

func TestPosition(t *testing.T) {
	before := testutil.ToFloat64(metrics.Calculations(string(types.QuantityPosition)))

	results, err := calculator.Position(astrometry.Observation{ParallaxMas: 1000})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.QuantityPosition, results[0].Quantity)
	assert.Equal(t, "m", results[0].Unit)

	v := results[0].Value.(astromath.Vector3)
	assert.True(t, scalar.EqualWithinRel(units.Parsec, v.X, 1e-12))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.Calculations(string(types.QuantityPosition))))
}

func TestPositionIgnoresVelocityFields(t *testing.T) {
	_, err := calculator.Position(astrometry.Observation{ParallaxMas: 10, RadialVelocityKmS: nan()})
	assert.NoError(t, err)

	_, err = calculator.Velocity(astrometry.Observation{ParallaxMas: 10, RadialVelocityKmS: nan()})
	assert.ErrorIs(t, err, validation.ErrInvalidVelocity)
}

func TestPositionRejectsZeroParallax(t *testing.T) {
	_, err := calculator.Position(astrometry.Observation{})
	assert.ErrorIs(t, err, validation.ErrInvalidParallax)
}

func TestRejectsNonFiniteResults(t *testing.T) {
	before := testutil.ToFloat64(metrics.Calculations(string(types.QuantityDerived)))

	// A parallax this small passes validation but the distance overflows.
	_, err := calculator.Position(astrometry.Observation{ParallaxMas: 1e-320})
	assert.ErrorIs(t, err, validation.ErrNonFiniteResult)

	// a³ underflows to zero, so μ is zero and the mean motion is 0/0.
	el := sirius
	el.SemiMajorAxisAU = 1e-200
	_, err = calculator.Derived(el)
	assert.ErrorIs(t, err, validation.ErrNonFiniteResult)

	assert.Equal(t, before, testutil.ToFloat64(metrics.Calculations(string(types.QuantityDerived))))
}

func TestRotation(t *testing.T) {
	results, err := calculator.Rotation(Angles{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	m := results[0].Value.(types.Matrix)
	assert.InDelta(t, 1, m.X.X, 1e-15)
	assert.InDelta(t, 1, m.Y.Y, 1e-15)
	assert.InDelta(t, 1, m.Z.Z, 1e-15)

	_, err = calculator.Rotation(Angles{InclinationDeg: nan()})
	assert.ErrorIs(t, err, validation.ErrInvalidAngle)
}

func TestCompanion(t *testing.T) {
	results, err := calculator.Companion(sirius)
	require.NoError(t, err)

	got := make([]types.Quantity, len(results))
	for i, r := range results {
		got[i] = r.Quantity
	}
	assert.Equal(t, []types.Quantity{
		types.QuantityCompanionPosition,
		types.QuantityCompanionVelocity,
		types.QuantityCompanionRelativePosition,
		types.QuantityCompanionRelativeVelocity,
	}, got)

	plane := results[0].Value.(astromath.Vector2)
	rel := results[2].Value.(astromath.Vector3)
	assert.True(t, scalar.EqualWithinRel(math.Hypot(plane.X, plane.Y), rel.Magnitude(), 1e-12))

	want := orbital.CompanionPosition(sirius.SemiMajorAxisAU, sirius.Eccentricity, sirius.PeriodYears, sirius.TimeSincePeriapsisYears)
	assert.Equal(t, astromath.FromR2(want), plane)
}

func TestCompanionRejectsUnboundOrbit(t *testing.T) {
	el := sirius
	el.Eccentricity = 1
	_, err := calculator.Companion(el)
	assert.ErrorIs(t, err, validation.ErrInvalidEccentricity)
}

func TestDerived(t *testing.T) {
	results, err := calculator.Derived(sirius)
	require.NoError(t, err)
	require.Len(t, results, 4)

	scalars := results[0].Value.(map[string]float64)
	for _, k := range []string{"perigee_m", "radius_m", "speed_m_s", "true_anomaly_rad", "flight_path_angle_deg"} {
		assert.Contains(t, scalars, k)
	}
	assert.GreaterOrEqual(t, scalars["radius_m"], scalars["perigee_m"])
	assert.LessOrEqual(t, scalars["radius_m"], scalars["apogee_m"])

	h := results[1].Value.(astromath.Vector3)
	assert.True(t, scalar.EqualWithinRel(scalars["specific_angular_momentum_m2_s"], h.Magnitude(), 1e-9))

	perigee := results[2].Value.(astromath.Vector3)
	apogee := results[3].Value.(astromath.Vector3)
	assert.True(t, scalar.EqualWithinRel(scalars["perigee_m"], perigee.Magnitude(), 1e-12))
	assert.True(t, scalar.EqualWithinRel(scalars["apogee_m"], apogee.Magnitude(), 1e-12))
}

func TestSelect(t *testing.T) {
	results, err := calculator.Companion(sirius)
	require.NoError(t, err)

	sel := Select(results, types.QuantityCompanionRelativeVelocity, types.QuantityCompanionPosition)
	require.Len(t, sel, 2)
	assert.Equal(t, types.QuantityCompanionRelativeVelocity, sel[0].Quantity)
	assert.Equal(t, types.QuantityCompanionPosition, sel[1].Quantity)
}

func nan() float64 { return math.NaN() }
