package orbital

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/AlbinSjoegren/SPV/pkg/astronomy/kepler"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/units"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/validation"
)

// siriusB approximates the Sirius AB orbit (a in AU, P in years).
var siriusB = Elements{
	SemiMajorAxisAU:             19.8,
	Eccentricity:                0.5923,
	PeriodYears:                 50.13,
	TimeSincePeriapsisYears:     12.4,
	LongitudeOfAscendingNodeDeg: 45.4,
	ArgumentOfPeriapsisDeg:      149.2,
	InclinationDeg:              136.3,
}

var newton = Calculator{Solver: kepler.Solver{Method: kepler.Newton, MaxIterations: 50, Tolerance: 1e-15}}

func norm2(x, y float64) float64 { return x*x + y*y }

func TestCircularOrbitAtPeriapsis(t *testing.T) {
	pos := CompanionPosition(1, 0, 1, 0)
	assert.InDelta(t, units.AstronomicalUnit, pos.X, 1e-3)
	assert.InDelta(t, 0, pos.Y, 1e-3)

	vel := CompanionVelocity(1, 0, 1, 0)
	assert.InDelta(t, 0, vel.X, 1e-9)
	// 2π AU per Julian year.
	assert.InDelta(t, 2*math.Pi*units.AstronomicalUnit/units.JulianYear, vel.Y, 1e-6)
}

func TestApsides(t *testing.T) {
	a, e, period := 2.5, 0.4, 3.0
	aM := units.AUToMeters(a)

	peri := CompanionPosition(a, e, period, 0)
	assert.True(t, scalar.EqualWithinRel(aM*(1-e), peri.X, 1e-12), "periapsis x = %v", peri.X)
	assert.InDelta(t, 0, peri.Y, 1e-3)

	apo := CompanionPosition(a, e, period, period/2)
	assert.True(t, scalar.EqualWithinRel(-aM*(1+e), apo.X, 1e-12), "apoapsis x = %v", apo.X)
	assert.InDelta(t, 0, apo.Y, 1e-3)
}

func TestVisViva(t *testing.T) {
	for _, e := range []float64{0, 0.1, 0.3, 0.5, 0.7} {
		for _, frac := range []float64{0, 0.1, 0.25, 0.4, 0.5, 0.75, 0.9} {
			a, period := 19.8, 50.13
			tp := frac * period
			v := CompanionVelocity(a, e, period, tp)
			r := DefaultCalculator.Radius(a, e, period, tp)

			aM := units.AUToMeters(a)
			mu := StandardGravitationalParameter(aM, units.JulianYearsToSeconds(period))
			want := mu * (2/r - 1/aM)
			got := norm2(v.X, v.Y)
			assert.True(t, scalar.EqualWithinRel(want, got, 1e-12), "e=%v frac=%v: |v|²=%v want %v", e, frac, got, want)

			speed := DefaultCalculator.CompanionSpeed(a, e, period, tp)
			assert.True(t, scalar.EqualWithinRel(math.Sqrt(got), speed, 1e-12))
		}
	}
}

func TestRadiusMatchesPosition(t *testing.T) {
	p := CompanionPosition(siriusB.SemiMajorAxisAU, siriusB.Eccentricity, siriusB.PeriodYears, siriusB.TimeSincePeriapsisYears)
	r := DefaultCalculator.Radius(siriusB.SemiMajorAxisAU, siriusB.Eccentricity, siriusB.PeriodYears, siriusB.TimeSincePeriapsisYears)
	assert.True(t, scalar.EqualWithinRel(math.Hypot(p.X, p.Y), r, 1e-14))
}

func TestIdempotent(t *testing.T) {
	el := siriusB
	p1 := CompanionRelativePosition(el.SemiMajorAxisAU, el.Eccentricity, el.PeriodYears, el.TimeSincePeriapsisYears,
		el.LongitudeOfAscendingNodeDeg, el.ArgumentOfPeriapsisDeg, el.InclinationDeg)
	p2 := CompanionRelativePosition(el.SemiMajorAxisAU, el.Eccentricity, el.PeriodYears, el.TimeSincePeriapsisYears,
		el.LongitudeOfAscendingNodeDeg, el.ArgumentOfPeriapsisDeg, el.InclinationDeg)
	assert.Equal(t, p1, p2)

	v1 := CompanionPosition(el.SemiMajorAxisAU, el.Eccentricity, el.PeriodYears, el.TimeSincePeriapsisYears)
	v2 := CompanionPosition(el.SemiMajorAxisAU, el.Eccentricity, el.PeriodYears, el.TimeSincePeriapsisYears)
	assert.Equal(t, math.Float64bits(v1.X), math.Float64bits(v2.X))
	assert.Equal(t, math.Float64bits(v1.Y), math.Float64bits(v2.Y))
}

func TestRelativeStateMatchesPackageFunctions(t *testing.T) {
	el := siriusB
	s := DefaultCalculator.State(el)
	pos := CompanionRelativePosition(el.SemiMajorAxisAU, el.Eccentricity, el.PeriodYears, el.TimeSincePeriapsisYears,
		el.LongitudeOfAscendingNodeDeg, el.ArgumentOfPeriapsisDeg, el.InclinationDeg)
	vel := CompanionRelativeVelocity(el.SemiMajorAxisAU, el.Eccentricity, el.PeriodYears, el.TimeSincePeriapsisYears,
		el.LongitudeOfAscendingNodeDeg, el.ArgumentOfPeriapsisDeg, el.InclinationDeg)
	assert.Equal(t, pos, s.Position)
	assert.Equal(t, vel, s.Velocity)

	ps := DefaultCalculator.PlaneState(el)
	assert.True(t, scalar.EqualWithinRel(math.Hypot(ps.Position.X, ps.Position.Y), r3.Norm(s.Position), 1e-13))
	assert.True(t, scalar.EqualWithinRel(math.Hypot(ps.Velocity.X, ps.Velocity.Y), r3.Norm(s.Velocity), 1e-13))
}

func TestAngularMomentumIsConserved(t *testing.T) {
	el := siriusB
	d := el.Derived()
	normal := el.Rotation().Z

	for _, tp := range []float64{0, 3, 11.1, 25, 49} {
		h := DefaultCalculator.SpecificAngularMomentumVector(el.SemiMajorAxisAU, el.Eccentricity, el.PeriodYears, tp,
			el.LongitudeOfAscendingNodeDeg, el.ArgumentOfPeriapsisDeg, el.InclinationDeg)
		assert.True(t, scalar.EqualWithinRel(d.SpecificAngularMomentum, r3.Norm(h), 1e-12), "t_p=%v", tp)
		assert.InDelta(t, 1, r3.Dot(r3.Unit(h), normal), 1e-12, "t_p=%v", tp)
	}
}

func TestFlightPathAngle(t *testing.T) {
	assert.InDelta(t, 0, DefaultCalculator.FlightPathAngle(0, 1, 0.3), 1e-12)
	assert.InDelta(t, 0, DefaultCalculator.FlightPathAngle(0.6, 1, 0), 1e-12)

	// Compare with the angle between r and v at an arbitrary epoch.
	el := siriusB
	ps := newton.PlaneState(el)
	rv := ps.Position.X*ps.Velocity.X + ps.Position.Y*ps.Velocity.Y
	r := math.Hypot(ps.Position.X, ps.Position.Y)
	v := math.Hypot(ps.Velocity.X, ps.Velocity.Y)
	want := units.Degrees(math.Asin(rv / (r * v)))
	got := newton.FlightPathAngle(el.Eccentricity, el.PeriodYears, el.TimeSincePeriapsisYears)
	assert.InDelta(t, want, got, 1e-9)
}

func TestRelativeApsides(t *testing.T) {
	el := siriusB
	peri := el.RelativePerigee()
	apo := el.RelativeApogee()
	d := el.Derived()
	assert.True(t, scalar.EqualWithinRel(d.Perigee, r3.Norm(peri), 1e-14))
	assert.True(t, scalar.EqualWithinRel(d.Apogee, r3.Norm(apo), 1e-14))
	assert.InDelta(t, -1, r3.Dot(r3.Unit(peri), r3.Unit(apo)), 1e-14)

	// Periapsis is where the companion sits at t_p = 0.
	at := DefaultCalculator.State(Elements{
		SemiMajorAxisAU:             el.SemiMajorAxisAU,
		Eccentricity:                el.Eccentricity,
		PeriodYears:                 el.PeriodYears,
		LongitudeOfAscendingNodeDeg: el.LongitudeOfAscendingNodeDeg,
		ArgumentOfPeriapsisDeg:      el.ArgumentOfPeriapsisDeg,
		InclinationDeg:              el.InclinationDeg,
	})
	assert.InDelta(t, 0, r3.Norm(r3.Sub(at.Position, peri))/d.Perigee, 1e-12)
}

func TestFromStateRoundTrip(t *testing.T) {
	el := Elements{
		SemiMajorAxisAU:             3.2,
		Eccentricity:                0.3,
		PeriodYears:                 5.1,
		TimeSincePeriapsisYears:     0.2 * 5.1,
		LongitudeOfAscendingNodeDeg: 40,
		ArgumentOfPeriapsisDeg:      60,
		InclinationDeg:              30,
	}
	s := newton.State(el)
	d := el.Derived()
	got := FromState(s, d.StandardGravitationalParameter)

	assert.True(t, scalar.EqualWithinRel(d.SemiMajorAxis, got.SemiMajorAxis, 1e-9))
	assert.InDelta(t, el.Eccentricity, got.Eccentricity, 1e-9)
	assert.InDelta(t, el.InclinationDeg, got.InclinationDeg, 1e-7)
	assert.InDelta(t, el.LongitudeOfAscendingNodeDeg, got.LongitudeOfAscendingNodeDeg, 1e-7)
	assert.InDelta(t, el.ArgumentOfPeriapsisDeg, got.ArgumentOfPeriapsisDeg, 1e-7)

	nu := newton.Anomalies(el).True
	assert.InDelta(t, units.Degrees(nu), got.TrueAnomalyDeg, 1e-7)
}

func TestOutOfDomainPropagatesNaN(t *testing.T) {
	p := CompanionPosition(1, 1.2, 1, 0.3)
	assert.True(t, math.IsNaN(p.X) || math.IsInf(p.X, 0))
	v := CompanionVelocity(1, 0.2, 0, 0)
	assert.True(t, math.IsNaN(v.X) || math.IsNaN(v.Y))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(siriusB))

	tests := []struct {
		name  string
		apply func(*Elements)
		want  error
	}{
		{"hyperbolic", func(el *Elements) { el.Eccentricity = 1.2 }, validation.ErrInvalidEccentricity},
		{"parabolic", func(el *Elements) { el.Eccentricity = 1 }, validation.ErrInvalidEccentricity},
		{"negative e", func(el *Elements) { el.Eccentricity = -0.1 }, validation.ErrInvalidEccentricity},
		{"nan e", func(el *Elements) { el.Eccentricity = math.NaN() }, validation.ErrInvalidEccentricity},
		{"zero period", func(el *Elements) { el.PeriodYears = 0 }, validation.ErrInvalidPeriod},
		{"inf epoch", func(el *Elements) { el.TimeSincePeriapsisYears = math.Inf(1) }, validation.ErrInvalidPeriod},
		{"zero a", func(el *Elements) { el.SemiMajorAxisAU = 0 }, validation.ErrInvalidDistance},
		{"nan inclination", func(el *Elements) { el.InclinationDeg = math.NaN() }, validation.ErrInvalidAngle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := siriusB
			tt.apply(&el)
			err := Validate(el)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			_, err = DefaultCalculator.CheckedState(el)
			assert.ErrorIs(t, err, tt.want)
			_, err = DefaultCalculator.CheckedPlaneState(el)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCheckedStateMatchesState(t *testing.T) {
	s, err := DefaultCalculator.CheckedState(siriusB)
	require.NoError(t, err)
	assert.Equal(t, DefaultCalculator.State(siriusB), s)
}
