// Package kepler reduces time since periapsis to mean, eccentric and true
// anomaly for a bound elliptical orbit.
//
// The default Solver performs exactly DefaultMaxIterations fixed-point steps
// E = M + e·sin(E) without a convergence test. For eccentricities close to 1
// the fixed-point iteration converges slowly and the returned anomaly may be
// noticeably off after 20 steps; Solution.Converged and a non-zero Tolerance,
// or the Newton method, expose and reduce that error.
package kepler

import (
	"fmt"
	"math"

	"github.com/AlbinSjoegren/SPV/pkg/astronomy/units"
)

// DefaultMaxIterations is the iteration count of the default solver.
const DefaultMaxIterations = 20

// Method selects the iteration used to solve M = E - e·sin(E).
type Method int

const (
	// FixedPoint iterates E_{k+1} = M + e·sin(E_k) starting from E_0 = M.
	FixedPoint Method = iota
	// Newton applies Newton-Raphson steps to f(E) = E - e·sin(E) - M.
	Newton
)

func (m Method) String() string {
	switch m {
	case FixedPoint:
		return "fixed-point"
	case Newton:
		return "newton"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps a method name as written in configuration to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "fixed-point", "fixed_point", "fixedpoint":
		return FixedPoint, nil
	case "newton", "newton-raphson":
		return Newton, nil
	}
	return FixedPoint, fmt.Errorf("unknown kepler method %q", s)
}

// Solver is an immutable solver configuration. The zero value behaves like
// DefaultSolver.
type Solver struct {
	Method Method
	// MaxIterations caps the number of steps; values <= 0 mean
	// DefaultMaxIterations.
	MaxIterations int
	// Tolerance stops iteration once |E_{k+1} - E_k| <= Tolerance. Zero
	// disables the early exit so exactly MaxIterations steps run.
	Tolerance float64
}

// DefaultSolver runs 20 fixed-point steps with no early exit.
var DefaultSolver = Solver{Method: FixedPoint, MaxIterations: DefaultMaxIterations}

// Solution is the outcome of one solve.
type Solution struct {
	Mean      float64 // M, radians
	Eccentric float64 // E, radians
	True      float64 // ν, radians in (-π, π]
	// Iterations is the number of steps actually taken.
	Iterations int
	// Converged reports whether the last step met Tolerance. It is always
	// false when Tolerance is zero.
	Converged bool
}

func (s Solver) maxIterations() int {
	if s.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return s.MaxIterations
}

// Solve solves Kepler's equation for eccentricity e and mean anomaly m
// (radians). Out-of-domain input (e >= 1, NaN) propagates through IEEE-754
// arithmetic; nothing panics.
func (s Solver) Solve(e, m float64) Solution {
	sol := Solution{Mean: m}
	ecc := m
	if s.Method == Newton {
		// Danby's starter keeps Newton stable for e close to 1.
		ecc = m + 0.85*e*sign(math.Sin(m))
	}
	n := s.maxIterations()

	for sol.Iterations < n {
		var next float64
		switch s.Method {
		case Newton:
			f := ecc - e*math.Sin(ecc) - m
			fp := 1 - e*math.Cos(ecc)
			next = ecc - f/fp
		default:
			next = m + e*math.Sin(ecc)
		}
		delta := math.Abs(next - ecc)
		ecc = next
		sol.Iterations++

		if s.Tolerance > 0 && delta <= s.Tolerance {
			sol.Converged = true
			break
		}
	}

	sol.Eccentric = ecc
	sol.True = TrueFromEccentric(e, ecc)
	return sol
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Anomalies converts a period and a time since periapsis (both in Julian
// years) to a mean anomaly and solves for the remaining anomalies.
func (s Solver) Anomalies(e, periodYears, tpYears float64) Solution {
	return s.Solve(e, MeanAnomaly(periodYears, tpYears))
}

// EccentricAnomaly returns E in radians.
func (s Solver) EccentricAnomaly(e, periodYears, tpYears float64) float64 {
	return s.Anomalies(e, periodYears, tpYears).Eccentric
}

// TrueAnomaly returns ν in radians.
func (s Solver) TrueAnomaly(e, periodYears, tpYears float64) float64 {
	return s.Anomalies(e, periodYears, tpYears).True
}

// MeanAnomaly returns M = 2π·t_p/P in radians. Both arguments are converted
// to seconds first so that M is computed in SI, matching every other
// quantity in this module.
func MeanAnomaly(periodYears, tpYears float64) float64 {
	p := units.JulianYearsToSeconds(periodYears)
	tp := units.JulianYearsToSeconds(tpYears)
	return 2 * math.Pi * tp / p
}

// TrueFromEccentric returns ν = 2·atan(sqrt((1+e)/(1-e))·tan(E/2)).
func TrueFromEccentric(e, ecc float64) float64 {
	return 2 * math.Atan(math.Sqrt((1+e)/(1-e))*math.Tan(ecc/2))
}

// EccentricAnomaly solves with DefaultSolver.
func EccentricAnomaly(e, periodYears, tpYears float64) float64 {
	return DefaultSolver.EccentricAnomaly(e, periodYears, tpYears)
}

// TrueAnomaly solves with DefaultSolver.
func TrueAnomaly(e, periodYears, tpYears float64) float64 {
	return DefaultSolver.TrueAnomaly(e, periodYears, tpYears)
}
