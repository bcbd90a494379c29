package orbital

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/AlbinSjoegren/SPV/pkg/astronomy/units"
)

const degenerateε = 1e-10

// Osculating holds the elements recovered from a single state vector.
type Osculating struct {
	SemiMajorAxis               float64 // m
	Eccentricity                float64
	InclinationDeg              float64
	LongitudeOfAscendingNodeDeg float64
	ArgumentOfPeriapsisDeg      float64
	TrueAnomalyDeg              float64
}

// FromState recovers the osculating elements of s about a body with
// gravitational parameter mu (m³/s²). For equatorial orbits the node is
// undefined and reported as 0; for circular orbits the argument of
// periapsis is 0 and the true anomaly is measured from the node.
func FromState(s State, mu float64) Osculating {
	pos, vel := s.Position, s.Velocity
	r := r3.Norm(pos)
	v := r3.Norm(vel)

	h := r3.Cross(pos, vel)
	eVec := r3.Sub(r3.Scale(1/mu, r3.Cross(vel, h)), r3.Scale(1/r, pos))
	e := r3.Norm(eVec)

	a := 1 / (2/r - v*v/mu)
	inc := math.Acos(h.Z / r3.Norm(h))

	n := r3.Cross(r3.Vec{Z: 1}, h)
	nNorm := r3.Norm(n)

	lotn := 0.0
	if nNorm > degenerateε {
		lotn = math.Atan2(n.Y, n.X)
		if lotn < 0 {
			lotn += 2 * math.Pi
		}
	}

	aop := 0.0
	if nNorm > degenerateε && e > degenerateε {
		aop = angleBetween(n, eVec)
		if eVec.Z < 0 {
			aop = 2*math.Pi - aop
		}
	}

	var nu float64
	switch {
	case e > degenerateε:
		nu = angleBetween(eVec, pos)
		if r3.Dot(pos, vel) < 0 {
			nu = 2*math.Pi - nu
		}
	case nNorm > degenerateε:
		nu = angleBetween(n, pos)
		if pos.Z < 0 {
			nu = 2*math.Pi - nu
		}
	default:
		nu = math.Atan2(pos.Y, pos.X)
	}

	return Osculating{
		SemiMajorAxis:               a,
		Eccentricity:                e,
		InclinationDeg:              units.Degrees(inc),
		LongitudeOfAscendingNodeDeg: units.Degrees(lotn),
		ArgumentOfPeriapsisDeg:      units.Degrees(aop),
		TrueAnomalyDeg:              units.Degrees(nu),
	}
}

func angleBetween(u, w r3.Vec) float64 {
	c := r3.Dot(u, w) / (r3.Norm(u) * r3.Norm(w))
	return math.Acos(math.Max(-1, math.Min(1, c)))
}
