// Package math holds the plain vector values used when results leave the
// numeric core: they carry lower-case JSON field names and convert to and
// from gonum's spatial types used by the calculators.
package math

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vector2 is an orbital-plane (perifocal) vector.
type Vector2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vector3 is a reference-frame vector.
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// FromR2 converts a gonum plane vector.
func FromR2(v r2.Vec) Vector2 { return Vector2{X: v.X, Y: v.Y} }

// FromR3 converts a gonum space vector.
func FromR3(v r3.Vec) Vector3 { return Vector3{X: v.X, Y: v.Y, Z: v.Z} }

// R2 returns v as a gonum plane vector.
func (v Vector2) R2() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

// R3 returns v as a gonum space vector.
func (v Vector3) R3() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// Magnitude returns the length of the vector
func (v Vector3) Magnitude() float64 { return r3.Norm(v.R3()) }

// Components returns the vector as a slice, in x, y, z order.
func (v Vector3) Components() []float64 { return []float64{v.X, v.Y, v.Z} }

// IsFinite reports whether no component is NaN or infinite.
func (v Vector2) IsFinite() bool {
	return finite(v.X) && finite(v.Y)
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vector3) IsFinite() bool {
	for _, c := range v.Components() {
		if !finite(c) {
			return false
		}
	}
	return true
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
