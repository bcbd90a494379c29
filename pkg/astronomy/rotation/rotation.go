// Package rotation builds the direction-cosine matrix that carries perifocal
// (orbital-plane) coordinates into the reference frame defined by the
// longitude of the ascending node Ω, the argument of periapsis ω and the
// inclination i.
package rotation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/AlbinSjoegren/SPV/pkg/astronomy/units"
)

// Matrix is an immutable 3x3 rotation stored by columns. Column X is the
// periapsis direction, Y lies in the orbital plane 90° ahead of it and Z is
// the orbit normal, all expressed in the reference frame.
type Matrix struct {
	X, Y, Z r3.Vec
}

// Identity maps every vector to itself.
var Identity = Matrix{
	X: r3.Vec{X: 1},
	Y: r3.Vec{Y: 1},
	Z: r3.Vec{Z: 1},
}

// EulerAngleTransformation returns the 3-1-3 orbital-element rotation for
// Ω, ω and i given in degrees.
func EulerAngleTransformation(lotnDeg, aopDeg, inclinationDeg float64) Matrix {
	return FromRadians(units.Radians(lotnDeg), units.Radians(aopDeg), units.Radians(inclinationDeg))
}

// FromRadians is EulerAngleTransformation with angles already in radians.
func FromRadians(lotn, aop, inc float64) Matrix {
	sΩ, cΩ := math.Sincos(lotn)
	sω, cω := math.Sincos(aop)
	si, ci := math.Sincos(inc)

	return Matrix{
		X: r3.Vec{
			X: cΩ*cω - sΩ*ci*sω,
			Y: sΩ*cω + cΩ*ci*sω,
			Z: si * sω,
		},
		Y: r3.Vec{
			X: -cΩ*sω - sΩ*ci*cω,
			Y: -sΩ*sω + cΩ*ci*cω,
			Z: si * cω,
		},
		Z: r3.Vec{
			X: si * sΩ,
			Y: -si * cΩ,
			Z: ci,
		},
	}
}

// Col returns column j (0, 1 or 2).
func (m Matrix) Col(j int) r3.Vec {
	switch j {
	case 0:
		return m.X
	case 1:
		return m.Y
	case 2:
		return m.Z
	}
	panic(fmt.Sprintf("rotation: column index %d out of range", j))
}

// At returns the element in row i, column j.
func (m Matrix) At(i, j int) float64 {
	c := m.Col(j)
	switch i {
	case 0:
		return c.X
	case 1:
		return c.Y
	case 2:
		return c.Z
	}
	panic(fmt.Sprintf("rotation: row index %d out of range", i))
}

// Apply rotates v.
func (m Matrix) Apply(v r3.Vec) r3.Vec {
	return r3.Add(r3.Add(r3.Scale(v.X, m.X), r3.Scale(v.Y, m.Y)), r3.Scale(v.Z, m.Z))
}

// ApplyPlane rotates an orbital-plane vector, which only involves the first
// two columns.
func (m Matrix) ApplyPlane(v r2.Vec) r3.Vec {
	return r3.Add(r3.Scale(v.X, m.X), r3.Scale(v.Y, m.Y))
}

// Transpose returns the inverse rotation.
func (m Matrix) Transpose() Matrix {
	return Matrix{
		X: r3.Vec{X: m.X.X, Y: m.Y.X, Z: m.Z.X},
		Y: r3.Vec{X: m.X.Y, Y: m.Y.Y, Z: m.Z.Y},
		Z: r3.Vec{X: m.X.Z, Y: m.Y.Z, Z: m.Z.Z},
	}
}

// Dense returns a freshly allocated gonum copy of m.
func (m Matrix) Dense() *mat.Dense {
	return mat.NewDense(3, 3, m.RowMajor())
}

// RowMajor returns the nine elements row by row.
func (m Matrix) RowMajor() []float64 {
	return []float64{
		m.X.X, m.Y.X, m.Z.X,
		m.X.Y, m.Y.Y, m.Z.Y,
		m.X.Z, m.Y.Z, m.Z.Z,
	}
}

// Columns returns the three columns, matching the column-major layout that
// the calculator exports.
func (m Matrix) Columns() [3]r3.Vec {
	return [3]r3.Vec{m.X, m.Y, m.Z}
}
