package types

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	astromath "github.com/AlbinSjoegren/SPV/pkg/astronomy/math"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/rotation"
)

// Quantity names one calculator output. The value doubles as the file stem
// used by the exporters.
type Quantity string

const (
	QuantityPosition                  Quantity = "position"
	QuantityVelocity                  Quantity = "velocity"
	QuantityEulerAngleTransformations Quantity = "euler_angle_transformations"
	QuantityCompanionPosition         Quantity = "companion_position"
	QuantityCompanionVelocity         Quantity = "companion_velocity"
	QuantityCompanionRelativePosition Quantity = "companion_relative_position"
	QuantityCompanionRelativeVelocity Quantity = "companion_relative_velocity"
	QuantityDerived                   Quantity = "derived"
	QuantitySpecificAngularMomentum   Quantity = "specific_angular_momentum"
	QuantityRelativePerigee           Quantity = "relative_perigee"
	QuantityRelativeApogee            Quantity = "relative_apogee"
)

// Matrix is a rotation matrix in export form, stored by columns.
type Matrix struct {
	X astromath.Vector3 `json:"x"`
	Y astromath.Vector3 `json:"y"`
	Z astromath.Vector3 `json:"z"`
}

// Result is one named calculator output ready for export. Value holds one
// of astromath.Vector2, astromath.Vector3, Matrix or map[string]float64.
type Result struct {
	Quantity Quantity `json:"quantity"`
	Unit     string   `json:"unit,omitempty"`
	Value    any      `json:"value"`
}

// Row is one line of tabular output.
type Row struct {
	Label  string
	Values []float64
}

// NewPlaneResult wraps an orbital-plane vector.
func NewPlaneResult(q Quantity, unit string, v r2.Vec) Result {
	return Result{Quantity: q, Unit: unit, Value: astromath.FromR2(v)}
}

// NewVectorResult wraps a reference-frame vector.
func NewVectorResult(q Quantity, unit string, v r3.Vec) Result {
	return Result{Quantity: q, Unit: unit, Value: astromath.FromR3(v)}
}

// NewMatrixResult wraps a rotation matrix.
func NewMatrixResult(q Quantity, m rotation.Matrix) Result {
	return Result{Quantity: q, Value: Matrix{
		X: astromath.FromR3(m.X),
		Y: astromath.FromR3(m.Y),
		Z: astromath.FromR3(m.Z),
	}}
}

// NewScalarsResult wraps named scalars.
func NewScalarsResult(q Quantity, scalars map[string]float64) Result {
	return Result{Quantity: q, Value: scalars}
}

// IsFinite reports whether every number in the value is finite. Values of
// an unknown type are not finite.
func (r Result) IsFinite() bool {
	switch v := r.Value.(type) {
	case astromath.Vector2:
		return v.IsFinite()
	case astromath.Vector3:
		return v.IsFinite()
	case Matrix:
		return v.X.IsFinite() && v.Y.IsFinite() && v.Z.IsFinite()
	case map[string]float64:
		for _, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return false
			}
		}
		return true
	}
	return false
}

// Rows flattens the value for text and CSV output.
func (r Result) Rows() ([]Row, error) {
	switch v := r.Value.(type) {
	case astromath.Vector2:
		return []Row{{Values: []float64{v.X, v.Y}}}, nil
	case astromath.Vector3:
		return []Row{{Values: v.Components()}}, nil
	case Matrix:
		return []Row{
			{Label: "x", Values: v.X.Components()},
			{Label: "y", Values: v.Y.Components()},
			{Label: "z", Values: v.Z.Components()},
		}, nil
	case map[string]float64:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rows := make([]Row, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, Row{Label: k, Values: []float64{v[k]}})
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported result value %T for %s", r.Value, r.Quantity)
	}
}

// StarRecord is one input row of the batch pipeline, in catalogue units.
type StarRecord struct {
	Line              int     `json:"line"`
	HIP               uint32  `json:"hip"`
	Name              string  `json:"name"`
	RightAscensionDeg float64 `json:"ra_j2000"`
	DeclinationDeg    float64 `json:"dec_j2000"`
	ProperMotionRA    float64 `json:"pm_ra_j2000"`
	ProperMotionDec   float64 `json:"pm_dec_j2000"`
	ParallaxMas       float64 `json:"plx_j2000"`
	RadialVelocityKmS float64 `json:"rv_j2000"`
	VisualMagnitude   float64 `json:"vmag_j2000"`
}

// StarState is one output row of the batch pipeline.
type StarState struct {
	HIP      uint32            `json:"hip"`
	Name     string            `json:"name"`
	Position astromath.Vector3 `json:"position"`
	Velocity astromath.Vector3 `json:"velocity"`
}

// BatchSummary describes one batch run.
type BatchSummary struct {
	Input          string        `json:"input"`
	Output         string        `json:"output"`
	RowsRead       int           `json:"rows_read"`
	RowsWritten    int           `json:"rows_written"`
	RowsSkipped    int           `json:"rows_skipped"`
	MeanDistancePc float64       `json:"mean_distance_pc"`
	StdDistancePc  float64       `json:"std_distance_pc"`
	MeanSpeedKmS   float64       `json:"mean_speed_km_s"`
	StdSpeedKmS    float64       `json:"std_speed_km_s"`
	Duration       time.Duration `json:"duration"`
}
