// Package astrometry turns catalogue astrometry (parallax, right ascension,
// declination, proper motion, radial velocity) into a Cartesian position and
// velocity relative to the observer.
//
// Positions use a spherical convention with colatitude dec+90°, so the
// declination +90° pole lies on -z.
//
// The transverse velocity is approximated linearly. It is the displacement
// after one Julian year of proper motion, with proper motion added directly
// to the right ascension and declination, divided by the year. The error grows
// with the proper motion and is not bounded here.
package astrometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/AlbinSjoegren/SPV/pkg/astronomy/units"
)

// Observation is a catalogue entry in catalogue units.
type Observation struct {
	ParallaxMas                float64 `json:"parallax_mas" yaml:"parallax_mas" mapstructure:"parallax_mas"`
	RightAscensionDeg          float64 `json:"ra_deg" yaml:"ra_deg" mapstructure:"ra_deg"`
	DeclinationDeg             float64 `json:"dec_deg" yaml:"dec_deg" mapstructure:"dec_deg"`
	ProperMotionRAArcsecPerYr  float64 `json:"pm_ra_arcsec_per_yr" yaml:"pm_ra_arcsec_per_yr" mapstructure:"pm_ra_arcsec_per_yr"`
	ProperMotionDecArcsecPerYr float64 `json:"pm_dec_arcsec_per_yr" yaml:"pm_dec_arcsec_per_yr" mapstructure:"pm_dec_arcsec_per_yr"`
	RadialVelocityKmS          float64 `json:"radial_velocity_km_s" yaml:"radial_velocity_km_s" mapstructure:"radial_velocity_km_s"`
}

// State is a position (m) and velocity (m/s) relative to the observer.
type State struct {
	Position r3.Vec
	Velocity r3.Vec
}

// PositionSurface places a point at radius (m) in the direction given by
// right ascension and declination (degrees).
func PositionSurface(radius, raDeg, decDeg float64) r3.Vec {
	sRA, cRA := math.Sincos(units.Radians(raDeg))
	sDec, cDec := math.Sincos(units.Radians(decDeg + 90))
	return r3.Vec{
		X: radius * cRA * sDec,
		Y: radius * sRA * sDec,
		Z: radius * cDec,
	}
}

// Position returns the target position in meters for a parallax in
// milliarcseconds and right ascension and declination in degrees.
func Position(parallaxMas, raDeg, decDeg float64) r3.Vec {
	return PositionSurface(units.ParallaxToMeters(parallaxMas), raDeg, decDeg)
}

// Velocity returns the target velocity in m/s. Proper motions are in
// arcseconds per year and the radial velocity in km/s, positive receding.
func Velocity(parallaxMas, raDeg, decDeg, pmRA, pmDec, radialVelocity float64) r3.Vec {
	return r3.Add(
		TransverseVelocity(parallaxMas, raDeg, decDeg, pmRA, pmDec),
		RadialVelocity(parallaxMas, raDeg, decDeg, radialVelocity),
	)
}

// TransverseVelocity returns the proper-motion part of the velocity in m/s.
func TransverseVelocity(parallaxMas, raDeg, decDeg, pmRA, pmDec float64) r3.Vec {
	d := units.ParallaxToMeters(parallaxMas)
	now := PositionSurface(d, raDeg, decDeg)
	later := PositionSurface(d,
		raDeg+units.ArcsecondsToDegrees(pmRA),
		decDeg+units.ArcsecondsToDegrees(pmDec),
	)
	return r3.Scale(1/units.JulianYear, r3.Sub(later, now))
}

// RadialVelocity returns the line-of-sight part of the velocity in m/s. A
// zero radial velocity or a zero-length position gives the zero vector
// without normalizing.
func RadialVelocity(parallaxMas, raDeg, decDeg, radialVelocity float64) r3.Vec {
	if radialVelocity == 0 {
		return r3.Vec{}
	}
	pos := Position(parallaxMas, raDeg, decDeg)
	n := r3.Norm(pos)
	if n == 0 {
		return r3.Vec{}
	}
	return r3.Scale(units.KmPerSecondToMetersPerSecond(radialVelocity)/n, pos)
}

// Position returns the observation's position in meters.
func (o Observation) Position() r3.Vec {
	return Position(o.ParallaxMas, o.RightAscensionDeg, o.DeclinationDeg)
}

// Velocity returns the observation's velocity in m/s.
func (o Observation) Velocity() r3.Vec {
	return Velocity(o.ParallaxMas, o.RightAscensionDeg, o.DeclinationDeg,
		o.ProperMotionRAArcsecPerYr, o.ProperMotionDecArcsecPerYr, o.RadialVelocityKmS)
}

// State returns position and velocity together.
func (o Observation) State() State {
	return State{Position: o.Position(), Velocity: o.Velocity()}
}

// DistanceParsecs returns the distance implied by the parallax.
func (o Observation) DistanceParsecs() float64 {
	return units.ParallaxToParsecs(o.ParallaxMas)
}
