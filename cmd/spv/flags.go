package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlbinSjoegren/SPV/pkg/astronomy/astrometry"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/orbital"
	"github.com/AlbinSjoegren/SPV/pkg/astronomy/units"
	"github.com/AlbinSjoegren/SPV/pkg/calc"
)

func addObservationFlags(cmd *cobra.Command, withMotion bool) {
	cmd.Flags().Float64("parallax-mas", 0, "parallax in milliarcseconds")
	cmd.Flags().Float64("ra-deg", 0, "right ascension in degrees")
	cmd.Flags().String("ra-hms", "", "right ascension as h:m:s (overrides --ra-deg)")
	cmd.Flags().Float64("dec-deg", 0, "declination in degrees")
	cmd.Flags().String("dec-dms", "", "declination as ±d:m:s (overrides --dec-deg)")
	cmd.MarkFlagRequired("parallax-mas")

	if withMotion {
		cmd.Flags().Float64("pm-ra", 0, "proper motion in right ascension, arcsec/yr")
		cmd.Flags().Float64("pm-dec", 0, "proper motion in declination, arcsec/yr")
		cmd.Flags().Float64("rv-kms", 0, "radial velocity in km/s")
	}
}

func observationFromFlags(cmd *cobra.Command) (astrometry.Observation, error) {
	var o astrometry.Observation
	f := cmd.Flags()

	o.ParallaxMas, _ = f.GetFloat64("parallax-mas")
	o.RightAscensionDeg, _ = f.GetFloat64("ra-deg")
	o.DeclinationDeg, _ = f.GetFloat64("dec-deg")

	if s, _ := f.GetString("ra-hms"); s != "" {
		ra, err := parseHMS(s)
		if err != nil {
			return o, fmt.Errorf("invalid --ra-hms: %w", err)
		}
		o.RightAscensionDeg = ra
	}
	if s, _ := f.GetString("dec-dms"); s != "" {
		dec, err := parseDMS(s)
		if err != nil {
			return o, fmt.Errorf("invalid --dec-dms: %w", err)
		}
		o.DeclinationDeg = dec
	}

	if f.Lookup("pm-ra") != nil {
		o.ProperMotionRAArcsecPerYr, _ = f.GetFloat64("pm-ra")
		o.ProperMotionDecArcsecPerYr, _ = f.GetFloat64("pm-dec")
		o.RadialVelocityKmS, _ = f.GetFloat64("rv-kms")
	}
	return o, nil
}

func addAngleFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("lotn-deg", 0, "longitude of the ascending node in degrees")
	cmd.Flags().Float64("aop-deg", 0, "argument of periapsis in degrees")
	cmd.Flags().Float64("inclination-deg", 0, "inclination in degrees")
}

func anglesFromFlags(cmd *cobra.Command) calc.Angles {
	var a calc.Angles
	a.LongitudeOfAscendingNodeDeg, _ = cmd.Flags().GetFloat64("lotn-deg")
	a.ArgumentOfPeriapsisDeg, _ = cmd.Flags().GetFloat64("aop-deg")
	a.InclinationDeg, _ = cmd.Flags().GetFloat64("inclination-deg")
	return a
}

func addElementFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Float64("a-au", 0, "semi-major axis in AU")
	cmd.PersistentFlags().Float64("a-arcsec", 0, "angular semi-major axis in arcseconds (needs --parallax-mas)")
	cmd.PersistentFlags().Float64("parallax-mas", 0, "system parallax in milliarcseconds, used with --a-arcsec")
	cmd.PersistentFlags().Float64("e", 0, "eccentricity")
	cmd.PersistentFlags().Float64("period-yr", 0, "orbital period in years")
	cmd.PersistentFlags().Float64("tp-yr", 0, "time since periapsis in years")
	cmd.PersistentFlags().Float64("lotn-deg", 0, "longitude of the ascending node in degrees")
	cmd.PersistentFlags().Float64("aop-deg", 0, "argument of periapsis in degrees")
	cmd.PersistentFlags().Float64("inclination-deg", 0, "inclination in degrees")
}

func elementsFromFlags(cmd *cobra.Command) (orbital.Elements, error) {
	var el orbital.Elements
	f := cmd.Flags()

	el.SemiMajorAxisAU, _ = f.GetFloat64("a-au")
	el.Eccentricity, _ = f.GetFloat64("e")
	el.PeriodYears, _ = f.GetFloat64("period-yr")
	el.TimeSincePeriapsisYears, _ = f.GetFloat64("tp-yr")
	el.LongitudeOfAscendingNodeDeg, _ = f.GetFloat64("lotn-deg")
	el.ArgumentOfPeriapsisDeg, _ = f.GetFloat64("aop-deg")
	el.InclinationDeg, _ = f.GetFloat64("inclination-deg")

	if f.Changed("a-arcsec") {
		if f.Changed("a-au") {
			return el, fmt.Errorf("--a-au and --a-arcsec are mutually exclusive")
		}
		sep, _ := f.GetFloat64("a-arcsec")
		plx, _ := f.GetFloat64("parallax-mas")
		if plx == 0 {
			return el, fmt.Errorf("--a-arcsec requires a non-zero --parallax-mas")
		}
		el.SemiMajorAxisAU = units.SeparationToAU(plx, sep)
	}
	return el, nil
}

// sexagesimal splits "h:m:s", "h m s" or "12h30m15s" into its parts.
func sexagesimal(s string) (neg bool, a, b int, c float64, err error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(": hmsd'\"°", r)
	})
	if len(parts) != 3 {
		return false, 0, 0, 0, fmt.Errorf("expected three components in %q", s)
	}
	if a, err = strconv.Atoi(parts[0]); err != nil {
		return false, 0, 0, 0, err
	}
	if b, err = strconv.Atoi(parts[1]); err != nil {
		return false, 0, 0, 0, err
	}
	if c, err = strconv.ParseFloat(parts[2], 64); err != nil {
		return false, 0, 0, 0, err
	}
	if a < 0 || b < 0 || b >= 60 || c < 0 || c >= 60 {
		return false, 0, 0, 0, fmt.Errorf("component out of range in %q", s)
	}
	return neg, a, b, c, nil
}

// parseHMS parses a right ascension and returns degrees.
func parseHMS(s string) (float64, error) {
	neg, h, m, sec, err := sexagesimal(s)
	if err != nil {
		return 0, err
	}
	if neg || h >= 24 {
		return 0, fmt.Errorf("right ascension out of range: %q", s)
	}
	return units.RightAscensionFromHMS(h, m, sec), nil
}

// parseDMS parses a declination and returns degrees.
func parseDMS(s string) (float64, error) {
	neg, d, m, sec, err := sexagesimal(s)
	if err != nil {
		return 0, err
	}
	if d > 90 {
		return 0, fmt.Errorf("declination out of range: %q", s)
	}
	sign := byte('+')
	if neg {
		sign = '-'
	}
	return units.DeclinationFromDMS(sign, d, m, sec), nil
}
