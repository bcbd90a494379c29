package main

import (
	"github.com/spf13/cobra"

	"github.com/AlbinSjoegren/SPV/internal/types"
	"github.com/AlbinSjoegren/SPV/pkg/calc"
)

var positionCmd = &cobra.Command{
	Use:   "position",
	Short: "Cartesian position from parallax, right ascension and declination",
	Example: `  spv position --parallax-mas 548.31 --ra-hms 17:57:48.5 --dec-dms +4:41:36
  spv position --parallax-mas 379.21 --ra-deg 101.287 --dec-deg -16.716 --format json --name Sirius`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := observationFromFlags(cmd)
		if err != nil {
			return err
		}
		results, err := newCalculator().Position(o)
		if err != nil {
			return err
		}
		return write(cmd, results)
	},
}

var velocityCmd = &cobra.Command{
	Use:   "velocity",
	Short: "Cartesian velocity from astrometry, proper motion and radial velocity",
	Long: `Computes the observer-relative velocity in m/s. The transverse part is the
displacement after one year of proper motion, which is a linear approximation
that degrades for large proper motions.`,
	Example: `  spv velocity --parallax-mas 548.31 --ra-deg 269.452 --dec-deg 4.693 \
    --pm-ra -0.79858 --pm-dec 10.32812 --rv-kms -110.6`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := observationFromFlags(cmd)
		if err != nil {
			return err
		}
		results, err := newCalculator().Velocity(o)
		if err != nil {
			return err
		}
		return write(cmd, results)
	},
}

var rotationCmd = &cobra.Command{
	Use:   "rotation",
	Short: "Perifocal-to-reference rotation matrix from Ω, ω and i",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := newCalculator().Rotation(anglesFromFlags(cmd))
		if err != nil {
			return err
		}
		return write(cmd, results)
	},
}

var companionCmd = &cobra.Command{
	Use:   "companion",
	Short: "Companion state on a Keplerian orbit",
	Long: `Computes the companion's position and velocity relative to its primary.
Without a subcommand all four quantities are produced.`,
	Example: `  spv companion --a-au 19.8 --e 0.5923 --period-yr 50.13 --tp-yr 12.4 \
    --lotn-deg 45.4 --aop-deg 149.2 --inclination-deg 136.3
  spv companion relative-velocity --a-arcsec 7.5 --parallax-mas 379.21 --e 0.59 --period-yr 50.1`,
	Args: cobra.NoArgs,
	RunE: companionRunE(),
}

func companionRunE(qs ...types.Quantity) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		el, err := elementsFromFlags(cmd)
		if err != nil {
			return err
		}
		results, err := newCalculator().Companion(el)
		if err != nil {
			return err
		}
		if len(qs) > 0 {
			results = calc.Select(results, qs...)
		}
		return write(cmd, results)
	}
}

func companionSubcommand(use, short string, q types.Quantity) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE:  companionRunE(q),
	}
}

var derivedCmd = &cobra.Command{
	Use:   "derived",
	Short: "Derived orbit quantities, angular momentum and apsides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		el, err := elementsFromFlags(cmd)
		if err != nil {
			return err
		}
		results, err := newCalculator().Derived(el)
		if err != nil {
			return err
		}
		return write(cmd, results)
	},
}

func write(cmd *cobra.Command, results []types.Result) error {
	w, err := newWriter(cmd)
	if err != nil {
		return err
	}
	if err := w.Write(name, results...); err != nil {
		return err
	}
	logger.Debug("results written", "name", name, "format", appConfig.Output.Format, "count", len(results))
	return nil
}

func init() {
	addObservationFlags(positionCmd, false)
	addObservationFlags(velocityCmd, true)
	addAngleFlags(rotationCmd)
	addElementFlags(companionCmd)
	addElementFlags(derivedCmd)

	companionCmd.AddCommand(
		companionSubcommand("position", "Perifocal position in m", types.QuantityCompanionPosition),
		companionSubcommand("velocity", "Perifocal velocity in m/s", types.QuantityCompanionVelocity),
		companionSubcommand("relative-position", "Reference-frame position in m", types.QuantityCompanionRelativePosition),
		companionSubcommand("relative-velocity", "Reference-frame velocity in m/s", types.QuantityCompanionRelativeVelocity),
	)
}
