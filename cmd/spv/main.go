package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlbinSjoegren/SPV/pkg/calc"
	"github.com/AlbinSjoegren/SPV/pkg/export"
	"github.com/AlbinSjoegren/SPV/pkg/utils"
)

const (
	// Application constants
	appName = "spv"
	version = "v1.0.0"
)

var (
	// Configuration
	cfgFile   string
	outputDir string
	format    string
	name      string
	logLevel  string

	appConfig *utils.Config
	logger    *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Stellar position and velocity calculator",
	Long: `spv converts catalogue astrometry (parallax, right ascension, declination,
proper motion and radial velocity) into Cartesian positions and velocities,
and computes the state of a companion on a Keplerian orbit, rotated into the
reference frame of its primary.

Results are printed or written as JSON, text or CSV. Whole catalogues can be
converted with the batch command, and the same calculators are available over
HTTP with serve.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return nil
	},
}

// initConfig loads the config file and applies command-line overrides.
// config init starts from the defaults since its target may not exist yet.
func initConfig(cmd *cobra.Command) error {
	cfg := utils.DefaultConfig()
	if cmd != configInitCmd {
		loaded, err := utils.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if format != "" {
		cfg.Output.Format = format
	}
	if logLevel != "" {
		if _, err := utils.ParseLogLevel(logLevel); err != nil {
			return err
		}
		cfg.Log.Level = logLevel
	}

	appConfig = cfg
	logger = cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	return nil
}

func newCalculator() calc.Calculator {
	return calc.New(appConfig.KeplerSolver())
}

func newWriter(cmd *cobra.Command) (export.Writer, error) {
	return export.New(appConfig.Output.Format, appConfig.Output.Dir, cmd.OutOrStdout())
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.spv/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory for written results (overrides output.dir)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "output format: json|txt|csv|stdout (overrides output.format)")
	rootCmd.PersistentFlags().StringVar(&name, "name", appName, "target name used for output files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides log.level)")

	rootCmd.AddCommand(positionCmd)
	rootCmd.AddCommand(velocityCmd)
	rootCmd.AddCommand(rotationCmd)
	rootCmd.AddCommand(companionCmd)
	rootCmd.AddCommand(derivedCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
