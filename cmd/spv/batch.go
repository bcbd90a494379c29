package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlbinSjoegren/SPV/pkg/analysis"
)

var batchCmd = &cobra.Command{
	Use:   "batch <input.csv>",
	Short: "Convert a star catalogue to Cartesian states",
	Long: `Reads a catalogue with the columns

  ra_j2000, dec_j2000, hip, name, pm_ra_j2000, pm_dec_j2000, plx_j2000, rv_j2000, vmag_j2000

and writes hip,name,x,y,z,vx,vy,vz for every valid row. A header row is
optional. Rows that fail to parse or validate are skipped and counted. An
output path ending in .jsonl writes JSON lines instead of CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
			output = filepath.Join(appConfig.Output.Dir, base+"_states.csv")
		}

		workers := appConfig.Batch.Workers
		if cmd.Flags().Changed("workers") {
			workers, _ = cmd.Flags().GetInt("workers")
		}

		pm := appConfig.ProperMotionUnit()
		if s, _ := cmd.Flags().GetString("pm-unit"); s != "" {
			u, err := analysis.ParseProperMotionUnit(s)
			if err != nil {
				return err
			}
			pm = u
		}

		pipeline := analysis.NewPipeline(workers, pm, logger)
		summary, err := pipeline.Run(cmd.Context(), input, output)
		if err != nil {
			return fmt.Errorf("batch failed: %w", err)
		}

		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	batchCmd.Flags().StringP("output", "o", "", "output file (default <output-dir>/<input>_states.csv)")
	batchCmd.Flags().Int("workers", 0, "worker count (overrides batch.workers)")
	batchCmd.Flags().String("pm-unit", "", "proper motion unit of the catalogue: mas/yr|arcsec/yr (overrides batch.proper_motion_unit)")
}
