package main

import (
	"github.com/spf13/cobra"

	"github.com/bharatstats/amenities-cli/internal/analysis"
)

var priorityCmd = &cobra.Command{
	Use:   "priority",
	Short: "Rank areas below the intervention threshold, worst first",
	Long: `Lists every (state, rural/urban) area in the latest survey year whose
composite score falls below the threshold, sorted ascending so the most
deprived areas come first. Ties keep their input order.

Examples:
  amenities priority --input scored.csv
  amenities priority --input scored.csv --threshold 0.4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		if !cmd.Flags().Changed("threshold") {
			threshold = cfg.Analysis.PriorityThreshold
		}

		d, err := scoredInput(cmd.Context(), cmd)
		if err != nil {
			return err
		}

		areas, err := analysis.Priority(d, threshold)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), struct {
			Threshold float64                 `json:"threshold"`
			Count     int                     `json:"count"`
			Areas     []analysis.PriorityArea `json:"areas"`
		}{threshold, len(areas), areas})
	},
}

func init() {
	addInputFlags(priorityCmd)
	priorityCmd.Flags().Float64("threshold", 0, "score threshold (default from config)")
	rootCmd.AddCommand(priorityCmd)
}
