package main

import (
	"github.com/spf13/cobra"

	"github.com/bharatstats/amenities-cli/internal/analysis"
	"github.com/bharatstats/amenities-cli/internal/model"
)

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "Compare rural and urban means and pivot one metric per state",
	Long: `Computes rural and urban means for the composite score and each
indicator in the latest survey year, plus a per-state rural/urban pivot of one
chosen metric. States missing either class, or carrying duplicate observations
for a class, are marked insufficient rather than guessed at.

Examples:
  amenities gap --input scored.csv
  amenities gap --input scored.csv --metric toilet`,
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, _ := cmd.Flags().GetString("metric")

		d, err := scoredInput(cmd.Context(), cmd)
		if err != nil {
			return err
		}

		report, err := analysis.Gap(d, analysis.DefaultGapMetrics(), metric)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), report)
	},
}

func init() {
	addInputFlags(gapCmd)
	gapCmd.Flags().String("metric", model.ColBNIScore, "metric for the per-state pivot")
	rootCmd.AddCommand(gapCmd)
}
