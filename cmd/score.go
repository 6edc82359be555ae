package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bharatstats/amenities-cli/internal/export"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute the composite Basic Needs Index for every observation",
	Long: `Scores each (state, year, rural/urban) observation as the weighted sum
of its amenity indicators divided by 100, yielding a value in [0, 1]. A missing
indicator contributes zero before weighting, so patchy data lowers the score
instead of hiding it. Weight overrides come from config and must sum to 1.

Examples:
  amenities score --input survey.csv -o scored.csv
  amenities score --input survey.csv --snapshot scored.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		snapshot, _ := cmd.Flags().GetString("snapshot")

		d, err := scoredInput(cmd.Context(), cmd)
		if err != nil {
			return err
		}

		if snapshot != "" {
			id, err := export.WriteSnapshot(cmd.Context(), snapshot, d)
			if err != nil {
				return err
			}
			zap.L().Info("snapshot written",
				zap.String("path", snapshot),
				zap.String("snapshot_id", id),
			)
		}

		if output == "" {
			return export.WriteCSV(cmd.OutOrStdout(), d)
		}
		return export.WriteCSVFile(output, d)
	},
}

func init() {
	addInputFlags(scoreCmd)
	f := scoreCmd.Flags()
	f.StringP("output", "o", "", "output CSV path (default stdout)")
	f.String("snapshot", "", "also write a SQLite snapshot to this path")
	rootCmd.AddCommand(scoreCmd)
}
