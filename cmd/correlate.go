package main

import (
	"github.com/spf13/cobra"

	"github.com/bharatstats/amenities-cli/internal/analysis"
)

var correlateCmd = &cobra.Command{
	Use:   "correlate",
	Short: "Pairwise Pearson correlations between indicators",
	Long: `Builds the correlation matrix over the indicator columns using
pairwise-complete observations: a row contributes to a cell only when both
columns are present. Cells with fewer than two pairs, or a constant column,
are NaN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cols, _ := cmd.Flags().GetStringSlice("columns")
		if len(cols) == 0 {
			cols = analysis.DefaultCorrelationColumns()
		}

		d, err := scoredInput(cmd.Context(), cmd)
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), analysis.Correlate(d, cols))
	},
}

func init() {
	addInputFlags(correlateCmd)
	correlateCmd.Flags().StringSlice("columns", nil, "columns to correlate (default indicator set)")
	rootCmd.AddCommand(correlateCmd)
}
