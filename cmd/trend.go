package main

import (
	"github.com/spf13/cobra"

	"github.com/bharatstats/amenities-cli/internal/analysis"
	"github.com/bharatstats/amenities-cli/internal/model"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Annualized change of a metric across survey years",
	Long: `Computes the national mean of a metric per survey year and the
annualized rate of change between the first and latest year. Needs at least
two years with data; a single-year dataset is an error, not a zero. Also
ranks the states that improved fastest.

Examples:
  amenities trend --input survey.csv
  amenities trend --input survey.csv --metric electricity --top 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, _ := cmd.Flags().GetString("metric")
		top, _ := cmd.Flags().GetInt("top")

		d, err := scoredInput(cmd.Context(), cmd)
		if err != nil {
			return err
		}

		trend, err := analysis.TrendFor(d, metric)
		if err != nil {
			return err
		}
		fastest, err := analysis.FastestImproving(d, metric, top)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), struct {
			Trend   analysis.Trend          `json:"trend"`
			Fastest []analysis.RegionChange `json:"fastest_improving"`
		}{trend, fastest})
	},
}

func init() {
	addInputFlags(trendCmd)
	f := trendCmd.Flags()
	f.String("metric", model.ColBNIScore, "metric to trend")
	f.Int("top", 10, "number of fastest-improving states to list")
	rootCmd.AddCommand(trendCmd)
}
