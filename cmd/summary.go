package main

import (
	"github.com/spf13/cobra"

	"github.com/bharatstats/amenities-cli/internal/analysis"
	"github.com/bharatstats/amenities-cli/internal/model"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Descriptive statistics and best/worst state rankings",
	Long: `Prints count, mean, sample standard deviation, min, and max for the
composite score and every indicator, plus the top and bottom states by mean of
a chosen metric in the latest survey year.

Examples:
  amenities summary --input scored.csv
  amenities summary --input scored.csv --metric toilet --top 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, _ := cmd.Flags().GetString("metric")
		top, _ := cmd.Flags().GetInt("top")
		if !cmd.Flags().Changed("top") {
			top = cfg.Analysis.TopN
		}

		d, err := scoredInput(cmd.Context(), cmd)
		if err != nil {
			return err
		}

		cols := append([]string{model.ColBNIScore}, model.IndicatorColumns()...)
		stats := analysis.Describe(d, cols)

		period, ok := d.LatestPeriod()
		if !ok {
			return analysis.ErrInsufficientData
		}

		return printJSON(cmd.OutOrStdout(), struct {
			Period  int                       `json:"period"`
			Stats   map[string]analysis.Stats `json:"stats"`
			Best    []analysis.RegionScore    `json:"best"`
			Worst   []analysis.RegionScore    `json:"worst"`
			Regions []string                  `json:"regions"`
		}{
			Period:  period,
			Stats:   stats,
			Best:    analysis.TopRegions(d, metric, period, top, false),
			Worst:   analysis.TopRegions(d, metric, period, top, true),
			Regions: d.Regions(),
		})
	},
}

func init() {
	addInputFlags(summaryCmd)
	f := summaryCmd.Flags()
	f.String("metric", model.ColBNIScore, "metric for the rankings")
	f.Int("top", 0, "ranking length (default from config)")
	rootCmd.AddCommand(summaryCmd)
}
