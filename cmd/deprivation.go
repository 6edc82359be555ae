package main

import (
	"github.com/spf13/cobra"

	"github.com/bharatstats/amenities-cli/internal/metrics"
)

var deprivationCmd = &cobra.Command{
	Use:   "deprivation",
	Short: "Estimate underserved households and the budget to reach them",
	Long: `Converts access percentages in the latest survey year into absolute
counts: households = population / household size, and for each dimension
(water, toilet, housing, electricity, food) the households lacking it. The
budget estimate multiplies each count by a configured per-household unit cost.

Examples:
  amenities deprivation --input survey.csv
  amenities deprivation --input survey.csv --household-size 4.8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		householdSize, _ := cmd.Flags().GetFloat64("household-size")
		if !cmd.Flags().Changed("household-size") {
			householdSize = cfg.Metrics.HouseholdSize
		}

		d, err := loadInput(cmd.Context(), cmd)
		if err != nil {
			return err
		}

		totals, rows, err := metrics.Deprivation(d, householdSize)
		if err != nil {
			return err
		}
		budget := metrics.EstimateBudget(totals, cfg.Metrics.UnitCosts)

		return printJSON(cmd.OutOrStdout(), struct {
			Totals metrics.Totals      `json:"totals"`
			Budget metrics.Budget      `json:"budget"`
			Rows   []metrics.RowCounts `json:"rows"`
		}{totals, budget, rows})
	},
}

func init() {
	addInputFlags(deprivationCmd)
	deprivationCmd.Flags().Float64("household-size", 0, "persons per household (default from config)")
	rootCmd.AddCommand(deprivationCmd)
}
