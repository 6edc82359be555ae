package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bharatstats/amenities-cli/internal/dataset"
	"github.com/bharatstats/amenities-cli/internal/db"
	"github.com/bharatstats/amenities-cli/internal/export"
	"github.com/bharatstats/amenities-cli/internal/loader"
	"github.com/bharatstats/amenities-cli/internal/model"
)

var errNoDatabaseURL = eris.New("loader.database_url not configured")

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load, normalize, and merge sources into one canonical CSV",
	Long: `Loads each declared source, maps its column names through the alias
table, coerces out-of-range cells to missing, drops rows that are mostly empty
or lack a usable (region, year, rural/urban) key, and outer-joins everything on
that key. A source that fails to load is skipped and reported; the others still
merge. In conflicts the earliest listed source wins.

Examples:
  amenities load --input nss.csv --input census.xlsx --format csv -o merged.csv
  amenities load --input "https://api.data.gov.in/resource/abc?api-key=..." --format portal
  amenities load --warehouse-query "SELECT * FROM amenities.survey" -o merged.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		warehouseQuery, _ := cmd.Flags().GetString("warehouse-query")
		inputs, _ := cmd.Flags().GetStringSlice("input")

		// The synthetic fallback only applies when nothing real is
		// declared at all; warehouse rows must never merge with (and
		// lose conflicts to) fabricated survey data.
		var d model.Dataset
		if len(inputs) > 0 || warehouseQuery == "" {
			var err error
			d, err = loadInput(cmd.Context(), cmd)
			if err != nil {
				return err
			}
		}

		if warehouseQuery != "" {
			wd, err := loadWarehouse(cmd.Context(), warehouseQuery)
			switch {
			case err != nil && len(inputs) == 0:
				return err
			case err != nil:
				cmd.PrintErrf("warning: warehouse source skipped: %v\n", err)
			default:
				d = dataset.Merge(d, wd)
			}
		}

		if output == "" {
			return export.WriteCSV(cmd.OutOrStdout(), d)
		}
		return export.WriteCSVFile(output, d)
	},
}

func loadWarehouse(ctx context.Context, query string) (model.Dataset, error) {
	if cfg.Loader.DatabaseURL == "" {
		return model.Dataset{}, &loader.LoadFailure{
			Source: "warehouse",
			Err:    errNoDatabaseURL,
		}
	}
	pool, err := db.Connect(ctx, cfg.Loader.DatabaseURL, nil)
	if err != nil {
		return model.Dataset{}, &loader.LoadFailure{Source: "warehouse", Err: err}
	}
	defer pool.Close()

	l, err := newLoader()
	if err != nil {
		return model.Dataset{}, err
	}
	d, _, err := l.LoadPostgres(ctx, "warehouse", loader.NewPostgresSource(pool, query))
	return d, err
}

func init() {
	addInputFlags(loadCmd)
	f := loadCmd.Flags()
	f.StringP("output", "o", "", "output CSV path (default stdout)")
	f.String("warehouse-query", "", "also load rows from the configured warehouse")
	rootCmd.AddCommand(loadCmd)
}
