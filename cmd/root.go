package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bharatstats/amenities-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "amenities",
	Short: "Basic-amenities analysis over Indian household survey data",
	Long: "Loads household amenity indicators (water, sanitation, housing, electricity,\n" +
		"cooking fuel, food security) per state, survey year, and rural/urban class,\n" +
		"computes the composite Basic Needs Index, and derives deprivation headcounts,\n" +
		"priority rankings, rural/urban gaps, and temporal trends.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
