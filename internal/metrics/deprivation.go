// Package metrics converts percentage access rates into absolute headcounts
// of underserved households, and estimates intervention budgets from them.
package metrics

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// DefaultHouseholdSize is the fixed persons-per-household divisor.
const DefaultHouseholdSize = 5.0

// ErrEmptyDataset is returned when there are no observations to measure.
var ErrEmptyDataset = eris.New("metrics: empty dataset")

// Deprivation dimensions, in report order, with the indicator column each
// one is derived from.
var dimensions = []struct {
	Name string
	Col  string
}{
	{"water", model.ColSafeWater},
	{"toilet", model.ColToilet},
	{"housing", model.ColPuccaHousing},
	{"electricity", model.ColElectricity},
	{"food", model.ColFoodSecure},
}

// DimensionNames returns the deprivation dimensions in report order.
func DimensionNames() []string {
	names := make([]string, len(dimensions))
	for i, d := range dimensions {
		names[i] = d.Name
	}
	return names
}

// RowCounts holds the underserved-household estimates for one observation.
type RowCounts struct {
	Region      string             `json:"region"`
	Area        model.AreaClass    `json:"area_class"`
	Period      int                `json:"period"`
	Population  int64              `json:"population"`
	Households  float64            `json:"households"`
	Underserved map[string]float64 `json:"underserved"`
}

// Totals holds the national sums for the latest period.
type Totals struct {
	Period          int                `json:"period"`
	TotalPopulation int64              `json:"total_population"`
	Underserved     map[string]float64 `json:"underserved"`
}

// Deprivation computes underserved-household counts for the latest period
// only: households = population / householdSize, then for each dimension
// underserved = households x (100 - access%) / 100. A missing indicator
// counts as zero access, so every household shows as underserved in that
// dimension rather than vanishing from the totals.
func Deprivation(d model.Dataset, householdSize float64) (Totals, []RowCounts, error) {
	if householdSize <= 0 {
		householdSize = DefaultHouseholdSize
	}

	latest, ok := d.LatestPeriod()
	if !ok {
		return Totals{}, nil, ErrEmptyDataset
	}

	totals := Totals{Period: latest, Underserved: make(map[string]float64, len(dimensions))}
	var rows []RowCounts

	for _, o := range d.FilterPeriod(latest).Observations {
		households := float64(o.Population) / householdSize
		row := RowCounts{
			Region:      o.Region,
			Area:        o.Area,
			Period:      o.Period,
			Population:  o.Population,
			Households:  households,
			Underserved: make(map[string]float64, len(dimensions)),
		}

		for _, dim := range dimensions {
			access, ok := o.Value(dim.Col)
			if !ok {
				access = 0
			}
			n := households * (100 - access) / 100
			row.Underserved[dim.Name] = n
			totals.Underserved[dim.Name] += n
		}

		totals.TotalPopulation += o.Population
		rows = append(rows, row)
	}

	zap.L().Debug("metrics: deprivation computed",
		zap.Int("period", latest),
		zap.Int("observations", len(rows)),
		zap.Int64("population", totals.TotalPopulation),
	)

	return totals, rows, nil
}
