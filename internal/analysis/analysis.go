// Package analysis implements the comparative queries used for decision
// support: priority ranking, rural/urban gaps, temporal trends, correlation,
// and descriptive summaries. Every query treats the dataset as an immutable
// snapshot and returns plain structured data for the presentation layer.
package analysis

import (
	"github.com/rotisserie/eris"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// ErrInsufficientData signals a query that is mathematically undefined on
// the given dataset (e.g. a trend over a single period, or a region missing
// one of its area classes). Distinct from an empty-but-valid result.
var ErrInsufficientData = eris.New("analysis: insufficient data")

// DefaultGapMetrics returns the indicators reported by the gap and trend
// queries when the caller does not narrow them.
func DefaultGapMetrics() []string {
	return []string{
		model.ColBNIScore,
		model.ColPipedWater,
		model.ColSafeWater,
		model.ColToilet,
		model.ColPuccaHousing,
		model.ColElectricity,
		model.ColLPG,
		model.ColFoodSecure,
	}
}

// meanOf averages the present values of one column over a set of
// observations. ok is false when no observation carries the column.
func meanOf(obs []model.Observation, col string) (mean float64, n int, ok bool) {
	var sum float64
	for _, o := range obs {
		if v, present := o.Value(col); present {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return sum / float64(n), n, true
}
