package analysis

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// Stats holds descriptive statistics for one column. Std is the sample
// standard deviation (n-1 denominator); it is NaN for fewer than two values.
type Stats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// MarshalJSON renders an undefined Std (single value) as null.
func (s Stats) MarshalJSON() ([]byte, error) {
	type alias Stats
	if !math.IsNaN(s.Std) {
		return json.Marshal(alias(s))
	}
	return json.Marshal(struct {
		alias
		Std *float64 `json:"std"`
	}{alias: alias(s)})
}

// Describe computes per-column descriptive statistics over present values.
// Columns with no values at all are omitted from the result.
func Describe(d model.Dataset, cols []string) map[string]Stats {
	out := make(map[string]Stats, len(cols))

	for _, col := range cols {
		var values []float64
		for _, o := range d.Observations {
			if v, ok := o.Value(col); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		s := Stats{Count: len(values), Min: values[0], Max: values[0]}
		var sum float64
		for _, v := range values {
			sum += v
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
		}
		s.Mean = sum / float64(len(values))

		if len(values) < 2 {
			s.Std = math.NaN()
		} else {
			var ss float64
			for _, v := range values {
				d := v - s.Mean
				ss += d * d
			}
			s.Std = math.Sqrt(ss / float64(len(values)-1))
		}

		out[col] = s
	}

	return out
}

// RegionScore is a region's mean of a metric for one period.
type RegionScore struct {
	Region     string  `json:"region"`
	Mean       float64 `json:"mean"`
	Population int64   `json:"population"`
}

// TopRegions ranks regions by their mean of a metric within one period.
// ascending=true puts the lowest means first (the bottom-N view). Ties keep
// first-seen region order; regions without the metric are excluded.
// n <= 0 returns all regions.
func TopRegions(d model.Dataset, metric string, period, n int, ascending bool) []RegionScore {
	byRegion := groupByRegion(d.FilterPeriod(period))
	filtered := d.FilterPeriod(period)

	var out []RegionScore
	for _, region := range filtered.Regions() {
		mean, _, ok := meanOf(byRegion[region], metric)
		if !ok {
			continue
		}
		var pop int64
		for _, o := range byRegion[region] {
			pop += o.Population
		}
		out = append(out, RegionScore{Region: region, Mean: mean, Population: pop})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].Mean < out[j].Mean
		}
		return out[i].Mean > out[j].Mean
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
