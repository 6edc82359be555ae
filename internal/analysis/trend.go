package analysis

import (
	"sort"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// TrendPoint is the national mean of a metric for one period.
type TrendPoint struct {
	Period int     `json:"period"`
	Mean   float64 `json:"mean"`
	N      int     `json:"n"`
}

// Trend describes how a metric moved between the first and latest period.
type Trend struct {
	Metric     string       `json:"metric"`
	Points     []TrendPoint `json:"points"`
	Change     float64      `json:"change"`      // endpoint-to-endpoint
	SpanYears  int          `json:"span_years"`  // last period - first period
	AnnualRate float64      `json:"annual_rate"` // Change / SpanYears
}

// TrendFor computes the per-period national means of a metric and the
// annualized endpoint-to-endpoint rate of change. Periods where the metric
// is entirely absent do not produce points. Fewer than two usable periods
// makes the trend undefined and returns ErrInsufficientData.
func TrendFor(d model.Dataset, metric string) (Trend, error) {
	trend := Trend{Metric: metric}

	for _, period := range d.Periods() {
		obs := d.FilterPeriod(period).Observations
		if mean, n, ok := meanOf(obs, metric); ok {
			trend.Points = append(trend.Points, TrendPoint{Period: period, Mean: mean, N: n})
		}
	}

	if len(trend.Points) < 2 {
		return Trend{}, ErrInsufficientData
	}

	first := trend.Points[0]
	last := trend.Points[len(trend.Points)-1]
	trend.Change = last.Mean - first.Mean
	trend.SpanYears = last.Period - first.Period
	trend.AnnualRate = trend.Change / float64(trend.SpanYears)

	return trend, nil
}

// RegionChange is the movement of a metric for one region between the first
// and latest period it was observed in.
type RegionChange struct {
	Region string  `json:"region"`
	First  float64 `json:"first"`
	Last   float64 `json:"last"`
	Change float64 `json:"change"`
}

// FastestImproving ranks regions by their metric improvement between the
// dataset's first and latest period, largest gain first. Regions lacking the
// metric in either endpoint period are excluded. Ties keep first-seen region
// order. n <= 0 returns all regions.
func FastestImproving(d model.Dataset, metric string, n int) ([]RegionChange, error) {
	periods := d.Periods()
	if len(periods) < 2 {
		return nil, ErrInsufficientData
	}
	firstPeriod := periods[0]
	lastPeriod := periods[len(periods)-1]

	firstObs := groupByRegion(d.FilterPeriod(firstPeriod))
	lastObs := groupByRegion(d.FilterPeriod(lastPeriod))

	var out []RegionChange
	for _, region := range d.Regions() {
		fm, _, fOK := meanOf(firstObs[region], metric)
		lm, _, lOK := meanOf(lastObs[region], metric)
		if !fOK || !lOK {
			continue
		}
		out = append(out, RegionChange{
			Region: region,
			First:  fm,
			Last:   lm,
			Change: lm - fm,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Change > out[j].Change })

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func groupByRegion(d model.Dataset) map[string][]model.Observation {
	out := make(map[string][]model.Observation)
	for _, o := range d.Observations {
		out[o.Region] = append(out[o.Region], o)
	}
	return out
}
