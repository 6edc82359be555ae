package analysis

import (
	"github.com/bharatstats/amenities-cli/internal/model"
)

// RegionGap is the urban-minus-rural difference of one metric for a region.
// Insufficient is set when the region lacks a rural or urban observation or
// holds duplicates for either class; no default value is substituted.
type RegionGap struct {
	Region       string  `json:"region"`
	Rural        float64 `json:"rural,omitempty"`
	Urban        float64 `json:"urban,omitempty"`
	Gap          float64 `json:"gap,omitempty"`
	Insufficient bool    `json:"insufficient,omitempty"`
	Reason       string  `json:"reason,omitempty"`
}

// GapReport compares rural and urban access for the latest period.
// The mean maps only carry metrics for which at least one value exists in
// the class; Gaps only carries metrics present in both classes.
type GapReport struct {
	Period     int                `json:"period"`
	RuralMeans map[string]float64 `json:"rural_means"`
	UrbanMeans map[string]float64 `json:"urban_means"`
	Gaps       map[string]float64 `json:"gaps"` // urban - rural, percentage points
	RuralPop   int64              `json:"rural_population"`
	UrbanPop   int64              `json:"urban_population"`
	Regions    []RegionGap        `json:"regions"`
}

// Gap computes the rural/urban comparison for the latest period: national
// means per metric per area class, their differences, and a per-region
// pivot of pivotMetric.
func Gap(d model.Dataset, metrics []string, pivotMetric string) (GapReport, error) {
	latest, ok := d.LatestPeriod()
	if !ok {
		return GapReport{}, ErrInsufficientData
	}
	if len(metrics) == 0 {
		metrics = DefaultGapMetrics()
	}
	if pivotMetric == "" {
		pivotMetric = model.ColBNIScore
	}

	period := d.FilterPeriod(latest)

	var rural, urban []model.Observation
	report := GapReport{
		Period:     latest,
		RuralMeans: make(map[string]float64),
		UrbanMeans: make(map[string]float64),
		Gaps:       make(map[string]float64),
	}
	for _, o := range period.Observations {
		switch o.Area {
		case model.AreaRural:
			rural = append(rural, o)
			report.RuralPop += o.Population
		case model.AreaUrban:
			urban = append(urban, o)
			report.UrbanPop += o.Population
		}
	}

	for _, metric := range metrics {
		rm, _, rOK := meanOf(rural, metric)
		um, _, uOK := meanOf(urban, metric)
		if rOK {
			report.RuralMeans[metric] = rm
		}
		if uOK {
			report.UrbanMeans[metric] = um
		}
		if rOK && uOK {
			report.Gaps[metric] = um - rm
		}
	}

	report.Regions = regionPivot(period, pivotMetric)

	return report, nil
}

// regionPivot builds the region x area-class two-way pivot for one metric.
// Regions appear in first-seen order.
func regionPivot(period model.Dataset, metric string) []RegionGap {
	type cell struct {
		value    float64
		hasValue bool
		count    int
	}
	cells := make(map[string]map[model.AreaClass]cell)

	for _, o := range period.Observations {
		byArea, ok := cells[o.Region]
		if !ok {
			byArea = make(map[model.AreaClass]cell)
			cells[o.Region] = byArea
		}
		c := byArea[o.Area]
		c.count++
		if v, present := o.Value(metric); present && c.count == 1 {
			c.value = v
			c.hasValue = true
		}
		byArea[o.Area] = c
	}

	var out []RegionGap
	for _, region := range period.Regions() {
		byArea := cells[region]
		r, u := byArea[model.AreaRural], byArea[model.AreaUrban]

		g := RegionGap{Region: region}
		switch {
		case r.count == 0 || u.count == 0:
			g.Insufficient = true
			g.Reason = "missing rural or urban observation"
		case r.count > 1 || u.count > 1:
			g.Insufficient = true
			g.Reason = "duplicate observations for an area class"
		case !r.hasValue || !u.hasValue:
			g.Insufficient = true
			g.Reason = "metric missing for an area class"
		default:
			g.Rural = r.value
			g.Urban = u.value
			g.Gap = u.value - r.value
		}
		out = append(out, g)
	}

	return out
}
