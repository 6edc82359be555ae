package analysis

import (
	"sort"

	"go.uber.org/zap"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// PriorityArea is an observation whose composite score falls below the
// intervention threshold.
type PriorityArea struct {
	Region     string             `json:"region"`
	Area       model.AreaClass    `json:"area_class"`
	Period     int                `json:"period"`
	Score      float64            `json:"score"`
	Population int64              `json:"population"`
	Indicators map[string]float64 `json:"indicators,omitempty"`
}

// Priority returns the latest-period observations scoring below threshold,
// sorted ascending by score so the worst-off areas come first. The sort is
// stable: areas with identical scores keep their original row order. An
// empty result means no priority areas, not an error.
//
// An observation without a computed score counts as 0 — maximally deprived —
// consistent with the missing-as-zero scoring policy.
func Priority(d model.Dataset, threshold float64) ([]PriorityArea, error) {
	latest, ok := d.LatestPeriod()
	if !ok {
		return nil, ErrInsufficientData
	}

	var areas []PriorityArea
	for _, o := range d.FilterPeriod(latest).Observations {
		score, ok := o.Value(model.ColBNIScore)
		if !ok {
			score = 0
		}
		if score >= threshold {
			continue
		}

		area := PriorityArea{
			Region:     o.Region,
			Area:       o.Area,
			Period:     o.Period,
			Score:      score,
			Population: o.Population,
			Indicators: make(map[string]float64),
		}
		for _, col := range []string{
			model.ColPipedWater, model.ColToilet, model.ColPuccaHousing,
			model.ColElectricity, model.ColLPG,
		} {
			if v, present := o.Value(col); present {
				area.Indicators[col] = v
			}
		}
		areas = append(areas, area)
	}

	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].Score < areas[j].Score
	})

	zap.L().Debug("analysis: priority ranking",
		zap.Int("period", latest),
		zap.Float64("threshold", threshold),
		zap.Int("areas", len(areas)),
	)

	return areas, nil
}
