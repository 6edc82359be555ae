package dataset

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// DefaultRegions returns the 29 states covered by the demonstration dataset.
func DefaultRegions() []string {
	return []string{
		"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar",
		"Chhattisgarh", "Goa", "Gujarat", "Haryana", "Himachal Pradesh",
		"Jharkhand", "Karnataka", "Kerala", "Madhya Pradesh", "Maharashtra",
		"Manipur", "Meghalaya", "Mizoram", "Nagaland", "Odisha", "Punjab",
		"Rajasthan", "Sikkim", "Tamil Nadu", "Telangana", "Tripura",
		"Uttar Pradesh", "Uttarakhand", "West Bengal", "Delhi",
	}
}

// DefaultPeriods returns the survey years covered by the demonstration dataset.
func DefaultPeriods() []int { return []int{2012, 2018, 2023} }

// Generator produces deterministic synthetic survey data. The random source
// is owned by the generator, so concurrent generations in one process never
// share hidden global state.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded with the given value. The same
// seed always yields the same dataset.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// clampPct bounds a synthetic value to a valid percentage.
func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// between returns a uniform float in [lo, hi).
func (g *Generator) between(lo, hi float64) float64 {
	return lo + (hi-lo)*g.rng.Float64()
}

// intIn returns a uniform int in [lo, hi).
func (g *Generator) intIn(lo, hi int) float64 {
	return float64(lo + g.rng.IntN(hi-lo))
}

// Dataset builds one observation per (region, area class, period). Access
// rates improve over periods, urban areas get a fixed bonus, and each draw
// applies a regional factor in [0.8, 1.2). Composite scores are NOT set
// here; run the index calculator over the result.
func (g *Generator) Dataset(regions []string, periods []int) model.Dataset {
	if len(regions) == 0 {
		regions = DefaultRegions()
	}
	if len(periods) == 0 {
		periods = DefaultPeriods()
	}

	first := periods[0]
	for _, p := range periods {
		if p < first {
			first = p
		}
	}

	var out model.Dataset
	for _, region := range regions {
		for _, area := range []model.AreaClass{model.AreaRural, model.AreaUrban} {
			for _, period := range periods {
				improve := float64(period-first) * 3

				var urbanBonus float64
				if area == model.AreaUrban {
					urbanBonus = 20
				}

				factor := g.between(0.8, 1.2)

				o := model.Observation{
					Region:     region,
					Period:     period,
					Area:       area,
					Population: 500_000 + g.rng.Int64N(4_500_000),
				}

				base := func(floor, ceil, center float64, jitter int) float64 {
					v := center + improve + urbanBonus + g.intIn(-jitter, jitter)
					if v < floor {
						v = floor
					}
					if v > ceil {
						v = ceil
					}
					return clampPct(v * factor)
				}

				o.SetValue(model.ColPipedWater, base(20, 95, 45, 10))
				o.SetValue(model.ColSafeWater, base(30, 98, 60, 8))
				o.SetValue(model.ColWaterPremises, base(25, 92, 50, 12))

				// Sanitation improves twice as fast as the baseline.
				toilet := 40 + improve*2 + urbanBonus + g.intIn(-10, 10)
				o.SetValue(model.ColToilet, clampPct(clampRange(toilet, 20, 98)*factor))
				o.SetValue(model.ColSepticTank, base(15, 90, 35, 8))
				o.SetValue(model.ColOpenDefecation,
					clampPct(maxf(2, 40-improve*2-urbanBonus+g.intIn(-5, 5))))

				o.SetValue(model.ColPuccaHousing, base(30, 95, 55, 10))
				o.SetValue(model.ColElectricity, base(50, 99, 70, 5))
				lpg := 30 + improve*1.5 + urbanBonus + g.intIn(-10, 10)
				o.SetValue(model.ColLPG, clampPct(clampRange(lpg, 15, 95)*factor))

				// No urban bonus on food security.
				food := 65 + improve + g.intIn(-8, 8)
				o.SetValue(model.ColFoodSecure, clampPct(clampRange(food, 40, 95)*factor))
				o.SetValue(model.ColMalnourished,
					clampPct(maxf(5, 35-improve-float64(g.rng.IntN(5)))))

				var urbanMPCE float64
				if area == model.AreaUrban {
					urbanMPCE = 500
				}
				o.SetValue(model.ColMPCE,
					maxf(1500, 2500+float64(period-first)*300+urbanMPCE+g.intIn(-200, 200)))
				o.SetValue(model.ColPovertyRate,
					clampPct(maxf(5, 25-improve/2+g.intIn(-3, 3))))

				out.Observations = append(out.Observations, o)
			}
		}
	}

	zap.L().Info("dataset: generated synthetic data",
		zap.Int("regions", len(regions)),
		zap.Int("periods", len(periods)),
		zap.Int("observations", out.Len()),
	)

	return out
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
