package metrics

// crore is the rupee divisor used for reporting (1 crore = 10^7).
const crore = 1e7

// DefaultUnitCosts returns the per-household intervention cost in rupees
// for the dimensions that have a provisioning program.
func DefaultUnitCosts() map[string]float64 {
	return map[string]float64{
		"water":       15_000,
		"toilet":      12_000,
		"housing":     120_000,
		"electricity": 5_000,
	}
}

// Budget is the estimated intervention spend derived from deprivation totals.
type Budget struct {
	Period     int                `json:"period"`
	ByCrore    map[string]float64 `json:"by_dimension_crore"`
	TotalCrore float64            `json:"total_crore"`
}

// EstimateBudget prices the underserved-household totals using per-household
// unit costs. Dimensions without a configured unit cost are skipped.
// Amounts are reported in crores of rupees.
func EstimateBudget(totals Totals, unitCosts map[string]float64) Budget {
	if unitCosts == nil {
		unitCosts = DefaultUnitCosts()
	}

	b := Budget{Period: totals.Period, ByCrore: make(map[string]float64, len(unitCosts))}
	for dim, households := range totals.Underserved {
		cost, ok := unitCosts[dim]
		if !ok {
			continue
		}
		cr := households * cost / crore
		b.ByCrore[dim] = cr
		b.TotalCrore += cr
	}
	return b
}
