// Package dataset turns heterogeneous source tables into the canonical
// observation model: column renaming via a declared alias table, numeric
// coercion, missingness filtering, and natural-key deduplication. It also
// hosts the synthetic generator and the multi-source merge.
package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// Report summarizes what a normalization pass kept and dropped.
type Report struct {
	SourceRows       int      `json:"source_rows"`
	Kept             int      `json:"kept"`
	DroppedMissing   int      `json:"dropped_missing"`   // more than half of mapped columns absent
	DroppedDuplicate int      `json:"dropped_duplicate"` // natural key already seen (first row wins)
	DroppedBadKey    int      `json:"dropped_bad_key"`   // region/period/area unusable
	UnmappedColumns  []string `json:"unmapped_columns,omitempty"`
}

// Dropped returns the total number of excluded rows.
func (r Report) Dropped() int {
	return r.DroppedMissing + r.DroppedDuplicate + r.DroppedBadKey
}

// Normalizer maps raw tables onto the canonical schema.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer builds a Normalizer from the built-in alias table plus any
// configured extras (extras win on collision).
func NewNormalizer(extra map[string]string) *Normalizer {
	aliases := defaultAliases()
	for alias, target := range extra {
		aliases[foldColumn(alias)] = target
	}
	return &Normalizer{aliases: aliases}
}

// resolve maps a raw column name to its canonical name, or "" if unknown.
func (n *Normalizer) resolve(raw string) string {
	folded := foldColumn(raw)
	if canonicalColumns()[folded] {
		return folded
	}
	if target, ok := n.aliases[folded]; ok {
		return target
	}
	return ""
}

// Normalize converts a raw table into a canonical dataset. The input table
// is never mutated. Rows with an unusable natural key, with more than half
// of the mapped columns absent, or duplicating an earlier key are excluded
// and counted in the report; cell-level problems (non-numeric, out-of-range
// percentages) coerce to missing instead of dropping the row.
func (n *Normalizer) Normalize(t model.Table) (model.Dataset, Report) {
	report := Report{SourceRows: len(t.Rows)}

	// Resolve each source column once. Later duplicates of an
	// already-mapped canonical column are ignored.
	colFor := make(map[int]string, len(t.Columns))
	mapped := make(map[string]bool)
	for i, raw := range t.Columns {
		canonical := n.resolve(raw)
		if canonical == "" {
			report.UnmappedColumns = append(report.UnmappedColumns, raw)
			continue
		}
		if mapped[canonical] {
			continue
		}
		mapped[canonical] = true
		colFor[i] = canonical
	}
	sort.Strings(report.UnmappedColumns)

	percentage := make(map[string]bool)
	for _, c := range model.PercentageColumns() {
		percentage[c] = true
	}

	var out model.Dataset
	seen := make(map[model.Key]bool)

	for ri := range t.Rows {
		var o model.Observation
		populated := 0
		keyOK := true

		for ci, canonical := range colFor {
			cell := strings.TrimSpace(t.Cell(ri, ci))
			switch canonical {
			case model.ColRegion:
				if cell == "" {
					keyOK = false
					continue
				}
				o.Region = cell
				populated++
			case model.ColPeriod:
				p, err := strconv.Atoi(cell)
				if err != nil {
					keyOK = false
					continue
				}
				o.Period = p
				populated++
			case model.ColAreaClass:
				area, ok := model.ParseAreaClass(cell)
				if !ok {
					keyOK = false
					continue
				}
				o.Area = area
				populated++
			case model.ColPopulation:
				pop, err := strconv.ParseFloat(cell, 64)
				if err != nil || !finite(pop) || pop < 0 {
					continue
				}
				o.Population = int64(pop)
				populated++
			default:
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil || !finite(v) {
					continue // coerce to missing, never reject the row
				}
				if percentage[canonical] && (v < 0 || v > 100) {
					continue
				}
				if canonical == model.ColBNIScore && (v < 0 || v > 1) {
					continue
				}
				o.SetValue(canonical, v)
				populated++
			}
		}

		if o.Region == "" || o.Period == 0 || o.Area == "" {
			keyOK = false
		}
		if !keyOK {
			report.DroppedBadKey++
			continue
		}

		// Drop rows where more than half of the mapped columns are absent.
		if populated*2 < len(colFor) {
			report.DroppedMissing++
			continue
		}

		key := o.NaturalKey()
		if seen[key] {
			report.DroppedDuplicate++
			continue
		}
		seen[key] = true
		out.Observations = append(out.Observations, o)
	}

	report.Kept = len(out.Observations)

	zap.L().Debug("dataset: normalized table",
		zap.Int("source_rows", report.SourceRows),
		zap.Int("kept", report.Kept),
		zap.Int("dropped", report.Dropped()),
	)

	return out, report
}

// finite reports whether v is a usable number. ParseFloat accepts "NaN" and
// "Inf" spellings, and NaN slips past every range comparison, so both count
// as missing.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
