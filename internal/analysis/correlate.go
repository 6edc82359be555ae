package analysis

import (
	"encoding/json"
	"math"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// CorrelationMatrix holds pairwise Pearson coefficients for a column set.
// Values[i][j] is the correlation of Columns[i] with Columns[j]; cells with
// fewer than two complete pairs or zero variance are NaN.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// DefaultCorrelationColumns returns the columns correlated by default:
// the composite score, the main amenity indicators, and the economic
// measures.
func DefaultCorrelationColumns() []string {
	return []string{
		model.ColBNIScore,
		model.ColPipedWater,
		model.ColToilet,
		model.ColPuccaHousing,
		model.ColElectricity,
		model.ColLPG,
		model.ColFoodSecure,
		model.ColMPCE,
		model.ColPovertyRate,
	}
}

// Correlate computes the Pearson correlation matrix over the given columns
// using pairwise-complete observations: a row participates in cell (i, j)
// only when it carries both columns.
func Correlate(d model.Dataset, cols []string) CorrelationMatrix {
	if len(cols) == 0 {
		cols = DefaultCorrelationColumns()
	}

	m := CorrelationMatrix{Columns: cols, Values: make([][]float64, len(cols))}
	for i := range cols {
		m.Values[i] = make([]float64, len(cols))
		for j := range cols {
			if j < i {
				m.Values[i][j] = m.Values[j][i] // symmetric
				continue
			}
			m.Values[i][j] = pearson(d.Observations, cols[i], cols[j])
		}
	}
	return m
}

// MarshalJSON renders undefined cells as null, since JSON has no NaN.
func (m CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				values[i][j] = &row[j]
			}
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, values})
}

// pearson computes the correlation of two columns over rows carrying both.
func pearson(obs []model.Observation, a, b string) float64 {
	var xs, ys []float64
	for _, o := range obs {
		x, okX := o.Value(a)
		y, okY := o.Value(b)
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}

	n := float64(len(xs))
	if n < 2 {
		return math.NaN()
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}
