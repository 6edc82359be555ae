// Package index implements the Bare Necessities Index (BNI), a weighted
// composite of amenity access percentages scaled to [0,1].
package index

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// weightTolerance bounds the floating error accepted when checking that
// weights sum to 1.0.
const weightTolerance = 1e-9

// Weights maps indicator columns to their share of the composite score.
type Weights map[string]float64

// DefaultWeights returns the Economic Survey weighting of the seven amenity
// dimensions. The values sum to 1.00.
func DefaultWeights() Weights {
	return Weights{
		model.ColPipedWater:   0.15,
		model.ColSafeWater:    0.15,
		model.ColToilet:       0.20,
		model.ColPuccaHousing: 0.15,
		model.ColElectricity:  0.15,
		model.ColLPG:          0.10,
		model.ColFoodSecure:   0.10,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	return sum
}

// Validate checks that every weight is non-negative and the total is 1.0.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return eris.New("index: no weights defined")
	}

	var errs []string
	for col, v := range w {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("weight for %s must be >= 0", col))
		}
	}
	sort.Strings(errs)

	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		errs = append(errs, fmt.Sprintf("weights sum to %.6f, want 1.0", sum))
	}

	if len(errs) > 0 {
		return eris.New("index: invalid weights: " + strings.Join(errs, "; "))
	}
	return nil
}

// Calculator computes composite scores over observations.
type Calculator struct {
	weights Weights
}

// NewCalculator creates a Calculator after validating the weights.
func NewCalculator(weights Weights) (*Calculator, error) {
	if weights == nil {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{weights: weights}, nil
}

// Weights returns the calculator's weight table.
func (c *Calculator) Weights() Weights { return c.weights }

// Score computes the composite score for one observation.
//
// A missing indicator contributes 0: the fill happens BEFORE the weight is
// applied, so absence of data penalizes the score instead of renormalizing
// the remaining weights. An indicator column that is absent from the whole
// dataset therefore degrades every score rather than failing the pipeline.
func (c *Calculator) Score(o model.Observation) float64 {
	var total float64
	for col, weight := range c.weights {
		v, ok := o.Value(col)
		if !ok {
			v = 0 // missing-as-zero scoring policy
		}
		total += v * weight
	}
	return total / 100
}

// Apply recomputes the composite score for every observation in place,
// storing it under the bni_score column.
func (c *Calculator) Apply(d *model.Dataset) {
	for i := range d.Observations {
		d.Observations[i].SetValue(model.ColBNIScore, c.Score(d.Observations[i]))
	}
}
