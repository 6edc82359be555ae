package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// fullAccess returns an observation with every weighted indicator at the
// given percentage.
func fullAccess(pct float64) model.Observation {
	o := model.Observation{Region: "Kerala", Period: 2023, Area: model.AreaUrban}
	for col := range DefaultWeights() {
		o.SetValue(col, pct)
	}
	return o
}

func TestDefaultWeights_SumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultWeights().Sum(), 1e-12)
	require.NoError(t, DefaultWeights().Validate())
}

func TestScore_Bounds(t *testing.T) {
	calc, err := NewCalculator(nil)
	require.NoError(t, err)

	// All indicators at 100 -> exactly 1.0; all at 0 -> exactly 0.0.
	assert.InDelta(t, 1.0, calc.Score(fullAccess(100)), 1e-9)
	assert.InDelta(t, 0.0, calc.Score(fullAccess(0)), 1e-9)
}

func TestScore_MissingIndicatorCountsAsZero(t *testing.T) {
	calc, err := NewCalculator(nil)
	require.NoError(t, err)

	withZero := fullAccess(80)
	withZero.SetValue(model.ColToilet, 0)

	missing := fullAccess(80)
	delete(missing.Values, model.ColToilet)

	assert.InDelta(t, calc.Score(withZero), calc.Score(missing), 1e-12)
}

func TestScore_KnownValue(t *testing.T) {
	calc, err := NewCalculator(nil)
	require.NoError(t, err)

	o := model.Observation{}
	o.SetValue(model.ColPipedWater, 50)   // 0.15 * 50  = 7.5
	o.SetValue(model.ColSafeWater, 60)    // 0.15 * 60  = 9.0
	o.SetValue(model.ColToilet, 40)       // 0.20 * 40  = 8.0
	o.SetValue(model.ColPuccaHousing, 55) // 0.15 * 55  = 8.25
	o.SetValue(model.ColElectricity, 70)  // 0.15 * 70  = 10.5
	o.SetValue(model.ColLPG, 30)          // 0.10 * 30  = 3.0
	o.SetValue(model.ColFoodSecure, 65)   // 0.10 * 65  = 6.5
	// total = 52.75 -> 0.5275

	assert.InDelta(t, 0.5275, calc.Score(o), 1e-9)
}

func TestScore_ExtraColumnsIgnored(t *testing.T) {
	calc, err := NewCalculator(nil)
	require.NoError(t, err)

	o := fullAccess(100)
	o.SetValue(model.ColMPCE, 3000)
	o.SetValue(model.ColPovertyRate, 20)

	assert.InDelta(t, 1.0, calc.Score(o), 1e-9)
}

func TestApply_StoresScoreColumn(t *testing.T) {
	calc, err := NewCalculator(nil)
	require.NoError(t, err)

	d := model.Dataset{Observations: []model.Observation{fullAccess(100), fullAccess(0)}}
	calc.Apply(&d)

	s0, ok := d.Observations[0].Value(model.ColBNIScore)
	require.True(t, ok)
	assert.InDelta(t, 1.0, s0, 1e-9)

	s1, ok := d.Observations[1].Value(model.ColBNIScore)
	require.True(t, ok)
	assert.InDelta(t, 0.0, s1, 1e-9)
}

func TestNewCalculator_RejectsBadWeights(t *testing.T) {
	_, err := NewCalculator(Weights{model.ColToilet: 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sum to")

	_, err = NewCalculator(Weights{model.ColToilet: 1.5, model.ColLPG: -0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be >= 0")

	_, err = NewCalculator(Weights{})
	require.Error(t, err)
}

func TestNewCalculator_AcceptsCustomWeights(t *testing.T) {
	calc, err := NewCalculator(Weights{model.ColToilet: 0.5, model.ColElectricity: 0.5})
	require.NoError(t, err)

	o := model.Observation{}
	o.SetValue(model.ColToilet, 100)
	// electricity missing -> 0; score = 0.5 * 100 / 100 = 0.5
	assert.InDelta(t, 0.5, calc.Score(o), 1e-9)
}
