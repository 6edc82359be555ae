package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatstats/amenities-cli/internal/model"
)

func TestDescribe(t *testing.T) {
	mk := func(v float64) model.Observation {
		o := model.Observation{Region: "X", Period: 2023, Area: model.AreaRural}
		o.SetValue(model.ColToilet, v)
		return o
	}
	d := model.Dataset{Observations: []model.Observation{mk(10), mk(20), mk(30)}}

	stats := Describe(d, []string{model.ColToilet, model.ColLPG})

	s, ok := stats[model.ColToilet]
	require.True(t, ok)
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 20, s.Mean, 1e-9)
	assert.InDelta(t, 10, s.Std, 1e-9) // sample std of {10,20,30}
	assert.InDelta(t, 10, s.Min, 1e-9)
	assert.InDelta(t, 30, s.Max, 1e-9)

	// Column with no values is omitted rather than zero-filled.
	_, ok = stats[model.ColLPG]
	assert.False(t, ok)
}

func TestDescribe_SingleValueStdNaN(t *testing.T) {
	o := model.Observation{Region: "X", Period: 2023, Area: model.AreaRural}
	o.SetValue(model.ColToilet, 42)
	stats := Describe(model.Dataset{Observations: []model.Observation{o}}, []string{model.ColToilet})

	s := stats[model.ColToilet]
	assert.Equal(t, 1, s.Count)
	assert.True(t, math.IsNaN(s.Std))
}

func regionObs(region string, area model.AreaClass, score float64, pop int64) model.Observation {
	o := model.Observation{Region: region, Period: 2023, Area: area, Population: pop}
	o.SetValue(model.ColBNIScore, score)
	return o
}

func TestTopRegions_Descending(t *testing.T) {
	d := model.Dataset{Observations: []model.Observation{
		regionObs("Mid", model.AreaRural, 0.4, 100),
		regionObs("Mid", model.AreaUrban, 0.6, 200),
		regionObs("Best", model.AreaRural, 0.8, 100),
		regionObs("Best", model.AreaUrban, 0.9, 100),
		regionObs("Worst", model.AreaRural, 0.2, 500),
	}}

	top := TopRegions(d, model.ColBNIScore, 2023, 2, false)
	require.Len(t, top, 2)
	assert.Equal(t, "Best", top[0].Region)
	assert.InDelta(t, 0.85, top[0].Mean, 1e-9)
	assert.Equal(t, int64(200), top[0].Population)
	assert.Equal(t, "Mid", top[1].Region)
	assert.InDelta(t, 0.5, top[1].Mean, 1e-9)
}

func TestTopRegions_AscendingIsBottomView(t *testing.T) {
	d := model.Dataset{Observations: []model.Observation{
		regionObs("A", model.AreaRural, 0.8, 1),
		regionObs("B", model.AreaRural, 0.2, 1),
	}}

	bottom := TopRegions(d, model.ColBNIScore, 2023, 1, true)
	require.Len(t, bottom, 1)
	assert.Equal(t, "B", bottom[0].Region)
}

func TestTopRegions_StableTies(t *testing.T) {
	d := model.Dataset{Observations: []model.Observation{
		regionObs("First", model.AreaRural, 0.5, 1),
		regionObs("Second", model.AreaRural, 0.5, 1),
		regionObs("Third", model.AreaRural, 0.5, 1),
	}}

	ranked := TopRegions(d, model.ColBNIScore, 2023, 0, false)
	require.Len(t, ranked, 3)
	assert.Equal(t, "First", ranked[0].Region)
	assert.Equal(t, "Second", ranked[1].Region)
	assert.Equal(t, "Third", ranked[2].Region)
}
