package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatstats/amenities-cli/internal/model"
)

func withScore(region string, period int, score float64) model.Observation {
	o := model.Observation{Region: region, Period: period, Area: model.AreaRural}
	o.SetValue(model.ColBNIScore, score)
	return o
}

func TestTrendFor_AnnualizedRate(t *testing.T) {
	// Mean 0.40 in 2017, 0.50 in 2023: +0.10 over 6 years = 0.0167/year.
	d := model.Dataset{Observations: []model.Observation{
		withScore("A", 2017, 0.35),
		withScore("B", 2017, 0.45),
		withScore("A", 2023, 0.48),
		withScore("B", 2023, 0.52),
	}}

	trend, err := TrendFor(d, model.ColBNIScore)
	require.NoError(t, err)

	require.Len(t, trend.Points, 2)
	assert.InDelta(t, 0.40, trend.Points[0].Mean, 1e-9)
	assert.InDelta(t, 0.50, trend.Points[1].Mean, 1e-9)
	assert.InDelta(t, 0.10, trend.Change, 1e-9)
	assert.Equal(t, 6, trend.SpanYears)
	assert.InDelta(t, 0.10/6, trend.AnnualRate, 1e-9)
}

func TestTrendFor_SinglePeriodUndefined(t *testing.T) {
	d := model.Dataset{Observations: []model.Observation{
		withScore("A", 2023, 0.5),
		withScore("B", 2023, 0.7),
	}}

	_, err := TrendFor(d, model.ColBNIScore)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestTrendFor_EmptyDataset(t *testing.T) {
	_, err := TrendFor(model.Dataset{}, model.ColBNIScore)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestTrendFor_SkipsPeriodsWithoutMetric(t *testing.T) {
	blank := model.Observation{Region: "A", Period: 2018, Area: model.AreaRural}
	d := model.Dataset{Observations: []model.Observation{
		withScore("A", 2012, 0.30),
		blank,
		withScore("A", 2023, 0.60),
	}}

	trend, err := TrendFor(d, model.ColBNIScore)
	require.NoError(t, err)
	require.Len(t, trend.Points, 2)
	assert.Equal(t, 2012, trend.Points[0].Period)
	assert.Equal(t, 2023, trend.Points[1].Period)
	assert.Equal(t, 11, trend.SpanYears)
}

func TestFastestImproving(t *testing.T) {
	d := model.Dataset{Observations: []model.Observation{
		withScore("Slow", 2012, 0.50),
		withScore("Fast", 2012, 0.30),
		withScore("NoEnd", 2012, 0.20),
		withScore("Slow", 2023, 0.55),
		withScore("Fast", 2023, 0.70),
	}}

	changes, err := FastestImproving(d, model.ColBNIScore, 0)
	require.NoError(t, err)

	// NoEnd lacks a 2023 value and is excluded.
	require.Len(t, changes, 2)
	assert.Equal(t, "Fast", changes[0].Region)
	assert.InDelta(t, 0.40, changes[0].Change, 1e-9)
	assert.Equal(t, "Slow", changes[1].Region)
	assert.InDelta(t, 0.05, changes[1].Change, 1e-9)
}

func TestFastestImproving_LimitAndInsufficient(t *testing.T) {
	d := model.Dataset{Observations: []model.Observation{
		withScore("A", 2012, 0.1), withScore("A", 2023, 0.2),
		withScore("B", 2012, 0.1), withScore("B", 2023, 0.5),
	}}

	changes, err := FastestImproving(d, model.ColBNIScore, 1)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "B", changes[0].Region)

	_, err = FastestImproving(model.Dataset{Observations: []model.Observation{withScore("A", 2023, 0.5)}}, model.ColBNIScore, 0)
	require.ErrorIs(t, err, ErrInsufficientData)
}
