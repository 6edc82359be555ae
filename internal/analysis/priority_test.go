package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatstats/amenities-cli/internal/model"
)

func scored(region string, area model.AreaClass, period int, score float64) model.Observation {
	o := model.Observation{Region: region, Period: period, Area: area, Population: 1000}
	o.SetValue(model.ColBNIScore, score)
	return o
}

func TestPriority_SortsAscending(t *testing.T) {
	d := model.Dataset{Observations: []model.Observation{
		scored("Kerala", model.AreaUrban, 2023, 0.9),
		scored("Bihar", model.AreaRural, 2023, 0.3),
		scored("Assam", model.AreaRural, 2023, 0.45),
	}}

	areas, err := Priority(d, 0.5)
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, "Bihar", areas[0].Region)
	assert.Equal(t, "Assam", areas[1].Region)
}

func TestPriority_EmptyResultIsValid(t *testing.T) {
	d := model.Dataset{Observations: []model.Observation{
		scored("Kerala", model.AreaUrban, 2023, 0.9),
	}}

	areas, err := Priority(d, 0.5)
	require.NoError(t, err)
	assert.Empty(t, areas)
}

func TestPriority_EmptyDataset(t *testing.T) {
	_, err := Priority(model.Dataset{}, 0.5)
	require.ErrorIs(t, err, ErrInsufficientData)
}

func TestPriority_LatestPeriodOnly(t *testing.T) {
	d := model.Dataset{Observations: []model.Observation{
		scored("Bihar", model.AreaRural, 2012, 0.1),
		scored("Bihar", model.AreaRural, 2023, 0.6),
	}}

	areas, err := Priority(d, 0.5)
	require.NoError(t, err)
	assert.Empty(t, areas, "2012 observation must not leak into the ranking")
}

func TestPriority_MonotoneInThreshold(t *testing.T) {
	d := model.Dataset{Observations: []model.Observation{
		scored("A", model.AreaRural, 2023, 0.2),
		scored("B", model.AreaRural, 2023, 0.4),
		scored("C", model.AreaRural, 2023, 0.6),
		scored("D", model.AreaRural, 2023, 0.8),
	}}

	low, err := Priority(d, 0.3)
	require.NoError(t, err)
	high, err := Priority(d, 0.7)
	require.NoError(t, err)

	// Every area selected at T1 must be selected at T2 > T1.
	members := make(map[string]bool)
	for _, a := range high {
		members[a.Region] = true
	}
	for _, a := range low {
		assert.True(t, members[a.Region], "region %s in low set but not high set", a.Region)
	}
	assert.Len(t, low, 1)
	assert.Len(t, high, 3)
}

func TestPriority_StableTies(t *testing.T) {
	d := model.Dataset{Observations: []model.Observation{
		scored("First", model.AreaRural, 2023, 0.3),
		scored("Second", model.AreaUrban, 2023, 0.3),
		scored("Third", model.AreaRural, 2023, 0.3),
	}}

	areas, err := Priority(d, 0.5)
	require.NoError(t, err)
	require.Len(t, areas, 3)
	assert.Equal(t, "First", areas[0].Region)
	assert.Equal(t, "Second", areas[1].Region)
	assert.Equal(t, "Third", areas[2].Region)
}

func TestPriority_MissingScoreCountsAsZero(t *testing.T) {
	noScore := model.Observation{Region: "Unknown", Period: 2023, Area: model.AreaRural}
	d := model.Dataset{Observations: []model.Observation{
		scored("Bihar", model.AreaRural, 2023, 0.3),
		noScore,
	}}

	areas, err := Priority(d, 0.5)
	require.NoError(t, err)
	require.Len(t, areas, 2)
	assert.Equal(t, "Unknown", areas[0].Region)
	assert.Equal(t, 0.0, areas[0].Score)
}
