package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 5.0, cfg.Metrics.HouseholdSize, 0.001)
	assert.InDelta(t, 15000, cfg.Metrics.UnitCosts["water"], 0.001)
	assert.InDelta(t, 120000, cfg.Metrics.UnitCosts["housing"], 0.001)
	assert.Equal(t, int64(42), cfg.Generate.Seed)
	assert.Equal(t, []int{2012, 2018, 2023}, cfg.Generate.Periods)
	assert.Equal(t, 60, cfg.Loader.TimeoutSecs)
	assert.Equal(t, 2, cfg.Loader.MaxRetries)
	assert.Equal(t, 4, cfg.Loader.MaxConcurrency)
	assert.InDelta(t, 0.5, cfg.Analysis.PriorityThreshold, 0.001)
	assert.Equal(t, 10, cfg.Analysis.TopN)
	assert.Empty(t, cfg.Index.Weights)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
metrics:
  household_size: 4.8
analysis:
  priority_threshold: 0.4
index:
  weights:
    toilet: 0.5
    electricity: 0.5
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 4.8, cfg.Metrics.HouseholdSize, 0.001)
	assert.InDelta(t, 0.4, cfg.Analysis.PriorityThreshold, 0.001)
	assert.InDelta(t, 0.5, cfg.Index.Weights["toilet"], 0.001)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
