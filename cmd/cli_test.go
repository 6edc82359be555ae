package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execCLI runs the root command with args and returns captured stdout.
func execCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateCommand_Deterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")

	_, err := execCLI(t, "generate", "--seed", "7", "--output", first)
	require.NoError(t, err)
	_, err = execCLI(t, "generate", "--seed", "7", "--output", second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	records, err := csv.NewReader(bytes.NewReader(a)).ReadAll()
	require.NoError(t, err)
	// 29 states x 2 classes x 3 years, plus the header.
	assert.Len(t, records, 29*2*3+1)
	assert.Equal(t, "region", records[0][0])
}

func TestScoreCommand_WritesScores(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw.csv")
	scored := filepath.Join(dir, "scored.csv")

	_, err := execCLI(t, "generate", "--seed", "7", "--output", raw)
	require.NoError(t, err)
	_, err = execCLI(t, "score", "--input", raw, "--output", scored)
	require.NoError(t, err)

	data, err := os.ReadFile(scored)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	header := records[0]
	scoreIdx := -1
	for i, col := range header {
		if col == "bni_score" {
			scoreIdx = i
		}
	}
	require.GreaterOrEqual(t, scoreIdx, 0)

	for _, row := range records[1:] {
		v, err := strconv.ParseFloat(row[scoreIdx], 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestLoadCommand_WarehouseOnlySkipsSyntheticFallback(t *testing.T) {
	// A declared warehouse query with no --input must not merge real rows
	// over the synthetic survey (first-wins would keep the fabricated
	// values). With no database configured the command fails instead of
	// silently exporting synthetic data.
	out, err := execCLI(t, "load", "--warehouse-query", "SELECT * FROM amenities.survey")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url not configured")
	assert.Empty(t, out)
}

func TestLoadCommand_MergesSources(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	out := filepath.Join(dir, "merged.csv")

	require.NoError(t, os.WriteFile(a, []byte(
		"state,year,sector,toilet_access\nKerala,2023,rural,95.2\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(
		"state,year,sector,lpg_access\nKerala,2023,rural,70.0\nBihar,2023,rural,40.0\n"), 0o644))

	_, err := execCLI(t, "load", "--input", a, "--input", b, "--output", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	content := string(data)
	// Outer join: two rows, Kerala carrying both indicators.
	records, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Contains(t, content, "Bihar")
}

func TestPriorityCommand_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw.csv")
	_, err := execCLI(t, "generate", "--seed", "7", "--output", raw)
	require.NoError(t, err)

	out, err := execCLI(t, "priority", "--input", raw, "--threshold", "2")
	require.NoError(t, err)

	var payload struct {
		Threshold float64 `json:"threshold"`
		Count     int     `json:"count"`
		Areas     []struct {
			Region string  `json:"region"`
			Score  float64 `json:"score"`
		} `json:"areas"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, 2.0, payload.Threshold)
	// Latest year only: 29 states x 2 classes.
	assert.Equal(t, 58, payload.Count)
	// Ascending: the first area is the worst-off.
	require.NotEmpty(t, payload.Areas)
	assert.LessOrEqual(t, payload.Areas[0].Score, payload.Areas[len(payload.Areas)-1].Score)
}

func TestTrendCommand_RequiresTwoPeriods(t *testing.T) {
	dir := t.TempDir()
	single := filepath.Join(dir, "single.csv")
	require.NoError(t, os.WriteFile(single, []byte(
		"state,year,sector,toilet_access\nKerala,2023,rural,95.2\n"), 0o644))

	_, err := execCLI(t, "trend", "--input", single, "--metric", "toilet")
	require.Error(t, err)
}
