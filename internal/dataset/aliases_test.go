package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatstats/amenities-cli/internal/model"
)

func writeAliasFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAliasFile(t *testing.T) {
	path := writeAliasFile(t, `
aliases:
  hh_with_tap: piped_water
  Survey Year: period
`)

	aliases, err := LoadAliasFile(path)
	require.NoError(t, err)
	assert.Equal(t, model.ColPipedWater, aliases["hh_with_tap"])
	// Keys are folded the same way column headers are.
	assert.Equal(t, model.ColPeriod, aliases["survey_year"])
}

func TestLoadAliasFile_UnknownTarget(t *testing.T) {
	path := writeAliasFile(t, `
aliases:
  foo: not_a_column
`)

	_, err := LoadAliasFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column")
}

func TestLoadAliasFile_MissingFile(t *testing.T) {
	_, err := LoadAliasFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadAliasFile_BadYAML(t *testing.T) {
	path := writeAliasFile(t, "aliases: [not a map")
	_, err := LoadAliasFile(path)
	require.Error(t, err)
}

func TestFoldColumn(t *testing.T) {
	assert.Equal(t, "toilet_access", foldColumn(" Toilet Access "))
	assert.Equal(t, "safe_water", foldColumn("Safe-Water"))
}
