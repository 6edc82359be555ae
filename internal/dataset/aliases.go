package dataset

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// defaultAliases maps known source-schema column spellings to canonical
// names. Lookup is exact after folding (lowercase, spaces and dashes to
// underscores) — deliberately no substring matching, which can silently
// rename the wrong column when several share a fragment.
func defaultAliases() map[string]string {
	return map[string]string{
		// Geographic / key columns.
		"state":      model.ColRegion,
		"state_name": model.ColRegion,
		"district":   model.ColRegion,
		"year":       model.ColPeriod,
		"area":       model.ColAreaClass,
		"area_type":  model.ColAreaClass,
		"sector":     model.ColAreaClass,
		"pop":        model.ColPopulation,

		// Water.
		"piped_water_access":    model.ColPipedWater,
		"safe_drinking_water":   model.ColSafeWater,
		"water_access":          model.ColWaterPremises,
		"water_within_premises": model.ColWaterPremises,

		// Sanitation.
		"toilet_access":      model.ColToilet,
		"latrine":            model.ColToilet,
		"septic_tank_access": model.ColSepticTank,

		// Housing and energy.
		"pucca_house":        model.ColPuccaHousing,
		"electricity_access": model.ColElectricity,
		"lpg_access":         model.ColLPG,

		// Food security and economics.
		"food_secure_households": model.ColFoodSecure,
		"mpce_rupees":            model.ColMPCE,
		"below_poverty_line":     model.ColPovertyRate,
		"bpl":                    model.ColPovertyRate,
	}
}

// canonicalColumns is the set of valid alias targets.
func canonicalColumns() map[string]bool {
	cols := map[string]bool{
		model.ColRegion:     true,
		model.ColPeriod:     true,
		model.ColAreaClass:  true,
		model.ColPopulation: true,
		model.ColBNIScore:   true,
	}
	for _, c := range model.IndicatorColumns() {
		cols[c] = true
	}
	return cols
}

// foldColumn normalizes a raw column name for alias lookup.
func foldColumn(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// LoadAliasFile reads extra column aliases from a YAML file of the form
//
//	aliases:
//	  hh_with_tap: piped_water
//	  survey_year: period
//
// Every target must be a canonical column name.
func LoadAliasFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read alias file %s", path)
	}

	var wrapper struct {
		Aliases map[string]string `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrapf(err, "dataset: parse alias file %s", path)
	}

	valid := canonicalColumns()
	out := make(map[string]string, len(wrapper.Aliases))
	for alias, target := range wrapper.Aliases {
		if !valid[target] {
			return nil, eris.Errorf("dataset: alias %q maps to unknown column %q", alias, target)
		}
		out[foldColumn(alias)] = target
	}
	return out, nil
}
