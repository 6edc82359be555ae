// Package model defines the canonical data model shared by the loaders,
// the index calculator, and the analysis queries.
package model

import (
	"sort"
	"strings"
)

// AreaClass designates an observation as rural or urban.
type AreaClass string

const (
	AreaRural AreaClass = "rural"
	AreaUrban AreaClass = "urban"
)

// ParseAreaClass normalizes a raw area designation. Recognizes common
// source spellings ("Rural", "URBAN", "R", "U").
func ParseAreaClass(s string) (AreaClass, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rural", "r":
		return AreaRural, true
	case "urban", "u":
		return AreaUrban, true
	}
	return "", false
}

// Canonical non-indicator column names.
const (
	ColRegion     = "region"
	ColPeriod     = "period"
	ColAreaClass  = "area_class"
	ColPopulation = "population"
	ColBNIScore   = "bni_score"
)

// Canonical indicator column names. Values are percentages in [0,100];
// a key absent from Observation.Values means the value is missing.
const (
	ColPipedWater     = "piped_water"
	ColSafeWater      = "safe_water"
	ColWaterPremises  = "water_premises"
	ColToilet         = "toilet"
	ColSepticTank     = "septic_tank"
	ColOpenDefecation = "open_defecation"
	ColPuccaHousing   = "pucca_housing"
	ColElectricity    = "electricity"
	ColLPG            = "lpg"
	ColFoodSecure     = "food_secure"
	ColMalnourished   = "malnourished_children"
	ColMPCE           = "mpce"
	ColPovertyRate    = "poverty_rate"
)

// IndicatorColumns returns every canonical indicator column, in export order.
func IndicatorColumns() []string {
	return []string{
		ColPipedWater, ColSafeWater, ColWaterPremises,
		ColToilet, ColSepticTank, ColOpenDefecation,
		ColPuccaHousing, ColElectricity, ColLPG,
		ColFoodSecure, ColMalnourished,
		ColMPCE, ColPovertyRate,
	}
}

// PercentageColumns returns the indicator columns bounded to [0,100].
// MPCE is an absolute rupee amount and is excluded from range checks.
func PercentageColumns() []string {
	return []string{
		ColPipedWater, ColSafeWater, ColWaterPremises,
		ColToilet, ColSepticTank, ColOpenDefecation,
		ColPuccaHousing, ColElectricity, ColLPG,
		ColFoodSecure, ColMalnourished, ColPovertyRate,
	}
}

// Key is the natural key of an observation. No two observations in a
// normalized dataset share the same key.
type Key struct {
	Region string
	Period int
	Area   AreaClass
}

// Observation is one row of the dataset: a geographic unit at a point in
// time, split by area class, with its indicator percentages.
type Observation struct {
	Region     string             `json:"region"`
	Period     int                `json:"period"`
	Area       AreaClass          `json:"area_class"`
	Population int64              `json:"population"`
	Values     map[string]float64 `json:"values"`
}

// NaturalKey returns the (region, period, area_class) key for merges and joins.
func (o Observation) NaturalKey() Key {
	return Key{Region: o.Region, Period: o.Period, Area: o.Area}
}

// Value reads an indicator; the second return reports presence.
func (o Observation) Value(col string) (float64, bool) {
	v, ok := o.Values[col]
	return v, ok
}

// SetValue writes an indicator value, allocating the map on first use.
func (o *Observation) SetValue(col string, v float64) {
	if o.Values == nil {
		o.Values = make(map[string]float64)
	}
	o.Values[col] = v
}

// Clone deep-copies the observation, including its value map.
func (o Observation) Clone() Observation {
	c := o
	if o.Values != nil {
		c.Values = make(map[string]float64, len(o.Values))
		for k, v := range o.Values {
			c.Values[k] = v
		}
	}
	return c
}

// Dataset is an in-memory collection of observations. Analysis queries
// treat it as an immutable snapshot; anything that derives new columns
// works on a Clone.
type Dataset struct {
	Observations []Observation `json:"observations"`
}

// Len returns the number of observations.
func (d Dataset) Len() int { return len(d.Observations) }

// Clone deep-copies the dataset.
func (d Dataset) Clone() Dataset {
	out := Dataset{Observations: make([]Observation, len(d.Observations))}
	for i, o := range d.Observations {
		out.Observations[i] = o.Clone()
	}
	return out
}

// Periods returns the distinct periods in ascending order.
func (d Dataset) Periods() []int {
	seen := make(map[int]bool)
	var periods []int
	for _, o := range d.Observations {
		if !seen[o.Period] {
			seen[o.Period] = true
			periods = append(periods, o.Period)
		}
	}
	sort.Ints(periods)
	return periods
}

// LatestPeriod returns the maximum period. ok is false for an empty dataset.
func (d Dataset) LatestPeriod() (period int, ok bool) {
	for i, o := range d.Observations {
		if i == 0 || o.Period > period {
			period = o.Period
		}
		ok = true
	}
	return period, ok
}

// FilterPeriod returns the observations for one period, preserving order.
// The returned dataset shares value maps with the receiver and must be
// treated as read-only.
func (d Dataset) FilterPeriod(period int) Dataset {
	var out Dataset
	for _, o := range d.Observations {
		if o.Period == period {
			out.Observations = append(out.Observations, o)
		}
	}
	return out
}

// Regions returns the distinct regions in first-seen order.
func (d Dataset) Regions() []string {
	seen := make(map[string]bool)
	var regions []string
	for _, o := range d.Observations {
		if !seen[o.Region] {
			seen[o.Region] = true
			regions = append(regions, o.Region)
		}
	}
	return regions
}
