// Package export writes the normalized dataset to external artifacts: a
// canonical CSV for spreadsheets and a SQLite snapshot for downstream tools.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// Columns returns the canonical export header: key columns, population,
// every indicator, then the composite score.
func Columns() []string {
	cols := []string{model.ColRegion, model.ColPeriod, model.ColAreaClass, model.ColPopulation}
	cols = append(cols, model.IndicatorColumns()...)
	return append(cols, model.ColBNIScore)
}

// WriteCSV writes the dataset as canonical CSV. Rows are ordered by
// (region, period, area_class) so repeated exports of the same data are
// byte-identical. Missing values become empty cells.
func WriteCSV(w io.Writer, d model.Dataset) error {
	obs := make([]model.Observation, len(d.Observations))
	copy(obs, d.Observations)
	sort.SliceStable(obs, func(i, j int) bool {
		if obs[i].Region != obs[j].Region {
			return obs[i].Region < obs[j].Region
		}
		if obs[i].Period != obs[j].Period {
			return obs[i].Period < obs[j].Period
		}
		return obs[i].Area < obs[j].Area
	})

	cw := csv.NewWriter(w)
	cols := Columns()
	if err := cw.Write(cols); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	row := make([]string, len(cols))
	for _, o := range obs {
		row[0] = o.Region
		row[1] = strconv.Itoa(o.Period)
		row[2] = string(o.Area)
		row[3] = strconv.FormatInt(o.Population, 10)
		for i, col := range cols[4:] {
			if v, ok := o.Value(col); ok {
				row[4+i] = formatNumber(v)
			} else {
				row[4+i] = ""
			}
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush")
}

// WriteCSVFile writes the canonical CSV to a file path.
func WriteCSVFile(path string, d model.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	if err := WriteCSV(f, d); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrap(f.Close(), "export: close file")
}

// formatNumber renders a value with full precision but never fewer than two
// decimal places.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s + ".00"
	}
	if len(s)-dot-1 < 2 {
		return s + "0"
	}
	return s
}
