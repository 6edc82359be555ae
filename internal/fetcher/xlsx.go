package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// XLSXOptions configures workbook parsing.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
	// SkipRows drops leading rows before the header. Census workbooks put
	// two or three title rows above the real column names.
	SkipRows int
}

// ReadXLSXTable reads one sheet of a workbook into a table. After skipping
// SkipRows, the first remaining row is the header.
func ReadXLSXTable(path string, opts XLSXOptions) (model.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return model.Table{}, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := pickSheet(f, opts)
	if err != nil {
		return model.Table{}, err
	}

	var t model.Table
	for i, row := range sheet.Rows {
		if i < opts.SkipRows {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if t.Columns == nil {
			t.Columns = cells
			continue
		}
		t.Rows = append(t.Rows, cells)
	}

	if t.Columns == nil {
		return model.Table{}, eris.Errorf("xlsx: sheet %q has no rows past the first %d", sheet.Name, opts.SkipRows)
	}
	return t, nil
}

func pickSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}
	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}
	return f.Sheets[opts.SheetIndex], nil
}
