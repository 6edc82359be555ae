package fetcher

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// CSVOptions configures the CSV table reader.
type CSVOptions struct {
	Delimiter rune // default ','
	Comment   rune // comment character (0 = none)
	// Encoding selects the input charset. State portals still publish
	// Latin-1 files with mangled rupee signs; "latin1" transcodes to UTF-8.
	Encoding   string // "", "utf-8", or "latin1"
	LazyQuotes bool
	TrimSpace  bool
}

// ReadCSVTable parses a CSV stream into a table. The first record is the
// header; later records may be ragged and are kept as-is.
func ReadCSVTable(r io.Reader, opts CSVOptions) (model.Table, error) {
	switch strings.ToLower(opts.Encoding) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return model.Table{}, eris.Errorf("csv: unsupported encoding %q", opts.Encoding)
	}

	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1

	var t model.Table
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Table{}, eris.Wrap(err, "csv: read record")
		}
		if opts.TrimSpace {
			for i, field := range record {
				record[i] = strings.TrimSpace(field)
			}
		}
		if t.Columns == nil {
			t.Columns = record
			continue
		}
		t.Rows = append(t.Rows, record)
	}

	if t.Columns == nil {
		return model.Table{}, eris.New("csv: empty input")
	}
	return t, nil
}
