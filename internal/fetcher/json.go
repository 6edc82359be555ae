package fetcher

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// portalPayload is the envelope the data.gov.in resource API wraps records
// in. Only the parts we read are declared.
type portalPayload struct {
	Fields []struct {
		ID string `json:"id"`
	} `json:"field"`
	Records []map[string]any `json:"records"`
}

// cellString renders a decoded JSON value as a table cell. Numbers decode as
// json.Number, so no float formatting is involved.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// ReadPortalTable decodes a data.gov.in resource payload into a table.
// Column order follows the payload's field declarations; records missing a
// field produce an empty cell.
func ReadPortalTable(r io.Reader) (model.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var payload portalPayload
	if err := dec.Decode(&payload); err != nil {
		return model.Table{}, eris.Wrap(err, "json: decode portal payload")
	}
	if len(payload.Fields) == 0 {
		return model.Table{}, eris.New("json: portal payload has no field declarations")
	}

	t := model.Table{Columns: make([]string, len(payload.Fields))}
	for i, f := range payload.Fields {
		t.Columns[i] = f.ID
	}

	for _, rec := range payload.Records {
		row := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			row[i] = cellString(rec[col])
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// ReadJSONTable decodes a plain JSON array of flat objects into a table.
// Columns are the sorted union of all keys so the result is deterministic
// regardless of per-record key order.
func ReadJSONTable(r io.Reader) (model.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var records []map[string]any
	if err := dec.Decode(&records); err != nil {
		return model.Table{}, eris.Wrap(err, "json: decode array")
	}

	seen := make(map[string]bool)
	var cols []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)

	t := model.Table{Columns: cols}
	for _, rec := range records {
		row := make([]string, len(cols))
		for i, col := range cols {
			if v, ok := rec[col]; ok {
				row[i] = cellString(v)
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}
