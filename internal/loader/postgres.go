package loader

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/bharatstats/amenities-cli/internal/dataset"
	"github.com/bharatstats/amenities-cli/internal/db"
	"github.com/bharatstats/amenities-cli/internal/model"
)

// PostgresSource reads a survey table from a warehouse query. Column names
// from the result set go through the same alias normalization as file
// headers, so warehouse views need no special naming.
type PostgresSource struct {
	pool  db.Pool
	query string
}

// NewPostgresSource creates a source over an existing pool.
func NewPostgresSource(pool db.Pool, query string) *PostgresSource {
	return &PostgresSource{pool: pool, query: query}
}

// Table runs the query and renders the result set as a table.
func (s *PostgresSource) Table(ctx context.Context) (model.Table, error) {
	rows, err := s.pool.Query(ctx, s.query)
	if err != nil {
		return model.Table{}, eris.Wrap(err, "postgres: query")
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	t := model.Table{Columns: make([]string, len(fields))}
	for i, f := range fields {
		t.Columns[i] = f.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return model.Table{}, eris.Wrap(err, "postgres: read row values")
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = pgCell(v)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return model.Table{}, eris.Wrap(err, "postgres: iterate rows")
	}

	return t, nil
}

// LoadPostgres loads and normalizes a warehouse source. Failures surface as
// *LoadFailure like any file source.
func (l *Loader) LoadPostgres(ctx context.Context, name string, src *PostgresSource) (model.Dataset, dataset.Report, error) {
	table, err := src.Table(ctx)
	if err != nil {
		return model.Dataset{}, dataset.Report{}, &LoadFailure{Source: name, Err: err}
	}
	d, report := l.norm.Normalize(table)
	return d, report, nil
}

func pgCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
