package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/bharatstats/amenities-cli/internal/model"
)

// A snapshot is a single-file SQLite artifact for downstream tools (BI,
// notebooks). The pipeline only ever writes it; nothing here reads one back.

func snapshotSchema() string {
	var cols strings.Builder
	for _, c := range model.IndicatorColumns() {
		fmt.Fprintf(&cols, "\t%s REAL,\n", c)
	}
	return `
CREATE TABLE IF NOT EXISTS snapshots (
	id         TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	row_count  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS observations (
	id          TEXT PRIMARY KEY,
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id),
	region      TEXT NOT NULL,
	period      INTEGER NOT NULL,
	area_class  TEXT NOT NULL,
	population  INTEGER NOT NULL,
` + cols.String() + `	bni_score   REAL
);

CREATE INDEX IF NOT EXISTS idx_observations_snapshot ON observations(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_observations_key ON observations(region, period, area_class);
`
}

// WriteSnapshot writes the dataset into a SQLite file at path and returns
// the generated snapshot id. An existing file gains a new snapshot rather
// than being overwritten.
func WriteSnapshot(ctx context.Context, path string, d model.Dataset) (string, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", eris.Wrap(err, "snapshot: open")
	}
	defer db.Close() //nolint:errcheck

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return "", eris.Wrapf(err, "snapshot: exec %s", pragma)
		}
	}

	if _, err := db.ExecContext(ctx, snapshotSchema()); err != nil {
		return "", eris.Wrap(err, "snapshot: migrate")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", eris.Wrap(err, "snapshot: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, created_at, row_count) VALUES (?, ?, ?)`,
		id, time.Now().UTC(), d.Len(),
	); err != nil {
		return "", eris.Wrap(err, "snapshot: insert snapshot")
	}

	valueCols := append(model.IndicatorColumns(), model.ColBNIScore)
	cols := []string{"id", "snapshot_id", "region", "period", "area_class", "population"}
	cols = append(cols, valueCols...)
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO observations (%s) VALUES (%s)`,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
	))
	if err != nil {
		return "", eris.Wrap(err, "snapshot: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, o := range d.Observations {
		args := []any{uuid.New().String(), id, o.Region, o.Period, string(o.Area), o.Population}
		for _, col := range valueCols {
			if v, ok := o.Value(col); ok {
				args = append(args, v)
			} else {
				args = append(args, nil)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return "", eris.Wrapf(err, "snapshot: insert observation %s/%d/%s", o.Region, o.Period, o.Area)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", eris.Wrap(err, "snapshot: commit")
	}
	return id, nil
}
