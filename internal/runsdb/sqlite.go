// Package runsdb keeps a SQLite history of completed coverage runs. Only
// finished runs are recorded; nothing here checkpoints a run in flight.
package runsdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

type RunRecord struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Width      int
	Length     int
	Cells      int
	Harvested  int
	DumpCycles int
	FuelBurned int
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  started_at  TEXT NOT NULL,
  finished_at TEXT NOT NULL,
  width       INTEGER NOT NULL,
  length      INTEGER NOT NULL,
  cells       INTEGER NOT NULL,
  harvested   INTEGER NOT NULL,
  dump_cycles INTEGER NOT NULL,
  fuel_burned INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func Open(path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("runsdb: empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

func (d *DB) RecordRun(rec RunRecord) error {
	_, err := d.db.Exec(`
INSERT INTO runs (started_at, finished_at, width, length, cells, harvested, dump_cycles, fuel_burned)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
		rec.Width, rec.Length, rec.Cells, rec.Harvested, rec.DumpCycles, rec.FuelBurned,
	)
	if err != nil {
		return fmt.Errorf("runsdb: insert run: %w", err)
	}
	return nil
}

// LastRuns returns up to n most recent runs, newest first.
func (d *DB) LastRuns(n int) ([]RunRecord, error) {
	rows, err := d.db.Query(`
SELECT started_at, finished_at, width, length, cells, harvested, dump_cycles, fuel_burned
FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var started, finished string
		if err := rows.Scan(&started, &finished, &rec.Width, &rec.Length,
			&rec.Cells, &rec.Harvested, &rec.DumpCycles, &rec.FuelBurned); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, err
		}
		if rec.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
