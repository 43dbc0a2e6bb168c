package record

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run INTEGER PRIMARY KEY,
	seed INTEGER NOT NULL,
	label TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
	run INTEGER NOT NULL,
	step INTEGER NOT NULL,
	key TEXT NOT NULL,
	idx INTEGER NOT NULL,
	value REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS histograms (
	run INTEGER NOT NULL,
	key TEXT NOT NULL,
	idx INTEGER NOT NULL,
	value INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS params (
	run INTEGER NOT NULL,
	name TEXT NOT NULL,
	value REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshots (
	run INTEGER NOT NULL,
	step INTEGER NOT NULL,
	payload BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS samples_run_key ON samples(run, key);
`

// SQLiteSink persists recorded runs into a single SQLite file.
type SQLiteSink struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLiteSink, error) {
	if path == "" {
		path = "virosim.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &SQLiteSink{db: db, path: path}, nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error { return s.db.Close() }

// Path returns the database file.
func (s *SQLiteSink) Path() string { return s.path }

// NewRun registers a run and returns its id.
func (s *SQLiteSink) NewRun(seed int64, label string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO runs (seed, label) VALUES (?, ?)`, seed, label)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// SaveRun writes every series and histogram of m under run in a single
// transaction.
func (s *SQLiteSink) SaveRun(run int64, m *Memory) (retErr error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	sample, err := tx.Prepare(`INSERT INTO samples (run, step, key, idx, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare samples: %w", err)
	}
	defer func() { _ = sample.Close() }()
	for _, key := range m.Keys() {
		series := m.series[key]
		for i, row := range series.Rows {
			for idx, v := range row {
				if _, err := sample.Exec(run, series.Steps[i], key, idx, v); err != nil {
					return fmt.Errorf("insert sample %s: %w", key, err)
				}
			}
		}
	}

	hist, err := tx.Prepare(`INSERT INTO histograms (run, key, idx, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare histograms: %w", err)
	}
	defer func() { _ = hist.Close() }()
	for _, key := range m.HistogramKeys() {
		for idx, v := range m.histograms[key] {
			if _, err := hist.Exec(run, key, idx, v); err != nil {
				return fmt.Errorf("insert histogram %s: %w", key, err)
			}
		}
	}
	return tx.Commit()
}

// SaveParams stores a parameter snapshot for run.
func (s *SQLiteSink) SaveParams(run int64, params map[string]float64) (retErr error) {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := tx.Exec(`INSERT INTO params (run, name, value) VALUES (?, ?, ?)`, run, name, params[name]); err != nil {
			return fmt.Errorf("insert param %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// SaveSnapshot stores v as a JSON blob for run at step.
func (s *SQLiteSink) SaveSnapshot(run int64, step int, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := s.db.Exec(`INSERT INTO snapshots (run, step, payload) VALUES (?, ?, ?)`, run, step, payload); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// LoadSeries reads key for run back as a Series.
func (s *SQLiteSink) LoadSeries(run int64, key string) (*Series, error) {
	rows, err := s.db.Query(`SELECT step, idx, value FROM samples WHERE run = ? AND key = ? ORDER BY step, idx`, run, key)
	if err != nil {
		return nil, fmt.Errorf("select samples: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := &Series{}
	for rows.Next() {
		var step, idx int
		var v float64
		if err := rows.Scan(&step, &idx, &v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if n := out.Len(); n == 0 || out.Steps[n-1] != step {
			out.Steps = append(out.Steps, step)
			out.Rows = append(out.Rows, nil)
		}
		last := out.Len() - 1
		out.Rows[last] = append(out.Rows[last], v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("no samples for run %d key %q", run, key)
	}
	return out, nil
}

// LoadParams reads the parameter snapshot of run.
func (s *SQLiteSink) LoadParams(run int64) (map[string]float64, error) {
	rows, err := s.db.Query(`SELECT name, value FROM params WHERE run = ?`, run)
	if err != nil {
		return nil, fmt.Errorf("select params: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := make(map[string]float64)
	for rows.Next() {
		var name string
		var v float64
		if err := rows.Scan(&name, &v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out[name] = v
	}
	return out, rows.Err()
}

// CountSnapshots returns how many snapshots run has.
func (s *SQLiteSink) CountSnapshots(run int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE run = ?`, run).Scan(&n)
	return n, err
}
