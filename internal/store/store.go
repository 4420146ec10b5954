// Package store persists a catalog of pipeline runs to a local SQLite
// database so past runs and their diagnostics stay inspectable. The catalog
// is advisory: the pipeline works identically without it.
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/geostat-cli/internal/summary"
)

// Run is one recorded pipeline execution.
type Run struct {
	ID            string
	Command       string
	MicrodataPath string
	HealthPath    string
	OutputPath    string
	JoinMode      string

	Rows            int
	MissingHomicide int

	PersonsRead  int64
	PersonsKept  int64
	CountiesRead int64
	CountiesKept int64

	CreatedAt time.Time
}

// Store is a SQLite-backed run catalog.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the catalog at path and configures WAL mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	command          TEXT NOT NULL,
	microdata_path   TEXT NOT NULL,
	health_path      TEXT,
	output_path      TEXT,
	join_mode        TEXT,
	rows             INTEGER NOT NULL,
	missing_homicide INTEGER NOT NULL DEFAULT 0,
	persons_read     INTEGER NOT NULL DEFAULT 0,
	persons_kept     INTEGER NOT NULL DEFAULT 0,
	counties_read    INTEGER NOT NULL DEFAULT 0,
	counties_kept    INTEGER NOT NULL DEFAULT 0,
	created_at       DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS run_states (
	run_id        TEXT NOT NULL REFERENCES runs(id),
	state_fips    INTEGER NOT NULL,
	state_name    TEXT,
	education     REAL,
	insured_rate  REAL NOT NULL,
	homicide_rate REAL,
	PRIMARY KEY (run_id, state_fips)
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Migrate creates the catalog schema.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts one run and its emitted summary rows in a single
// transaction. The run's ID and timestamp are assigned here.
func (s *Store) RecordRun(ctx context.Context, run *Run, rows []summary.Row) error {
	run.ID = uuid.NewString()
	run.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "store: begin tx")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, command, microdata_path, health_path, output_path, join_mode,
			rows, missing_homicide, persons_read, persons_kept, counties_read, counties_kept, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.MicrodataPath, run.HealthPath, run.OutputPath, run.JoinMode,
		run.Rows, run.MissingHomicide, run.PersonsRead, run.PersonsKept, run.CountiesRead, run.CountiesKept,
		run.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "store: insert run")
	}

	for _, r := range rows {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_states (run_id, state_fips, state_name, education, insured_rate, homicide_rate)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, r.StateFIPS, nullString(r.StateName), nullFloat(r.EducationMean), r.InsuredRate, nullFloat(r.HomicideRate),
		)
		if err != nil {
			return eris.Wrapf(err, "store: insert state %d", r.StateFIPS)
		}
	}

	return eris.Wrap(tx.Commit(), "store: commit")
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, command, microdata_path, COALESCE(health_path, ''), COALESCE(output_path, ''),
			COALESCE(join_mode, ''), rows, missing_homicide,
			persons_read, persons_kept, counties_read, counties_kept, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: query runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Command, &r.MicrodataPath, &r.HealthPath, &r.OutputPath,
			&r.JoinMode, &r.Rows, &r.MissingHomicide,
			&r.PersonsRead, &r.PersonsKept, &r.CountiesRead, &r.CountiesKept, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate runs")
}

// RunStates returns the summary rows recorded for a run, in emitted order
// (education descending, ties by state code).
func (s *Store) RunStates(ctx context.Context, runID string) ([]summary.Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT state_fips, COALESCE(state_name, ''), education, insured_rate, homicide_rate
		FROM run_states WHERE run_id = ?
		ORDER BY education DESC, state_fips ASC`, runID)
	if err != nil {
		return nil, eris.Wrap(err, "store: query run states")
	}
	defer rows.Close()

	var out []summary.Row
	for rows.Next() {
		var r summary.Row
		var educ, homicide sql.NullFloat64
		if err := rows.Scan(&r.StateFIPS, &r.StateName, &educ, &r.InsuredRate, &homicide); err != nil {
			return nil, eris.Wrap(err, "store: scan run state")
		}
		if educ.Valid {
			v := educ.Float64
			r.EducationMean = &v
		}
		if homicide.Valid {
			v := homicide.Float64
			r.HomicideRate = &v
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate run states")
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
