// Package store persists profiling reports in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ardnew/ccnt/counter"
	"github.com/ardnew/ccnt/pkg"
	"github.com/ardnew/ccnt/report"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

// Errors returned by this package.
var (
	ErrOpen     = pkg.NewError("failed to open results database")
	ErrMigrate  = pkg.NewError("failed to create results schema")
	ErrSave     = pkg.NewError("failed to save report")
	ErrQuery    = pkg.NewError("failed to query results")
	ErrNotFound = pkg.NewError("run not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	started     INTEGER NOT NULL,
	elapsed     INTEGER NOT NULL,
	program     TEXT    NOT NULL,
	version     TEXT    NOT NULL,
	counter     TEXT    NOT NULL,
	runs        INTEGER NOT NULL,
	minmax      INTEGER NOT NULL,
	fingerprint TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id   INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	workload TEXT    NOT NULL,
	regime   TEXT    NOT NULL,
	min      INTEGER NOT NULL,
	max      INTEGER NOT NULL,
	median   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
	result_id INTEGER NOT NULL REFERENCES results(id) ON DELETE CASCADE,
	position  INTEGER NOT NULL,
	cycles    INTEGER NOT NULL,
	PRIMARY KEY (result_id, position)
);
CREATE INDEX IF NOT EXISTS results_run ON results(run_id, position);
`

// DefaultPath returns the default database path in the user cache directory.
func DefaultPath() string { return pkg.CachePath(pkg.Name + ".db") }

// Store is a results database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. Use [Memory] for a database
// that lives as long as the Store.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := Memory

	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), pkg.DirMode); err != nil {
			return nil, ErrOpen.Wrap(err).With(slog.String("path", path))
		}

		dsn = "file:" + path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, ErrOpen.Wrap(err).With(slog.String("path", path))
	}

	// One connection keeps an in-memory database alive and serialises
	// writers on a file.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()

		return nil, ErrOpen.Wrap(err).With(slog.String("path", path))
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()

		return nil, ErrMigrate.Wrap(err).With(slog.String("path", path))
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Save stores r and returns its run ID.
func (s *Store) Save(ctx context.Context, r report.Report) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, ErrSave.Wrap(err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started, elapsed, program, version, counter, runs, minmax, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Started.UnixNano(), int64(r.Elapsed), r.Program, r.Version,
		r.Counter, r.Runs, r.MinMax, r.Fingerprint,
	)
	if err != nil {
		return 0, ErrSave.Wrap(err)
	}

	if id, err = res.LastInsertId(); err != nil {
		return 0, ErrSave.Wrap(err)
	}

	sample, err := tx.PrepareContext(ctx,
		`INSERT INTO samples (result_id, position, cycles) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, ErrSave.Wrap(err)
	}
	defer sample.Close()

	for i, rr := range r.Results {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO results (run_id, position, workload, regime, min, max, median)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i, rr.Workload, rr.Regime, uint32(rr.Min), uint32(rr.Max), uint32(rr.Median),
		)
		if err != nil {
			return 0, ErrSave.Wrap(err).With(slog.String("workload", rr.Workload))
		}

		rid, err := res.LastInsertId()
		if err != nil {
			return 0, ErrSave.Wrap(err)
		}

		for j, c := range rr.Cycles {
			if _, err := sample.ExecContext(ctx, rid, j, uint32(c)); err != nil {
				return 0, ErrSave.Wrap(err).With(slog.String("workload", rr.Workload))
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, ErrSave.Wrap(err)
	}

	return id, nil
}

// Summary describes one stored run.
type Summary struct {
	ID          int64
	Started     time.Time
	Elapsed     time.Duration
	Program     string
	Version     string
	Counter     string
	Runs        int
	MinMax      bool
	Fingerprint string
	Workloads   int
}

// List returns the most recent runs, newest first. A limit below 1 returns
// every run.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit < 1 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.started, r.elapsed, r.program, r.version, r.counter,
		        r.runs, r.minmax, r.fingerprint,
		        (SELECT COUNT(*) FROM results WHERE run_id = r.id)
		   FROM runs r
		  ORDER BY r.id DESC
		  LIMIT ?`, limit)
	if err != nil {
		return nil, ErrQuery.Wrap(err)
	}
	defer rows.Close()

	var out []Summary

	for rows.Next() {
		var (
			sum              Summary
			started, elapsed int64
		)

		if err := rows.Scan(
			&sum.ID, &started, &elapsed, &sum.Program, &sum.Version, &sum.Counter,
			&sum.Runs, &sum.MinMax, &sum.Fingerprint, &sum.Workloads,
		); err != nil {
			return nil, ErrQuery.Wrap(err)
		}

		sum.Started = time.Unix(0, started).UTC()
		sum.Elapsed = time.Duration(elapsed)
		out = append(out, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, ErrQuery.Wrap(err)
	}

	return out, nil
}

// Load returns the stored report with the given run ID.
func (s *Store) Load(ctx context.Context, id int64) (report.Report, error) {
	var (
		r                report.Report
		started, elapsed int64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT started, elapsed, program, version, counter, runs, minmax, fingerprint
		   FROM runs WHERE id = ?`, id,
	).Scan(&started, &elapsed, &r.Program, &r.Version, &r.Counter, &r.Runs, &r.MinMax, &r.Fingerprint)
	if err == sql.ErrNoRows {
		return report.Report{}, ErrNotFound.With(slog.Int64("id", id))
	}

	if err != nil {
		return report.Report{}, ErrQuery.Wrap(err).With(slog.Int64("id", id))
	}

	r.Started = time.Unix(0, started).UTC()
	r.Elapsed = time.Duration(elapsed)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workload, regime, min, max, median
		   FROM results WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return report.Report{}, ErrQuery.Wrap(err).With(slog.Int64("id", id))
	}

	var ids []int64

	for rows.Next() {
		var (
			rid         int64
			res         report.Result
			lo, hi, med uint32
		)

		if err := rows.Scan(&rid, &res.Workload, &res.Regime, &lo, &hi, &med); err != nil {
			rows.Close()

			return report.Report{}, ErrQuery.Wrap(err)
		}

		res.Min, res.Max, res.Median = counter.Cycles(lo), counter.Cycles(hi), counter.Cycles(med)
		ids = append(ids, rid)
		r.Results = append(r.Results, res)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return report.Report{}, ErrQuery.Wrap(err)
	}

	for i, rid := range ids {
		cycles, err := s.samples(ctx, rid)
		if err != nil {
			return report.Report{}, err
		}

		r.Results[i].Cycles = cycles
	}

	return r, nil
}

func (s *Store) samples(ctx context.Context, resultID int64) ([]counter.Cycles, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cycles FROM samples WHERE result_id = ? ORDER BY position`, resultID)
	if err != nil {
		return nil, ErrQuery.Wrap(err)
	}
	defer rows.Close()

	var out []counter.Cycles

	for rows.Next() {
		var c uint32
		if err := rows.Scan(&c); err != nil {
			return nil, ErrQuery.Wrap(err)
		}

		out = append(out, counter.Cycles(c))
	}

	if err := rows.Err(); err != nil {
		return nil, ErrQuery.Wrap(err)
	}

	return out, nil
}
