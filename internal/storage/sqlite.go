package storage

import (
	"database/sql"
	"fmt"
	"math"

	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/fixstep/internal/dynamo"
	"github.com/san-kum/fixstep/internal/experiment"
)

const recorderSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT NOT NULL,
	scheme TEXT NOT NULL,
	field TEXT NOT NULL,
	a REAL, b REAL, c REAL,
	t0 REAL, dt REAL, tmax REAL,
	clock TEXT,
	steps INTEGER,
	evaluations INTEGER,
	PRIMARY KEY (id, scheme)
);
CREATE TABLE IF NOT EXISTS samples (
	run_id TEXT NOT NULL,
	scheme TEXT NOT NULL,
	step INTEGER NOT NULL,
	t REAL,
	x REAL, y REAL, z REAL,
	PRIMARY KEY (run_id, scheme, step)
);
`

// Recorder stores trajectories in a SQLite database. SQLite keeps NaN as
// NULL, so non-finite components read back as NaN.
type Recorder struct {
	db   *sql.DB
	path string
}

func OpenRecorder(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(recorderSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Recorder{db: db, path: path}, nil
}

func (r *Recorder) Path() string {
	return r.path
}

// Record writes every run of the comparison under runID in one
// transaction.
func (r *Recorder) Record(runID string, cmp *experiment.Comparison) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if err := r.record(tx, runID, cmp); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *Recorder) record(tx *sql.Tx, runID string, cmp *experiment.Comparison) error {
	spec := cmp.Spec

	runStmt, err := tx.Prepare(`INSERT INTO runs
		(id, scheme, field, a, b, c, t0, dt, tmax, clock, steps, evaluations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer runStmt.Close()

	sampleStmt, err := tx.Prepare(`INSERT INTO samples
		(run_id, scheme, step, t, x, y, z) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer sampleStmt.Close()

	s := spec.Settings
	for _, run := range cmp.Runs {
		scheme := run.Scheme.String()
		if _, err := runStmt.Exec(runID, scheme, spec.Field,
			spec.Params.A, spec.Params.B, spec.Params.C,
			s.T0, s.Dt, s.TMax, s.Clock.String(),
			run.Trajectory.Len(), run.Evaluations); err != nil {
			return fmt.Errorf("insert run %s/%s: %w", runID, scheme, err)
		}

		times := s.Times(run.Trajectory.Len())
		for i, st := range run.Trajectory {
			if _, err := sampleStmt.Exec(runID, scheme, i, times[i], st[0], st[1], st[2]); err != nil {
				return fmt.Errorf("insert sample %d: %w", i, err)
			}
		}
	}
	return nil
}

// Trajectory reads back the samples recorded for one scheme of a run.
func (r *Recorder) Trajectory(runID, scheme string) (dynamo.Trajectory, error) {
	rows, err := r.db.Query(`SELECT x, y, z FROM samples
		WHERE run_id = ? AND scheme = ? ORDER BY step`, runID, scheme)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	traj := dynamo.Trajectory{}
	for rows.Next() {
		var x, y, z sql.NullFloat64
		if err := rows.Scan(&x, &y, &z); err != nil {
			return nil, err
		}
		traj = append(traj, dynamo.State{nullToNaN(x), nullToNaN(y), nullToNaN(z)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(traj) == 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoSuchScheme, runID, scheme)
	}
	return traj, nil
}

// Runs lists the distinct run ids in insertion order.
func (r *Recorder) Runs() ([]string, error) {
	rows, err := r.db.Query(`SELECT id FROM runs GROUP BY id ORDER BY MIN(rowid)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Recorder) Close() error {
	return r.db.Close()
}

func nullToNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
