// Package journal keeps a SQLite record of robot runs, one row per script line.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"toyrobot/internal/journal/migrations"
	"toyrobot/internal/platform/storage/sqlitemigrate"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// Step outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeIgnored  = "ignored"
)

// Run describes one pass over a command script.
type Run struct {
	ID        int64
	Source    string
	GridSize  int
	StartedAt time.Time
}

// Step is one processed script line and the robot state after it.
type Step struct {
	RunID   int64
	Seq     int
	Line    int
	Text    string
	Kind    string
	Outcome string
	Reason  string
	Report  string
	X, Y    int
	Facing  string
	Placed  bool
}

// Store persists runs in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the journal at path and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// StartRun inserts a run and returns its id.
func (s *Store) StartRun(ctx context.Context, run Run) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if run.GridSize < 1 {
		return 0, fmt.Errorf("grid size must be positive")
	}
	startedAt := run.StartedAt.UTC()
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO runs (source, grid_size, started_at) VALUES (?, ?, ?)`,
		run.Source, run.GridSize, startedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}
	return id, nil
}

// GetRun returns one run by id.
func (s *Store) GetRun(ctx context.Context, id int64) (Run, error) {
	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	var (
		run       Run
		startedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, source, grid_size, started_at FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Source, &run.GridSize, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	run.StartedAt = time.UnixMilli(startedAt).UTC()
	return run, nil
}

// AppendStep stores one step of a run.
func (s *Store) AppendStep(ctx context.Context, step Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch step.Outcome {
	case OutcomeApplied, OutcomeRejected, OutcomeIgnored:
	default:
		return fmt.Errorf("unknown outcome %q", step.Outcome)
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO steps (
		   run_id, seq, line, text, kind, outcome, reason, report, x, y, facing, placed
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		step.RunID, step.Seq, step.Line, step.Text, step.Kind, step.Outcome,
		step.Reason, step.Report, step.X, step.Y, step.Facing, step.Placed,
	)
	if err != nil {
		return fmt.Errorf("append step: %w", err)
	}
	return nil
}

// ListSteps returns the steps of a run in order.
func (s *Store) ListSteps(ctx context.Context, runID int64) ([]Step, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT run_id, seq, line, text, kind, outcome, reason, report, x, y, facing, placed
		 FROM steps WHERE run_id = ? ORDER BY seq`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	defer rows.Close()

	var steps []Step
	for rows.Next() {
		var step Step
		if err := rows.Scan(
			&step.RunID, &step.Seq, &step.Line, &step.Text, &step.Kind, &step.Outcome,
			&step.Reason, &step.Report, &step.X, &step.Y, &step.Facing, &step.Placed,
		); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list steps: %w", err)
	}
	return steps, nil
}

// Recorder appends steps to a single run, numbering them as they arrive.
// It is not safe for concurrent use.
type Recorder struct {
	store *Store
	runID int64
	seq   int
}

func (s *Store) Recorder(runID int64) *Recorder {
	return &Recorder{store: s, runID: runID}
}

// RecordStep fills in the run id and sequence number and stores step.
func (r *Recorder) RecordStep(ctx context.Context, step Step) error {
	r.seq++
	step.RunID = r.runID
	step.Seq = r.seq
	return r.store.AppendStep(ctx, step)
}
