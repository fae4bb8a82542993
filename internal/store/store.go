// Package store persists gas grid snapshots in a local SQLite database so
// headless runs can be inspected or resumed.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"station-atmos/internal/gas"
)

// ErrNotFound is returned when a run or snapshot does not exist.
var ErrNotFound = errors.New("store: not found")

// Store wraps the snapshot database.
type Store struct {
	db *sql.DB
}

// Run describes one simulation run.
type Run struct {
	ID      string
	Label   string
	Width   int
	Height  int
	Seed    int64
	Created time.Time
}

// Snapshot is the full gas state of a grid at one tick.
type Snapshot struct {
	RunID   string
	Tick    uint64
	Elapsed float64
	Width   int
	Height  int
	Cells   []gas.Mixture
	Walls   []bool
	Totals  [gas.SpeciesCount]float64
}

// Open initializes the database at path and creates the schema.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}
	return &Store{db: db}, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			label TEXT NOT NULL DEFAULT '',
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			created INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			run_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			elapsed REAL NOT NULL,
			oxygen REAL NOT NULL,
			nitrogen REAL NOT NULL,
			carbon_dioxide REAL NOT NULL,
			cells BLOB NOT NULL,
			walls BLOB NOT NULL,
			PRIMARY KEY (run_id, tick),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_run_id ON snapshots(run_id);`,
	}
	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// NewRun registers a run and returns its generated identifier.
func (s *Store) NewRun(ctx context.Context, label string, w, h int, seed int64) (Run, error) {
	run := Run{
		ID:      uuid.NewString(),
		Label:   label,
		Width:   w,
		Height:  h,
		Seed:    seed,
		Created: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, label, width, height, seed, created) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Label, run.Width, run.Height, run.Seed, run.Created.UnixNano())
	if err != nil {
		return Run{}, fmt.Errorf("store: insert run: %w", err)
	}
	return run, nil
}

// GetRun loads a run by id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Run{}, fmt.Errorf("store: run id %q: %w", id, err)
	}
	var (
		run     Run
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, label, width, height, seed, created FROM runs WHERE run_id = ?`, id).
		Scan(&run.ID, &run.Label, &run.Width, &run.Height, &run.Seed, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("store: query run: %w", err)
	}
	run.Created = time.Unix(0, created).UTC()
	return run, nil
}

// Save writes the grid state for tick. Saving the same tick twice replaces
// the earlier snapshot.
func (s *Store) Save(ctx context.Context, runID string, tick uint64, elapsed float64, g *gas.Grid) error {
	totals := g.Totals()
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots
			(run_id, tick, elapsed, oxygen, nitrogen, carbon_dioxide, cells, walls)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, int64(tick), elapsed,
		totals[gas.Oxygen], totals[gas.Nitrogen], totals[gas.CarbonDioxide],
		encodeCells(g.Cells()), encodeWalls(g.Walls.Cells()))
	if err != nil {
		return fmt.Errorf("store: save tick %d: %w", tick, err)
	}
	return nil
}

// Load reads the snapshot taken at tick.
func (s *Store) Load(ctx context.Context, runID string, tick uint64) (*Snapshot, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT tick, elapsed, cells, walls FROM snapshots WHERE run_id = ? AND tick = ?`,
		runID, int64(tick))
	return scanSnapshot(row, run)
}

// Latest reads the most recent snapshot of a run.
func (s *Store) Latest(ctx context.Context, runID string) (*Snapshot, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT tick, elapsed, cells, walls FROM snapshots WHERE run_id = ? ORDER BY tick DESC LIMIT 1`,
		runID)
	return scanSnapshot(row, run)
}

// Ticks lists the snapshot ticks of a run in ascending order.
func (s *Store) Ticks(ctx context.Context, runID string) ([]uint64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tick FROM snapshots WHERE run_id = ? ORDER BY tick`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: list ticks: %w", err)
	}
	defer rows.Close()
	var out []uint64
	for rows.Next() {
		var tick int64
		if err := rows.Scan(&tick); err != nil {
			return nil, fmt.Errorf("store: scan tick: %w", err)
		}
		out = append(out, uint64(tick))
	}
	return out, rows.Err()
}

func scanSnapshot(row *sql.Row, run Run) (*Snapshot, error) {
	var (
		tick         int64
		cells, walls []byte
	)
	snap := &Snapshot{RunID: run.ID, Width: run.Width, Height: run.Height}
	err := row.Scan(&tick, &snap.Elapsed, &cells, &walls)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot of run %s: %w", run.ID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: query snapshot: %w", err)
	}
	n := run.Width * run.Height
	if snap.Cells, err = decodeCells(cells, n); err != nil {
		return nil, err
	}
	if snap.Walls, err = decodeWalls(walls, n); err != nil {
		return nil, err
	}
	snap.Tick = uint64(tick)
	for i, m := range snap.Cells {
		if snap.Walls[i] {
			continue
		}
		for sp, a := range m.Amount {
			snap.Totals[sp] += a
		}
	}
	return snap, nil
}
