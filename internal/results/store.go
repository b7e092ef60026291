package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/liftsim/internal/db"
)

// Store persists simulation runs.
type Store struct {
	db *db.DB
}

// NewStore creates a new results store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

const runColumns = `id, algorithm, scenario, floors, riders, served, total_time,
	wait_total, wait_avg, wait_max, ride_total, ride_avg, ride_max,
	dest_total, dest_avg, dest_max, trace_path, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	r := &Run{}
	err := s.Scan(&r.ID, &r.Algorithm, &r.Scenario, &r.Floors, &r.Riders, &r.Served, &r.TotalTime,
		&r.WaitTotal, &r.WaitAvg, &r.WaitMax, &r.RideTotal, &r.RideAvg, &r.RideMax,
		&r.DestTotal, &r.DestAvg, &r.DestMax, &r.TracePath, &r.CreatedAt)
	return r, err
}

// Record inserts a run, assigning an id and creation time when unset.
func (s *Store) Record(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO simulation_runs (`+runColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Algorithm, r.Scenario, r.Floors, r.Riders, r.Served, r.TotalTime,
		r.WaitTotal, r.WaitAvg, r.WaitMax, r.RideTotal, r.RideAvg, r.RideMax,
		r.DestTotal, r.DestAvg, r.DestMax, r.TracePath, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// Get retrieves a run by id.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM simulation_runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return r, nil
}

// List returns the runs matching f, oldest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Run, error) {
	var (
		where []string
		args  []any
	)
	if f.Algorithm != "" {
		where = append(where, "algorithm = ?")
		args = append(args, f.Algorithm)
	}
	if f.Scenario != "" {
		where = append(where, "scenario = ?")
		args = append(args, f.Scenario)
	}

	q := `SELECT ` + runColumns + ` FROM simulation_runs`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at, id"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		result = append(result, *r)
	}
	return result, rows.Err()
}

// Delete removes a run by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM simulation_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Algorithms lists the distinct algorithms with recorded runs.
func (s *Store) Algorithms(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT algorithm FROM simulation_runs ORDER BY algorithm`)
	if err != nil {
		return nil, fmt.Errorf("listing algorithms: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning algorithm: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
