package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/pkg/db"
)

const runColumns = `
	id, created_at, period_start, scheme, workers, labels, targets, max_occupancy,
	occupancy, shortfall, unscheduled, preferred_count, extra_count, redistributed,
	advisory, success
`

func scanRun(row pgx.Row) (db.ScheduleRun, error) {
	var r db.ScheduleRun
	var periodStart *time.Time
	err := row.Scan(
		&r.ID, &r.CreatedAt, &periodStart, &r.Scheme, &r.Workers, &r.Labels, &r.Targets, &r.Max,
		&r.Occupancy, &r.Shortfall, &r.Unscheduled, &r.PreferredCount, &r.ExtraCount, &r.Redistributed,
		&r.Advisory, &r.Success,
	)
	if err != nil {
		return r, err
	}
	if periodStart != nil {
		r.PeriodStart = periodStart.Format("2006-01-02")
	}
	return r, nil
}

// GetRuns retrieves all schedule runs, newest first
func (d *DB) GetRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+runColumns+` FROM schedule_run ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []db.ScheduleRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetRun retrieves one schedule run by ID
func (d *DB) GetRun(ctx context.Context, id string) (*db.ScheduleRun, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+runColumns+` FROM schedule_run WHERE id = $1`, id)
	r, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	return &r, nil
}

// GetAssignments retrieves the assignments of a run in worker order
func (d *DB) GetAssignments(ctx context.Context, runID string) ([]db.ScheduleAssignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_id, worker, slots, kind, method, preferred
		FROM schedule_assignment
		WHERE run_id = $1
		ORDER BY worker
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []db.ScheduleAssignment
	for rows.Next() {
		var a db.ScheduleAssignment
		if err := rows.Scan(&a.ID, &a.RunID, &a.Worker, &a.Slots, &a.Kind, &a.Method, &a.Preferred); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return assignments, nil
}

// InsertRun inserts a run and its assignments in one transaction
func (d *DB) InsertRun(ctx context.Context, run *db.ScheduleRun, assignments []db.ScheduleAssignment) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var periodStart *string
	if run.PeriodStart != "" {
		periodStart = &run.PeriodStart
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO schedule_run (`+runColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		run.ID, run.CreatedAt.UTC(), periodStart, run.Scheme, run.Workers, run.Labels, run.Targets, run.Max,
		run.Occupancy, run.Shortfall, run.Unscheduled, run.PreferredCount, run.ExtraCount, run.Redistributed,
		run.Advisory, run.Success,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	batch := &pgx.Batch{}
	for _, a := range assignments {
		batch.Queue(`
			INSERT INTO schedule_assignment (id, run_id, worker, slots, kind, method, preferred)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, a.ID, a.RunID, a.Worker, a.Slots, a.Kind, a.Method, a.Preferred)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert assignments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	d.logger.Debug("Stored schedule run",
		zap.String("run_id", run.ID),
		zap.Int("assignments", len(assignments)))

	return nil
}
