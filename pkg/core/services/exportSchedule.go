package services

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/pkg/db"
	"github.com/jakechorley/rider-rota/pkg/export"
)

// loadRun fetches a run (the latest when runID is empty) with its assignments
func loadRun(ctx context.Context, store db.RunStore, runID string) (*db.ScheduleRun, []db.ScheduleAssignment, error) {
	run, err := db.ResolveRun(ctx, store, runID)
	if err != nil {
		return nil, nil, err
	}

	assignments, err := store.GetAssignments(ctx, run.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch assignments for run %s: %w", run.ID, err)
	}

	return run, assignments, nil
}

// ExportSchedule writes a stored run as CSV to w and returns the run exported
func ExportSchedule(ctx context.Context, store db.RunStore, logger *zap.Logger, runID string, w io.Writer) (*db.ScheduleRun, error) {
	run, assignments, err := loadRun(ctx, store, runID)
	if err != nil {
		return nil, err
	}

	if err := export.WriteCSV(w, run, assignments); err != nil {
		return nil, fmt.Errorf("failed to export run %s: %w", run.ID, err)
	}

	logger.Debug("Exported schedule",
		zap.String("run_id", run.ID),
		zap.Int("assignments", len(assignments)))

	return run, nil
}
