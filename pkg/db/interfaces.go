package db

import (
	"context"
	"errors"
)

// ErrRunNotFound is returned when a schedule run ID is unknown
var ErrRunNotFound = errors.New("schedule run not found")

// RunStore defines the interface for schedule run database operations
type RunStore interface {
	// GetRuns returns every stored run, newest first
	GetRuns(ctx context.Context) ([]ScheduleRun, error)
	GetRun(ctx context.Context, id string) (*ScheduleRun, error)
	GetAssignments(ctx context.Context, runID string) ([]ScheduleAssignment, error)

	// InsertRun stores the run and its assignments atomically
	InsertRun(ctx context.Context, run *ScheduleRun, assignments []ScheduleAssignment) error
}
