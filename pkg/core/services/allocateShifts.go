package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/internal/config"
	"github.com/jakechorley/rider-rota/pkg/core/allocator"
	"github.com/jakechorley/rider-rota/pkg/db"
)

// AllocateOptions controls how an allocation run is carried out
type AllocateOptions struct {
	// DryRun allocates without storing the run
	DryRun bool

	// Now overrides the clock (defaults to time.Now)
	Now func() time.Time
}

// AllocateResult is a completed allocation and the records derived from it
type AllocateResult struct {
	Run         db.ScheduleRun
	Assignments []db.ScheduleAssignment
	Outcome     *allocator.AllocationOutcome
	Stored      bool
}

// AllocateShifts runs the allocation engine for the configured demand and stores the
// resulting run unless DryRun is set
func AllocateShifts(ctx context.Context, store db.RunStore, cfg *config.Config, logger *zap.Logger, opts AllocateOptions) (*AllocateResult, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	allocCfg, err := engineConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Allocating shifts",
		zap.String("scheme", allocCfg.Scheme.Name),
		zap.Int("workers", allocCfg.Workers),
		zap.Bool("dry_run", opts.DryRun))

	outcome, err := allocator.Allocate(allocCfg)
	if err != nil {
		var infeasible *allocator.InfeasibleError
		if errors.As(err, &infeasible) {
			logger.Warn("Allocation infeasible", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to allocate shifts: %w", err)
	}

	logOutcome(logger, outcome)

	var periodStart string
	if cfg.Period != nil && store != nil {
		runs, err := store.GetRuns(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch runs: %w", err)
		}
		periodStart, err = nextPeriodStart(cfg.Period.RRule, runs, now())
		if err != nil {
			return nil, fmt.Errorf("failed to compute period start: %w", err)
		}
		logger.Debug("Computed period start", zap.String("period_start", periodStart))
	}

	run, assignments := recordsFromOutcome(uuid.New().String(), now().UTC(), periodStart, allocCfg.Scheme, allocCfg.Workers, outcome)
	result := &AllocateResult{Run: run, Assignments: assignments, Outcome: outcome}

	if opts.DryRun || store == nil {
		logger.Info("Dry run, schedule not stored", zap.String("run_id", run.ID))
		return result, nil
	}

	if err := store.InsertRun(ctx, &run, assignments); err != nil {
		return nil, fmt.Errorf("failed to store run: %w", err)
	}
	result.Stored = true

	logger.Info("Schedule stored",
		zap.String("run_id", run.ID),
		zap.String("period_start", run.PeriodStart),
		zap.Int("assignments", len(assignments)))

	return result, nil
}

func logOutcome(logger *zap.Logger, outcome *allocator.AllocationOutcome) {
	plan := outcome.Plan
	if plan.Redistributed {
		logger.Warn("Targets redistributed",
			zap.Ints("original_targets", plan.OriginalTargets),
			zap.Ints("targets", plan.Targets))
	} else if plan.Advisory != "" {
		logger.Warn("Worker shortfall", zap.String("advisory", plan.Advisory))
	}

	if outcome.Unscheduled > 0 {
		logger.Warn("Workers left unscheduled", zap.Int("unscheduled", outcome.Unscheduled))
	}
	if outcome.Shortfall > 0 {
		logger.Warn("Targets not met", zap.Int("shortfall", outcome.Shortfall))
	}
	for _, verr := range outcome.ValidationErrors {
		logger.Error("Validation error",
			zap.String("criterion", verr.CriterionName),
			zap.Int("slot", int(verr.Slot)),
			zap.String("description", verr.Description))
	}

	logger.Info("Allocation complete",
		zap.Int("assignments", len(outcome.Assignments)),
		zap.Int("preferred", outcome.PreferredCount),
		zap.Int("extra", outcome.ExtraCount),
		zap.Bool("success", outcome.Success))
}

// recordsFromOutcome converts an engine outcome to its stored form, naming slots by label
func recordsFromOutcome(runID string, createdAt time.Time, periodStart string, scheme *allocator.Scheme, workers int, outcome *allocator.AllocationOutcome) (db.ScheduleRun, []db.ScheduleAssignment) {
	graph := scheme.Graph

	run := db.ScheduleRun{
		ID:             runID,
		CreatedAt:      createdAt,
		PeriodStart:    periodStart,
		Scheme:         scheme.Name,
		Workers:        workers,
		Labels:         graph.AllLabels(),
		Targets:        outcome.Plan.Targets,
		Max:            outcome.Plan.Max,
		Occupancy:      outcome.Occupancy,
		Shortfall:      outcome.Shortfall,
		Unscheduled:    outcome.Unscheduled,
		PreferredCount: outcome.PreferredCount,
		ExtraCount:     outcome.ExtraCount,
		Redistributed:  outcome.Plan.Redistributed,
		Advisory:       outcome.Plan.Advisory,
		Success:        outcome.Success,
	}

	assignments := make([]db.ScheduleAssignment, len(outcome.Assignments))
	for i, a := range outcome.Assignments {
		assignments[i] = db.ScheduleAssignment{
			ID:        uuid.New().String(),
			RunID:     runID,
			Worker:    a.Worker,
			Slots:     graph.Labels(a.Slots),
			Kind:      string(a.Kind),
			Method:    string(a.Method),
			Preferred: a.Preferred,
		}
	}

	return run, assignments
}
