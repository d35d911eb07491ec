package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/internal/config"
	"github.com/jakechorley/rider-rota/pkg/db"
	"github.com/jakechorley/rider-rota/pkg/export"
)

// SchedulePublisher writes a schedule grid to a spreadsheet tab
type SchedulePublisher interface {
	PublishSchedule(spreadsheetID, tabTitle string, grid [][]string) error
}

// PublishResult describes where a run was published
type PublishResult struct {
	Run      *db.ScheduleRun
	TabTitle string
}

// ErrNoScheduleSheet is returned when publishing without a configured spreadsheet
var ErrNoScheduleSheet = errors.New("scheduleSheetID is not configured")

// TabTitle names the tab a run is published to: its period (or creation date), scheme
// and the first block of the run ID
func TabTitle(run *db.ScheduleRun) string {
	date := run.PeriodStart
	if date == "" {
		date = run.CreatedAt.Format(dateLayout)
	}
	shortID := run.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	return fmt.Sprintf("%s %s (%s)", date, run.Scheme, shortID)
}

// PublishSchedule publishes a stored run (the latest when runID is empty) to the
// configured spreadsheet
func PublishSchedule(ctx context.Context, store db.RunStore, publisher SchedulePublisher, cfg *config.Config, logger *zap.Logger, runID string) (*PublishResult, error) {
	if cfg.ScheduleSheetID == "" {
		return nil, ErrNoScheduleSheet
	}

	run, assignments, err := loadRun(ctx, store, runID)
	if err != nil {
		return nil, err
	}

	tabTitle := TabTitle(run)
	logger.Info("Publishing schedule",
		zap.String("run_id", run.ID),
		zap.String("tab", tabTitle))

	if err := publisher.PublishSchedule(cfg.ScheduleSheetID, tabTitle, export.Grid(run, assignments)); err != nil {
		return nil, fmt.Errorf("failed to publish run %s: %w", run.ID, err)
	}

	return &PublishResult{Run: run, TabTitle: tabTitle}, nil
}
