package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/pkg/db"
)

// ListRuns returns the stored runs, newest first
func ListRuns(ctx context.Context, store db.RunStore, logger *zap.Logger) ([]db.ScheduleRun, error) {
	runs, err := store.GetRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}

	db.SortRunsNewestFirst(runs)
	logger.Debug("Fetched runs", zap.Int("count", len(runs)))

	return runs, nil
}
