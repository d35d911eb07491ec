package db

import (
	"context"
	"fmt"
	"sort"
)

// SortRunsNewestFirst orders runs by creation time, newest first. Ties keep ID order.
func SortRunsNewestFirst(runs []ScheduleRun) {
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
}

// ResolveRun returns the run with the given ID, or the latest run when id is empty
func ResolveRun(ctx context.Context, store RunStore, id string) (*ScheduleRun, error) {
	if id != "" {
		run, err := store.GetRun(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get run %s: %w", id, err)
		}
		return run, nil
	}

	runs, err := store.GetRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no stored runs: %w", ErrRunNotFound)
	}

	SortRunsNewestFirst(runs)
	return &runs[0], nil
}
