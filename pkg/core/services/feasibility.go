package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/rider-rota/internal/config"
	"github.com/jakechorley/rider-rota/pkg/core/allocator"
	"github.com/jakechorley/rider-rota/pkg/core/allocator/criteria"
)

// FeasibilityResult is the pre-allocation view of the configured demand
type FeasibilityResult struct {
	Scheme  string
	Workers int
	Labels  []string
	Plan    *allocator.AllocationPlan
}

// Feasible reports whether the effective targets can be met under the scheme
func (r *FeasibilityResult) Feasible() bool {
	return r.Plan.Feasibility.Feasible
}

// Describe explains the violation, or returns an empty string when feasible
func (r *FeasibilityResult) Describe() string {
	if r.Plan.Feasibility.Violation == nil {
		return ""
	}
	return r.Plan.Feasibility.Violation.Describe(r.Labels)
}

// engineConfig builds the engine input for cfg with the standard phase criteria
func engineConfig(cfg *config.Config) (allocator.AllocationConfig, error) {
	allocCfg, err := cfg.AllocationConfig()
	if err != nil {
		return allocator.AllocationConfig{}, fmt.Errorf("failed to build allocation config: %w", err)
	}
	allocCfg.Criteria = criteria.Standard(cfg.Policy)
	return allocCfg, nil
}

// CheckFeasibility plans an allocation for the configured workers and slots without
// placing anyone
func CheckFeasibility(cfg *config.Config, logger *zap.Logger) (*FeasibilityResult, error) {
	allocCfg, err := engineConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("Planning allocation",
		zap.String("scheme", allocCfg.Scheme.Name),
		zap.Int("workers", allocCfg.Workers))

	plan, err := allocator.PlanAllocation(allocCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to plan allocation: %w", err)
	}

	result := &FeasibilityResult{
		Scheme:  allocCfg.Scheme.Name,
		Workers: allocCfg.Workers,
		Labels:  allocCfg.Scheme.Graph.AllLabels(),
		Plan:    plan,
	}

	if plan.Advisory != "" {
		logger.Warn("Worker shortfall", zap.String("advisory", plan.Advisory))
	}
	if !result.Feasible() {
		logger.Warn("Targets are infeasible", zap.String("violation", result.Describe()))
	} else {
		logger.Info("Targets are feasible",
			zap.Int("min_required", plan.MinRequired),
			zap.Int("max_placeable", plan.MaxPlaceable))
	}

	return result, nil
}
