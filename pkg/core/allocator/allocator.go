package allocator

import (
	"fmt"
	"slices"
	"strings"
)

// AllocationConfig contains the input for one allocation
type AllocationConfig struct {
	// Scheme fixes the slots and the legal combinations
	Scheme *Scheme

	// Workers is the number of interchangeable workers to place
	Workers int

	// Slots holds the target and max per slot, in scheme slot order
	Slots []SlotDemand

	// Policy holds the thresholds that select phases and scoring modes
	Policy Policy

	// Criteria to apply during each phase (with their weights)
	Criteria PhaseCriteria
}

// AllocationPlan is the validated, pre-allocation view of a request: the targets the
// engine will work towards and whether they can be met under the scheme
type AllocationPlan struct {
	// OriginalTargets are the caller's targets
	OriginalTargets []int

	// Targets are the effective targets (redistributed when workers are short)
	Targets []int

	Max []int

	// MinRequired is the fewest workers that could meet the original targets
	MinRequired int

	// MaxPlaceable is the most workers the slot maxima can hold
	MaxPlaceable int

	Redistributed bool

	// Advisory explains a worker shortfall; empty when workers suffice
	Advisory string

	Feasibility FeasibilityReport
}

// AllocationOutcome represents the result of an allocation
type AllocationOutcome struct {
	// State is the final working state after allocation
	State *AllocationState

	Plan *AllocationPlan

	// Assignments in worker order
	Assignments []Assignment

	// Occupancy is the number of workers holding each slot
	Occupancy []int

	PreferredCount int
	ExtraCount     int

	// Shortfall is the total target left unmet
	Shortfall int

	// Unscheduled is the number of workers that could not be placed
	Unscheduled int

	// ValidationErrors contains any validation errors found in the final state
	ValidationErrors []SlotValidationError

	// Success indicates every target was met with no validation errors
	Success bool
}

// PlanAllocation validates the request, applies shortfall redistribution and checks
// feasibility of the resulting targets. An infeasible plan is returned without error;
// Allocate turns it into an *InfeasibleError.
func PlanAllocation(config AllocationConfig) (*AllocationPlan, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	scheme := config.Scheme
	targets := make([]int, len(config.Slots))
	maxes := make([]int, len(config.Slots))
	for i, slot := range config.Slots {
		targets[i] = slot.Target
		maxes[i] = slot.Max
	}

	plan := &AllocationPlan{
		OriginalTargets: targets,
		Targets:         slices.Clone(targets),
		Max:             maxes,
		MinRequired:     scheme.MinRequiredWorkers(targets),
		MaxPlaceable:    scheme.MaxPlaceableWorkers(maxes),
	}

	if config.Workers > plan.MaxPlaceable {
		return nil, fmt.Errorf("%w: %d workers but slot maxima hold at most %d", ErrTooManyWorkers, config.Workers, plan.MaxPlaceable)
	}

	var advisory []string
	if config.Workers < plan.MinRequired {
		advisory = append(advisory, fmt.Sprintf("%d workers is below the %d needed to meet every target", config.Workers, plan.MinRequired))
	}

	if scheme.Uniform() && config.Policy.ShouldRedistribute(config.Workers, plan.MinRequired) {
		plan.Targets = RedistributeTargets(targets, maxes, config.Workers, scheme.ShiftsPerWorker)
		plan.Redistributed = true
		advisory = append(advisory, "targets redistributed evenly across slots")
	}
	plan.Advisory = strings.Join(advisory, "; ")

	plan.Feasibility = CheckFeasibility(scheme.Graph, plan.Targets)

	return plan, nil
}

// Allocate runs the allocation phases for the configured scheme
func Allocate(config AllocationConfig) (*AllocationOutcome, error) {
	if config.Criteria.isEmpty() {
		return nil, fmt.Errorf("%w: no criteria configured", ErrInvalidInput)
	}

	plan, err := PlanAllocation(config)
	if err != nil {
		return nil, err
	}

	if !plan.Feasibility.Feasible {
		return nil, &InfeasibleError{Report: plan.Feasibility, labels: config.Scheme.Graph.AllLabels()}
	}

	state := NewAllocationState(config.Scheme.Graph, plan.Targets, plan.Max, config.Workers)
	state.MinRequired = plan.MinRequired

	if config.Scheme.Kind == SchemePattern {
		runPatternPhases(state, config.Scheme.ScarceCategory(), config.Criteria.Pattern, config.Criteria.PatternCapacity)
	} else {
		targetCriteria := config.Criteria.Target
		if config.Policy.IsSmallPopulation(plan.MinRequired) && len(config.Criteria.SmallPopulationTarget) > 0 {
			targetCriteria = config.Criteria.SmallPopulationTarget
		}

		runTargetPhases(state, targetCriteria, config.Criteria.TopUp)

		if state.Shortfall() == 0 {
			runCapacityPhase(state, config.Criteria.Capacity)
		}
	}

	return buildOutcome(state, plan, config.Criteria.All()), nil
}

func validateConfig(config AllocationConfig) error {
	if config.Scheme == nil || config.Scheme.Graph == nil {
		return fmt.Errorf("%w: no scheme", ErrInvalidInput)
	}
	if err := config.Policy.Validate(); err != nil {
		return err
	}

	slotCount := config.Scheme.Graph.SlotCount()
	if len(config.Slots) != slotCount {
		return fmt.Errorf("%w: scheme %q has %d slots but %d were given", ErrInvalidInput, config.Scheme.Name, slotCount, len(config.Slots))
	}

	if config.Workers < 0 {
		return fmt.Errorf("%w: worker count %d is negative", ErrInvalidInput, config.Workers)
	}
	if config.Workers > MaxWorkers {
		return fmt.Errorf("%w: %d workers (limit %d)", ErrWorkerCeiling, config.Workers, MaxWorkers)
	}

	for i, slot := range config.Slots {
		label := config.Scheme.Graph.Label(SlotID(i))
		if slot.Target < 0 || slot.Max < 0 {
			return fmt.Errorf("%w: slot %s has a negative target or max", ErrInvalidInput, label)
		}
		if slot.Max < slot.Target {
			return fmt.Errorf("%w: slot %s max %d is below target %d", ErrMaxBelowTarget, label, slot.Max, slot.Target)
		}
	}

	return nil
}

// buildOutcome creates the final allocation outcome report
func buildOutcome(state *AllocationState, plan *AllocationPlan, criteria []Criterion) *AllocationOutcome {
	dropIncompleteAssignments(state)

	outcome := &AllocationOutcome{
		State:            state,
		Plan:             plan,
		Assignments:      state.Assignments,
		Occupancy:        slices.Clone(state.Occupancy),
		Shortfall:        state.Shortfall(),
		Unscheduled:      state.WorkersLeft,
		ValidationErrors: []SlotValidationError{},
	}

	for _, assignment := range state.Assignments {
		if assignment.Preferred {
			outcome.PreferredCount++
		}
		if assignment.Kind == KindExtra {
			outcome.ExtraCount++
		}
	}

	outcome.ValidationErrors = ValidateOutcome(state, criteria)
	outcome.Success = outcome.Shortfall == 0 && len(outcome.ValidationErrors) == 0

	return outcome
}

// dropIncompleteAssignments discards any assignment that is not a whole legal
// pattern and rebuilds occupancy and remaining target from what is kept
func dropIncompleteAssignments(state *AllocationState) {
	kept := state.Assignments[:0]
	dropped := 0
	for _, assignment := range state.Assignments {
		if !state.Graph.IsLegal(assignment.Slots) {
			dropped++
			continue
		}
		assignment.Worker = len(kept)
		kept = append(kept, assignment)
	}
	state.Assignments = kept
	if dropped == 0 {
		return
	}

	state.WorkersLeft += dropped
	for i := range state.Occupancy {
		state.Occupancy[i] = 0
	}
	for _, assignment := range kept {
		for _, slot := range assignment.Slots {
			state.Occupancy[slot]++
		}
	}
	for i := range state.RemainingTarget {
		state.RemainingTarget[i] = max(state.Targets[i]-state.Occupancy[i], 0)
	}
}
