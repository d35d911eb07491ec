package criteria

import "github.com/jakechorley/rider-rota/pkg/core/allocator"

// BalanceMeasure selects what the balance criterion evens out
type BalanceMeasure int

const (
	// BalanceRemainingTarget evens out outstanding demand
	BalanceRemainingTarget BalanceMeasure = iota

	// BalanceRemainingCapacity evens out spare capacity
	BalanceRemainingCapacity
)

// BalanceCriterion favours moves that leave the candidate's slots evenly loaded.
//
// Affinity:
//   - 1 / (1 + spread), where spread is max minus min of the measured value over the
//     candidate's slots after the move
type BalanceCriterion struct {
	measure        BalanceMeasure
	affinityWeight float64
}

// NewBalanceCriterion creates a new BalanceCriterion over the given measure
func NewBalanceCriterion(measure BalanceMeasure, affinityWeight float64) *BalanceCriterion {
	return &BalanceCriterion{measure: measure, affinityWeight: affinityWeight}
}

func (c *BalanceCriterion) Name() string {
	if c.measure == BalanceRemainingCapacity {
		return "CapacityBalance"
	}
	return "TargetBalance"
}

func (c *BalanceCriterion) IsCandidateValid(state *allocator.AllocationState, candidate *allocator.Candidate) bool {
	return true
}

func (c *BalanceCriterion) CalculateAffinity(state *allocator.AllocationState, candidate *allocator.Candidate) float64 {
	values := candidate.RemainingTarget
	if c.measure == BalanceRemainingCapacity {
		values = candidate.RemainingMax
	}
	return spreadBonus(values, candidate.Pattern.Slots)
}

func (c *BalanceCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}

func (c *BalanceCriterion) ValidateOutcome(state *allocator.AllocationState) []allocator.SlotValidationError {
	return nil
}
