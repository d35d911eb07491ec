package criteria

import (
	"fmt"

	"github.com/jakechorley/rider-rota/pkg/core/allocator"
)

// CapacityCriterion keeps every slot within its max.
//
// Validity:
//   - Returns false if any slot of the candidate has no spare capacity left
//
// Validation:
//   - Reports every slot whose final occupancy exceeds its max
type CapacityCriterion struct{}

// NewCapacityCriterion creates a new CapacityCriterion
func NewCapacityCriterion() *CapacityCriterion {
	return &CapacityCriterion{}
}

func (c *CapacityCriterion) Name() string {
	return "Capacity"
}

func (c *CapacityCriterion) IsCandidateValid(state *allocator.AllocationState, candidate *allocator.Candidate) bool {
	for _, slot := range candidate.Pattern.Slots {
		if candidate.RemainingMax[slot] < 0 {
			return false
		}
	}
	return true
}

func (c *CapacityCriterion) CalculateAffinity(state *allocator.AllocationState, candidate *allocator.Candidate) float64 {
	return 0
}

func (c *CapacityCriterion) AffinityWeight() float64 {
	return 0
}

func (c *CapacityCriterion) ValidateOutcome(state *allocator.AllocationState) []allocator.SlotValidationError {
	var errors []allocator.SlotValidationError

	for i, occupancy := range state.Occupancy {
		if occupancy > state.Max[i] {
			errors = append(errors, allocator.SlotValidationError{
				Slot:          allocator.SlotID(i),
				Worker:        -1,
				CriterionName: c.Name(),
				Description:   fmt.Sprintf("Slot is overfilled: has %d workers but max is %d", occupancy, state.Max[i]),
			})
		}
	}

	return errors
}
