package allocator

import "fmt"

const coreInvariantsName = "CoreInvariant"

// ValidateOutcome runs the core invariants followed by every criterion's own checks
func ValidateOutcome(state *AllocationState, criteria []Criterion) []SlotValidationError {
	errs := validateCoreInvariants(state)
	for _, criterion := range criteria {
		errs = append(errs, criterion.ValidateOutcome(state)...)
	}
	return errs
}

// validateCoreInvariants checks the invariants every allocation must satisfy,
// whatever criteria were used:
//   - every assignment is a legal pattern of the graph, listed once per worker in order
//   - recorded occupancy equals the slot touches of the assignments
//
// Slot maxima are checked by the capacity criterion.
func validateCoreInvariants(state *AllocationState) []SlotValidationError {
	var errs []SlotValidationError

	touches := make([]int, len(state.Occupancy))
	for i, assignment := range state.Assignments {
		if assignment.Worker != i {
			errs = append(errs, SlotValidationError{
				Slot:          -1,
				Worker:        assignment.Worker,
				CriterionName: coreInvariantsName,
				Description:   fmt.Sprintf("assignment at position %d belongs to worker %d", i, assignment.Worker),
			})
		}

		if !state.Graph.IsLegal(assignment.Slots) {
			errs = append(errs, SlotValidationError{
				Slot:          -1,
				Worker:        assignment.Worker,
				CriterionName: coreInvariantsName,
				Description:   fmt.Sprintf("slots %v are not a legal combination", state.Graph.Labels(assignment.Slots)),
			})
		}

		for _, slot := range assignment.Slots {
			if int(slot) < 0 || int(slot) >= len(touches) {
				continue
			}
			touches[slot]++
		}
	}

	for i, occupancy := range state.Occupancy {
		if touches[i] != occupancy {
			errs = append(errs, SlotValidationError{
				Slot:          SlotID(i),
				Worker:        -1,
				CriterionName: coreInvariantsName,
				Description:   fmt.Sprintf("occupancy %d does not match %d assigned workers", occupancy, touches[i]),
			})
		}
	}

	return errs
}
