package criteria

import "github.com/jakechorley/rider-rota/pkg/core/allocator"

// StrandedCapacityCriterion penalises extra assignments that leave spare capacity
// no later worker could use, because a slot's spare places outnumber what its
// partners could pair with.
//
// Affinity:
//   - Minus the waste after the move: the sum over all slots of
//     max(0, spare * (minArity - 1) - sum of partner spare)
type StrandedCapacityCriterion struct {
	affinityWeight float64
}

// NewStrandedCapacityCriterion creates a new StrandedCapacityCriterion with the given weight
func NewStrandedCapacityCriterion(affinityWeight float64) *StrandedCapacityCriterion {
	return &StrandedCapacityCriterion{affinityWeight: affinityWeight}
}

func (c *StrandedCapacityCriterion) Name() string {
	return "StrandedCapacity"
}

func (c *StrandedCapacityCriterion) IsCandidateValid(state *allocator.AllocationState, candidate *allocator.Candidate) bool {
	return true
}

func (c *StrandedCapacityCriterion) CalculateAffinity(state *allocator.AllocationState, candidate *allocator.Candidate) float64 {
	graph := state.Graph
	after := candidate.RemainingMax

	waste := 0
	for i, spare := range after {
		slot := allocator.SlotID(i)
		waste += max(0, spare*(graph.MinArity(slot)-1)-sumOver(after, graph.PartnersOf(slot)))
	}
	return -float64(waste)
}

func (c *StrandedCapacityCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}

func (c *StrandedCapacityCriterion) ValidateOutcome(state *allocator.AllocationState) []allocator.SlotValidationError {
	return nil
}
