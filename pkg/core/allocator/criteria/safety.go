package criteria

import "github.com/jakechorley/rider-rota/pkg/core/allocator"

// PairingSafetyCriterion rejects moves that would leave some slot's remaining target
// impossible to pair with its partners.
//
// Validity:
//   - After the move, every slot must satisfy rem * (minArity - 1) <= sum of partner rem + pad
//   - pad is the number of places the last combination fills over target when the
//     remaining total is not a multiple of the combination size
type PairingSafetyCriterion struct{}

// NewPairingSafetyCriterion creates a new PairingSafetyCriterion
func NewPairingSafetyCriterion() *PairingSafetyCriterion {
	return &PairingSafetyCriterion{}
}

func (c *PairingSafetyCriterion) Name() string {
	return "PairingSafety"
}

func (c *PairingSafetyCriterion) IsCandidateValid(state *allocator.AllocationState, candidate *allocator.Candidate) bool {
	graph := state.Graph
	after := candidate.RemainingTarget

	total := 0
	for _, rem := range after {
		total += rem
	}
	size := graph.MaxArity()
	pad := (size - total%size) % size

	for i, rem := range after {
		slot := allocator.SlotID(i)
		if rem*(graph.MinArity(slot)-1) > sumOver(after, graph.PartnersOf(slot))+pad {
			return false
		}
	}
	return true
}

func (c *PairingSafetyCriterion) CalculateAffinity(state *allocator.AllocationState, candidate *allocator.Candidate) float64 {
	return 0
}

func (c *PairingSafetyCriterion) AffinityWeight() float64 {
	return 0
}

func (c *PairingSafetyCriterion) ValidateOutcome(state *allocator.AllocationState) []allocator.SlotValidationError {
	return nil
}
