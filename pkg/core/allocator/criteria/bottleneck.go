package criteria

import "github.com/jakechorley/rider-rota/pkg/core/allocator"

// BottleneckCriterion steers away from moves that leave a slot with more remaining
// target than its partners can absorb.
//
// Affinity:
//   - Minus the sum, over the candidate's slots, of remaining target divided by the
//     partners' combined remaining target (after the move)
//   - A slot whose partners are all satisfied contributes its remaining target as-is
//
// Examples:
//   - S1 left with 4, partners left with 8 in total → 0.5
//   - S1 left with 4, partners all satisfied → 4 (a strong penalty)
type BottleneckCriterion struct {
	affinityWeight float64
}

// NewBottleneckCriterion creates a new BottleneckCriterion with the given weight
func NewBottleneckCriterion(affinityWeight float64) *BottleneckCriterion {
	return &BottleneckCriterion{affinityWeight: affinityWeight}
}

func (c *BottleneckCriterion) Name() string {
	return "Bottleneck"
}

func (c *BottleneckCriterion) IsCandidateValid(state *allocator.AllocationState, candidate *allocator.Candidate) bool {
	return true
}

func (c *BottleneckCriterion) CalculateAffinity(state *allocator.AllocationState, candidate *allocator.Candidate) float64 {
	after := candidate.RemainingTarget

	total := 0.0
	for _, slot := range candidate.Pattern.Slots {
		partners := sumOver(after, state.Graph.PartnersOf(slot))
		if partners > 0 {
			total += float64(after[slot]) / float64(partners)
		} else {
			total += float64(after[slot])
		}
	}
	return -total
}

func (c *BottleneckCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}

func (c *BottleneckCriterion) ValidateOutcome(state *allocator.AllocationState) []allocator.SlotValidationError {
	return nil
}
