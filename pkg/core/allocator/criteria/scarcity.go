package criteria

import "github.com/jakechorley/rider-rota/pkg/core/allocator"

// ScarcityCriterion uses up the scarcest spare capacity first, so slots close to
// their max are not left with an odd place nobody can pair with.
//
// Affinity:
//   - 1 / the smallest spare capacity among the candidate's slots, before the move
type ScarcityCriterion struct {
	affinityWeight float64
}

// NewScarcityCriterion creates a new ScarcityCriterion with the given weight
func NewScarcityCriterion(affinityWeight float64) *ScarcityCriterion {
	return &ScarcityCriterion{affinityWeight: affinityWeight}
}

func (c *ScarcityCriterion) Name() string {
	return "Scarcity"
}

func (c *ScarcityCriterion) IsCandidateValid(state *allocator.AllocationState, candidate *allocator.Candidate) bool {
	return true
}

func (c *ScarcityCriterion) CalculateAffinity(state *allocator.AllocationState, candidate *allocator.Candidate) float64 {
	if len(candidate.Pattern.Slots) == 0 {
		return 0
	}

	scarcest := state.RemainingMax(candidate.Pattern.Slots[0])
	for _, slot := range candidate.Pattern.Slots[1:] {
		scarcest = min(scarcest, state.RemainingMax(slot))
	}
	if scarcest <= 0 {
		return 0
	}
	return 1 / float64(scarcest)
}

func (c *ScarcityCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}

func (c *ScarcityCriterion) ValidateOutcome(state *allocator.AllocationState) []allocator.SlotValidationError {
	return nil
}
