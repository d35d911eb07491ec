package criteria

import "github.com/jakechorley/rider-rota/pkg/core/allocator"

// PreferredCriterion favours combinations whose slots form one contiguous block
// (e.g. S2+S3 over S1+S4).
//
// Affinity:
//   - 1 for a preferred combination, 0 otherwise
type PreferredCriterion struct {
	affinityWeight float64
}

// NewPreferredCriterion creates a new PreferredCriterion with the given weight
func NewPreferredCriterion(affinityWeight float64) *PreferredCriterion {
	return &PreferredCriterion{affinityWeight: affinityWeight}
}

func (c *PreferredCriterion) Name() string {
	return "Preferred"
}

func (c *PreferredCriterion) IsCandidateValid(state *allocator.AllocationState, candidate *allocator.Candidate) bool {
	return true
}

func (c *PreferredCriterion) CalculateAffinity(state *allocator.AllocationState, candidate *allocator.Candidate) float64 {
	if state.Graph.IsPreferred(candidate.Pattern) {
		return 1
	}
	return 0
}

func (c *PreferredCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}

func (c *PreferredCriterion) ValidateOutcome(state *allocator.AllocationState) []allocator.SlotValidationError {
	return nil
}
