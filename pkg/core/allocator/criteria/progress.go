package criteria

import "github.com/jakechorley/rider-rota/pkg/core/allocator"

// ProgressCriterion favours combinations that make progress on more targets.
//
// Affinity:
//   - The number of the candidate's slots that still had remaining target before the move
type ProgressCriterion struct {
	affinityWeight float64
}

// NewProgressCriterion creates a new ProgressCriterion with the given weight
func NewProgressCriterion(affinityWeight float64) *ProgressCriterion {
	return &ProgressCriterion{affinityWeight: affinityWeight}
}

func (c *ProgressCriterion) Name() string {
	return "Progress"
}

func (c *ProgressCriterion) IsCandidateValid(state *allocator.AllocationState, candidate *allocator.Candidate) bool {
	return true
}

func (c *ProgressCriterion) CalculateAffinity(state *allocator.AllocationState, candidate *allocator.Candidate) float64 {
	count := 0
	for _, slot := range candidate.Pattern.Slots {
		if state.RemainingTarget[slot] > 0 {
			count++
		}
	}
	return float64(count)
}

func (c *ProgressCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}

func (c *ProgressCriterion) ValidateOutcome(state *allocator.AllocationState) []allocator.SlotValidationError {
	return nil
}
