package criteria

import "github.com/jakechorley/rider-rota/pkg/core/allocator"

// AdjacencyCriterion favours patterns with more back-to-back slots.
//
// Affinity:
//   - The number of temporally adjacent slot pairs in the candidate
//     (N1+N2+N3 scores 2, D1+N1+N2 scores 1)
type AdjacencyCriterion struct {
	affinityWeight float64
}

// NewAdjacencyCriterion creates a new AdjacencyCriterion with the given weight
func NewAdjacencyCriterion(affinityWeight float64) *AdjacencyCriterion {
	return &AdjacencyCriterion{affinityWeight: affinityWeight}
}

func (c *AdjacencyCriterion) Name() string {
	return "Adjacency"
}

func (c *AdjacencyCriterion) IsCandidateValid(state *allocator.AllocationState, candidate *allocator.Candidate) bool {
	return true
}

func (c *AdjacencyCriterion) CalculateAffinity(state *allocator.AllocationState, candidate *allocator.Candidate) float64 {
	return float64(state.Graph.AdjacentPairs(candidate.Pattern))
}

func (c *AdjacencyCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}

func (c *AdjacencyCriterion) ValidateOutcome(state *allocator.AllocationState) []allocator.SlotValidationError {
	return nil
}
