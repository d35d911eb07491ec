package criteria

import "github.com/jakechorley/rider-rota/pkg/core/allocator"

// PeakDemandCriterion favours combinations touching the slot with the most
// outstanding demand. Used when few workers are needed, where each assignment
// moves the targets a long way.
//
// Affinity:
//   - The largest remaining target among the candidate's slots, before the move
type PeakDemandCriterion struct {
	affinityWeight float64
}

// NewPeakDemandCriterion creates a new PeakDemandCriterion with the given weight
func NewPeakDemandCriterion(affinityWeight float64) *PeakDemandCriterion {
	return &PeakDemandCriterion{affinityWeight: affinityWeight}
}

func (c *PeakDemandCriterion) Name() string {
	return "PeakDemand"
}

func (c *PeakDemandCriterion) IsCandidateValid(state *allocator.AllocationState, candidate *allocator.Candidate) bool {
	return true
}

func (c *PeakDemandCriterion) CalculateAffinity(state *allocator.AllocationState, candidate *allocator.Candidate) float64 {
	peak := 0
	for _, slot := range candidate.Pattern.Slots {
		peak = max(peak, state.RemainingTarget[slot])
	}
	return float64(peak)
}

func (c *PeakDemandCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}

func (c *PeakDemandCriterion) ValidateOutcome(state *allocator.AllocationState) []allocator.SlotValidationError {
	return nil
}

// PatternDemandCriterion favours combinations covering more outstanding demand.
//
// Affinity:
//   - The sum of remaining target over the candidate's slots, before the move
type PatternDemandCriterion struct {
	affinityWeight float64
}

// NewPatternDemandCriterion creates a new PatternDemandCriterion with the given weight
func NewPatternDemandCriterion(affinityWeight float64) *PatternDemandCriterion {
	return &PatternDemandCriterion{affinityWeight: affinityWeight}
}

func (c *PatternDemandCriterion) Name() string {
	return "PatternDemand"
}

func (c *PatternDemandCriterion) IsCandidateValid(state *allocator.AllocationState, candidate *allocator.Candidate) bool {
	return true
}

func (c *PatternDemandCriterion) CalculateAffinity(state *allocator.AllocationState, candidate *allocator.Candidate) float64 {
	return float64(sumOver(state.RemainingTarget, candidate.Pattern.Slots))
}

func (c *PatternDemandCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}

func (c *PatternDemandCriterion) ValidateOutcome(state *allocator.AllocationState) []allocator.SlotValidationError {
	return nil
}
