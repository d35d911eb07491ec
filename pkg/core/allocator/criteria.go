package allocator

// SlotValidationError represents a validation error for a specific slot or assignment
type SlotValidationError struct {
	// Slot is the slot concerned, or -1 when the error is about an assignment
	Slot SlotID

	// Worker is the assignment concerned, or -1 when the error is about a slot
	Worker int

	CriterionName string
	Description   string
}

// Candidate is a simulated move: one pattern applied to the current state.
// The remaining arrays hold the values after the move; the state is untouched.
type Candidate struct {
	Pattern Pattern

	// RemainingTarget per slot after the move
	RemainingTarget []int

	// RemainingMax per slot after the move
	RemainingMax []int
}

// newCandidate simulates applying the pattern to the state
func newCandidate(state *AllocationState, pattern Pattern) *Candidate {
	remTarget := make([]int, len(state.RemainingTarget))
	copy(remTarget, state.RemainingTarget)
	remMax := state.RemainingMaxes()

	for _, slot := range pattern.Slots {
		if remTarget[slot] > 0 {
			remTarget[slot]--
		}
		remMax[slot]--
	}

	return &Candidate{
		Pattern:         pattern,
		RemainingTarget: remTarget,
		RemainingMax:    remMax,
	}
}

// Criterion defines one heuristic or hard constraint applied during allocation.
// Criteria influence which candidate pattern is assigned to the next worker.
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// IsCandidateValid determines if the candidate may be committed.
	// This acts as a veto - if ANY criterion returns false, the candidate is skipped.
	IsCandidateValid(state *AllocationState, candidate *Candidate) bool

	// CalculateAffinity scores how desirable the candidate is.
	// The value is multiplied by AffinityWeight; higher totals win.
	CalculateAffinity(state *AllocationState, candidate *Candidate) float64

	// AffinityWeight returns the weight applied to CalculateAffinity
	AffinityWeight() float64

	// ValidateOutcome checks the finished state against this criterion's requirements.
	// Returns a slice of validation errors (empty if all valid).
	ValidateOutcome(state *AllocationState) []SlotValidationError
}

// PhaseCriteria holds the criteria applied by each allocation phase.
// Every set should include the hard constraints (capacity) alongside its heuristics.
type PhaseCriteria struct {
	// Target drives remaining targets to zero for uniform schemes
	Target []Criterion

	// SmallPopulationTarget replaces Target when few workers are needed
	SmallPopulationTarget []Criterion

	// TopUp covers leftover target smaller than one full combination
	TopUp []Criterion

	// Capacity places surplus workers once every target is met
	Capacity []Criterion

	// Pattern drives targets to zero for pattern schemes
	Pattern []Criterion

	// PatternCapacity places surplus workers for pattern schemes
	PatternCapacity []Criterion
}

// All returns every distinct criterion across the phases, in first-seen order
func (p PhaseCriteria) All() []Criterion {
	seen := make(map[string]bool)
	var all []Criterion
	for _, set := range [][]Criterion{p.Target, p.SmallPopulationTarget, p.TopUp, p.Capacity, p.Pattern, p.PatternCapacity} {
		for _, criterion := range set {
			if seen[criterion.Name()] {
				continue
			}
			seen[criterion.Name()] = true
			all = append(all, criterion)
		}
	}
	return all
}

func (p PhaseCriteria) isEmpty() bool {
	return len(p.All()) == 0
}

// CalculateCandidateAffinity sums the weighted affinity of every criterion.
// The second return value is false if any criterion vetoes the candidate.
func CalculateCandidateAffinity(state *AllocationState, candidate *Candidate, criteria []Criterion) (float64, bool) {
	for _, criterion := range criteria {
		if !criterion.IsCandidateValid(state, candidate) {
			return 0, false
		}
	}

	total := 0.0
	for _, criterion := range criteria {
		weight := criterion.AffinityWeight()
		if weight == 0 {
			continue
		}
		total += criterion.CalculateAffinity(state, candidate) * weight
	}
	return total, true
}

// findBestCandidate returns the highest-affinity legal candidate among the patterns
// accepted by filter. The first pattern wins ties, so results are deterministic.
func findBestCandidate(state *AllocationState, criteria []Criterion, filter func(Pattern) bool) *Candidate {
	var best *Candidate
	var bestAffinity float64

	for _, pattern := range state.Graph.AllPatterns() {
		if filter != nil && !filter(pattern) {
			continue
		}

		candidate := newCandidate(state, pattern)
		affinity, ok := CalculateCandidateAffinity(state, candidate, criteria)
		if !ok {
			continue
		}

		if best == nil || affinity > bestAffinity {
			best = candidate
			bestAffinity = affinity
		}
	}

	return best
}

// touchesTarget reports whether any slot of the pattern still has remaining target
func touchesTarget(state *AllocationState, pattern Pattern) bool {
	for _, slot := range pattern.Slots {
		if state.RemainingTarget[slot] > 0 {
			return true
		}
	}
	return false
}

// allTargetsOpen reports whether every slot of the pattern still has remaining target
func allTargetsOpen(state *AllocationState, pattern Pattern) bool {
	for _, slot := range pattern.Slots {
		if state.RemainingTarget[slot] <= 0 {
			return false
		}
	}
	return true
}
