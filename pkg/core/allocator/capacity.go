package allocator

// runCapacityPhase places the remaining workers into spare capacity, trying
// preferred combinations before any other
func runCapacityPhase(state *AllocationState, criteria []Criterion) {
	preferredOnly := func(p Pattern) bool {
		return state.Graph.IsPreferred(p)
	}

	for state.WorkersLeft > 0 {
		best := findBestCandidate(state, criteria, preferredOnly)
		if best == nil {
			best = findBestCandidate(state, criteria, nil)
		}
		if best == nil {
			return
		}
		state.commit(best.Pattern, KindExtra)
	}
}
