package allocator

// runTargetPhases alternates the target phase with single top-up moves until the
// targets are met, the workers run out or neither can place anyone
func runTargetPhases(state *AllocationState, targetCriteria, topUpCriteria []Criterion) {
	for {
		runTargetPhase(state, targetCriteria)
		if state.WorkersLeft == 0 || state.Shortfall() == 0 {
			return
		}
		if !runTopUpMove(state, topUpCriteria) {
			return
		}
	}
}

// runTargetPhase assigns combinations whose slots all still need workers until the
// targets are met, the workers run out or no safe move remains
func runTargetPhase(state *AllocationState, criteria []Criterion) {
	for state.WorkersLeft > 0 && state.Shortfall() > 0 {
		best := findBestCandidate(state, criteria, func(p Pattern) bool {
			return allTargetsOpen(state, p)
		})
		if best == nil {
			return
		}
		state.commit(best.Pattern, KindRequired)
	}
}

// runTopUpMove places one combination covering as many outstanding slots as any
// combination with spare capacity can, filling the rest of it over target. It
// reports whether a worker was placed.
func runTopUpMove(state *AllocationState, criteria []Criterion) bool {
	coverage := 0
	for _, p := range state.Graph.AllPatterns() {
		if state.HasCapacity(p) {
			coverage = max(coverage, openSlots(state, p))
		}
	}
	if coverage == 0 {
		return false
	}

	best := findBestCandidate(state, criteria, func(p Pattern) bool {
		return openSlots(state, p) == coverage
	})
	if best == nil {
		return false
	}
	state.commit(best.Pattern, KindRequired)
	return true
}

// openSlots counts the pattern's slots that still have remaining target
func openSlots(state *AllocationState, pattern Pattern) int {
	count := 0
	for _, slot := range pattern.Slots {
		if state.RemainingTarget[slot] > 0 {
			count++
		}
	}
	return count
}
