package allocator

// runPatternPhases allocates a pattern scheme. Slots of the scarce category are
// served first, each with patterns that contain it, then the remaining slots with
// patterns avoiding the scarce category, then any pattern. Spare capacity is
// filled once every target is met.
func runPatternPhases(state *AllocationState, scarce Category, criteria, capacityCriteria []Criterion) {
	graph := state.Graph

	if scarce != CategoryAny {
		for _, slot := range graph.Slots() {
			if slot.Category != scarce {
				continue
			}
			fillWhile(state, criteria,
				func() bool { return state.RemainingTarget[slot.ID] > 0 },
				func(p Pattern) bool { return p.Contains(slot.ID) && touchesTarget(state, p) })
		}

		fillWhile(state, criteria,
			func() bool {
				for _, slot := range graph.Slots() {
					if slot.Category != scarce && state.RemainingTarget[slot.ID] > 0 {
						return true
					}
				}
				return false
			},
			func(p Pattern) bool { return !graph.HasCategory(p, scarce) && touchesTarget(state, p) })
	}

	fillWhile(state, criteria,
		func() bool { return state.Shortfall() > 0 },
		func(p Pattern) bool { return touchesTarget(state, p) })

	if state.Shortfall() > 0 {
		return
	}

	for state.WorkersLeft > 0 {
		best := findBestCandidate(state, capacityCriteria, nil)
		if best == nil {
			return
		}
		state.commit(best.Pattern, KindExtra)
	}
}

// fillWhile commits required assignments while workers remain, more is wanted and
// a legal candidate exists
func fillWhile(state *AllocationState, criteria []Criterion, wanted func() bool, filter func(Pattern) bool) {
	for state.WorkersLeft > 0 && wanted() {
		best := findBestCandidate(state, criteria, filter)
		if best == nil {
			return
		}
		state.commit(best.Pattern, KindRequired)
	}
}
