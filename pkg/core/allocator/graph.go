package allocator

import (
	"fmt"
	"slices"
)

// Method classifies a pattern for reporting
type Method string

const (
	MethodNone       Method = ""
	MethodDayNight   Method = "day-night"
	MethodNightBlock Method = "night-block"
	MethodNightPair  Method = "night-pair"
)

// Pattern is one legal whole-assignment: a fixed, sorted set of slots
type Pattern struct {
	Slots  []SlotID
	Method Method
}

// Size returns the number of slots in the pattern
func (p Pattern) Size() int {
	return len(p.Slots)
}

// Contains reports whether the pattern includes the slot
func (p Pattern) Contains(slot SlotID) bool {
	return slices.Contains(p.Slots, slot)
}

// CompatibilityGraph defines which slot combinations a single worker may hold.
// It is built once per scheme and never mutated afterwards.
type CompatibilityGraph struct {
	slots    []SlotInfo
	patterns []Pattern

	// partners[s] is the sorted set of slots that co-occur with s in some pattern
	partners [][]SlotID

	// minArity[s] is the smallest pattern size among patterns containing s
	minArity []int
	maxArity int

	index map[string]int
}

// NewCompatibilityGraph builds a graph from a slot list and an enumerated pattern list.
// Pattern slots are sorted; duplicates and unknown slots are rejected.
func NewCompatibilityGraph(slots []SlotInfo, patterns []Pattern) (*CompatibilityGraph, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("graph needs at least one slot")
	}
	if len(slots) > MaxSlots {
		return nil, fmt.Errorf("graph has %d slots, at most %d supported", len(slots), MaxSlots)
	}
	for i, slot := range slots {
		if slot.ID != SlotID(i) {
			return nil, fmt.Errorf("slot %q has id %d, expected %d", slot.Label, slot.ID, i)
		}
	}

	g := &CompatibilityGraph{
		slots:    slices.Clone(slots),
		patterns: make([]Pattern, 0, len(patterns)),
		partners: make([][]SlotID, len(slots)),
		minArity: make([]int, len(slots)),
		index:    make(map[string]int, len(patterns)),
	}

	partnerSets := make([]map[SlotID]bool, len(slots))
	for i := range partnerSets {
		partnerSets[i] = make(map[SlotID]bool)
	}

	for _, p := range patterns {
		sorted := slices.Clone(p.Slots)
		slices.Sort(sorted)
		if len(sorted) < 2 {
			return nil, fmt.Errorf("pattern %v must contain at least two slots", p.Slots)
		}
		if len(slices.Compact(slices.Clone(sorted))) != len(sorted) {
			return nil, fmt.Errorf("pattern %v repeats a slot", p.Slots)
		}
		for _, s := range sorted {
			if s < 0 || int(s) >= len(slots) {
				return nil, fmt.Errorf("pattern %v references unknown slot %d", p.Slots, s)
			}
		}

		key := patternKey(sorted)
		if _, exists := g.index[key]; exists {
			return nil, fmt.Errorf("pattern %v is listed twice", p.Slots)
		}
		g.index[key] = len(g.patterns)
		g.patterns = append(g.patterns, Pattern{Slots: sorted, Method: p.Method})

		size := len(sorted)
		g.maxArity = max(g.maxArity, size)
		for _, s := range sorted {
			if g.minArity[s] == 0 || size < g.minArity[s] {
				g.minArity[s] = size
			}
			for _, other := range sorted {
				if other != s {
					partnerSets[s][other] = true
				}
			}
		}
	}

	if len(g.patterns) == 0 {
		return nil, fmt.Errorf("graph needs at least one pattern")
	}

	for s, set := range partnerSets {
		partners := make([]SlotID, 0, len(set))
		for other := range set {
			partners = append(partners, other)
		}
		slices.Sort(partners)
		g.partners[s] = partners
	}

	return g, nil
}

// SlotCount returns the number of slots in the graph
func (g *CompatibilityGraph) SlotCount() int {
	return len(g.slots)
}

// Slots returns the slot definitions in temporal order
func (g *CompatibilityGraph) Slots() []SlotInfo {
	return g.slots
}

// Slot returns a slot definition
func (g *CompatibilityGraph) Slot(id SlotID) SlotInfo {
	return g.slots[id]
}

// Label returns the label of a slot
func (g *CompatibilityGraph) Label(id SlotID) string {
	return g.slots[id].Label
}

// Labels maps a list of slot IDs to their labels
func (g *CompatibilityGraph) Labels(ids []SlotID) []string {
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = g.slots[id].Label
	}
	return labels
}

// AllLabels returns every slot label in slot order
func (g *CompatibilityGraph) AllLabels() []string {
	labels := make([]string, len(g.slots))
	for i, slot := range g.slots {
		labels[i] = slot.Label
	}
	return labels
}

// SlotByLabel looks up a slot by its label
func (g *CompatibilityGraph) SlotByLabel(label string) (SlotID, bool) {
	for _, slot := range g.slots {
		if slot.Label == label {
			return slot.ID, true
		}
	}
	return 0, false
}

// PartnersOf returns the slots that may legally co-occur with the given slot
func (g *CompatibilityGraph) PartnersOf(slot SlotID) []SlotID {
	return g.partners[slot]
}

// MinArity returns the smallest pattern size containing the slot (0 if none)
func (g *CompatibilityGraph) MinArity(slot SlotID) int {
	return g.minArity[slot]
}

// MaxArity returns the largest pattern size in the graph
func (g *CompatibilityGraph) MaxArity() int {
	return g.maxArity
}

// AllPatterns returns every legal whole-assignment, in enumeration order
func (g *CompatibilityGraph) AllPatterns() []Pattern {
	return g.patterns
}

// IsLegal reports whether the slot set is one of the graph's patterns
func (g *CompatibilityGraph) IsLegal(slots []SlotID) bool {
	sorted := slices.Clone(slots)
	slices.Sort(sorted)
	_, ok := g.index[patternKey(sorted)]
	return ok
}

// Classify returns the method label of a pattern. Used only for reporting.
func (g *CompatibilityGraph) Classify(p Pattern) Method {
	sorted := slices.Clone(p.Slots)
	slices.Sort(sorted)
	if i, ok := g.index[patternKey(sorted)]; ok {
		return g.patterns[i].Method
	}
	return MethodNone
}

// Adjacent reports whether two slots are temporally adjacent
// (consecutive and in the same category)
func (g *CompatibilityGraph) Adjacent(a, b SlotID) bool {
	diff := int(a) - int(b)
	if diff != 1 && diff != -1 {
		return false
	}
	return g.slots[a].Category == g.slots[b].Category
}

// AdjacentPairs counts the temporally adjacent slot pairs within a pattern
func (g *CompatibilityGraph) AdjacentPairs(p Pattern) int {
	count := 0
	for i := 0; i < len(p.Slots); i++ {
		for j := i + 1; j < len(p.Slots); j++ {
			if g.Adjacent(p.Slots[i], p.Slots[j]) {
				count++
			}
		}
	}
	return count
}

// IsPreferred reports whether the pattern's slots form one contiguous block
func (g *CompatibilityGraph) IsPreferred(p Pattern) bool {
	for i := 1; i < len(p.Slots); i++ {
		if !g.Adjacent(p.Slots[i-1], p.Slots[i]) {
			return false
		}
	}
	return len(p.Slots) > 1
}

// HasCategory reports whether any slot of the pattern belongs to the category
func (g *CompatibilityGraph) HasCategory(p Pattern, category Category) bool {
	for _, s := range p.Slots {
		if g.slots[s].Category == category {
			return true
		}
	}
	return false
}

func patternKey(sorted []SlotID) string {
	key := make([]byte, len(sorted))
	for i, s := range sorted {
		key[i] = byte('a' + s)
	}
	return string(key)
}
