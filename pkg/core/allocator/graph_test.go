package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairScheme_Shape(t *testing.T) {
	g := PairScheme.Graph

	assert.Equal(t, SchemePair, PairScheme.Kind)
	assert.Equal(t, 2, PairScheme.ShiftsPerWorker)
	assert.Equal(t, 5, g.SlotCount())
	assert.Len(t, g.AllPatterns(), 10)
	assert.Equal(t, 2, g.MaxArity())
	assert.Equal(t, []SlotID{0, 1, 3, 4}, g.PartnersOf(2))
	assert.Equal(t, []string{"S1", "S2", "S3", "S4", "S5"}, g.AllLabels())
	for i := 0; i < g.SlotCount(); i++ {
		assert.Equal(t, 2, g.MinArity(SlotID(i)))
	}
}

func TestTripletScheme_Shape(t *testing.T) {
	g := TripletScheme.Graph

	assert.Equal(t, 3, TripletScheme.ShiftsPerWorker)
	assert.Len(t, g.AllPatterns(), 20)
	assert.Len(t, g.PartnersOf(0), 5)
	assert.True(t, g.IsLegal([]SlotID{5, 0, 3}), "Order does not matter")
	assert.False(t, g.IsLegal([]SlotID{0, 1}))
	assert.Equal(t, []SlotID{0, 1, 2}, g.AllPatterns()[0].Slots)
}

func TestDayNightScheme_Shape(t *testing.T) {
	g := DayNightScheme.Graph

	assert.Equal(t, SchemePattern, DayNightScheme.Kind)
	assert.False(t, DayNightScheme.Uniform())
	assert.Equal(t, 8, g.SlotCount())
	// 2 days x 5 night pairs + 4 night blocks + 5 night pairs
	assert.Len(t, g.AllPatterns(), 19)
	assert.Equal(t, 3, g.MaxArity())
	assert.Equal(t, 3, g.MinArity(0), "Day slots only appear in day-night patterns")
	assert.Equal(t, 2, g.MinArity(2))
	assert.Equal(t, CategoryDay, DayNightScheme.ScarceCategory())
	assert.Equal(t, CategoryAny, PairScheme.ScarceCategory())

	d1, ok := g.SlotByLabel("D1")
	require.True(t, ok)
	assert.Equal(t, []SlotID{2, 3, 4, 5, 6, 7}, g.PartnersOf(d1), "Day slots never pair with each other")

	_, ok = g.SlotByLabel("X9")
	assert.False(t, ok)
}

func TestCompatibilityGraph_Classify(t *testing.T) {
	g := DayNightScheme.Graph

	tests := []struct {
		slots []SlotID
		want  Method
	}{
		{[]SlotID{0, 2, 3}, MethodDayNight},
		{[]SlotID{3, 2, 1}, MethodDayNight},
		{[]SlotID{2, 3, 4}, MethodNightBlock},
		{[]SlotID{6, 7}, MethodNightPair},
		{[]SlotID{0, 1}, MethodNone},
		{[]SlotID{2, 4}, MethodNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, g.Classify(Pattern{Slots: tt.slots}), "slots %v", tt.slots)
	}
}

func TestCompatibilityGraph_Adjacency(t *testing.T) {
	pair := PairScheme.Graph
	assert.True(t, pair.Adjacent(1, 2))
	assert.True(t, pair.Adjacent(2, 1))
	assert.False(t, pair.Adjacent(0, 2))
	assert.True(t, pair.IsPreferred(Pattern{Slots: []SlotID{1, 2}}))
	assert.False(t, pair.IsPreferred(Pattern{Slots: []SlotID{0, 3}}))

	triplet := TripletScheme.Graph
	assert.True(t, triplet.IsPreferred(Pattern{Slots: []SlotID{2, 3, 4}}))
	assert.False(t, triplet.IsPreferred(Pattern{Slots: []SlotID{0, 1, 3}}))
	assert.Equal(t, 1, triplet.AdjacentPairs(Pattern{Slots: []SlotID{0, 1, 3}}))

	dn := DayNightScheme.Graph
	assert.False(t, dn.Adjacent(1, 2), "D2 and N1 are consecutive but in different categories")
	assert.False(t, dn.IsPreferred(Pattern{Slots: []SlotID{0, 2, 3}}))
	assert.True(t, dn.IsPreferred(Pattern{Slots: []SlotID{2, 3, 4}}))
	assert.Equal(t, 1, dn.AdjacentPairs(Pattern{Slots: []SlotID{1, 4, 5}}))
	assert.True(t, dn.HasCategory(Pattern{Slots: []SlotID{1, 4, 5}}, CategoryDay))
	assert.False(t, dn.HasCategory(Pattern{Slots: []SlotID{4, 5}}, CategoryDay))
}

func TestNewCompatibilityGraph_RejectsBadInput(t *testing.T) {
	slots := []SlotInfo{{ID: 0, Label: "A"}, {ID: 1, Label: "B"}, {ID: 2, Label: "C"}}

	tests := []struct {
		name     string
		slots    []SlotInfo
		patterns []Pattern
	}{
		{"no slots", nil, []Pattern{{Slots: []SlotID{0, 1}}}},
		{"no patterns", slots, nil},
		{"single-slot pattern", slots, []Pattern{{Slots: []SlotID{0}}}},
		{"repeated slot", slots, []Pattern{{Slots: []SlotID{1, 1}}}},
		{"unknown slot", slots, []Pattern{{Slots: []SlotID{0, 5}}}},
		{"duplicate pattern", slots, []Pattern{{Slots: []SlotID{0, 1}}, {Slots: []SlotID{1, 0}}}},
		{"misnumbered slot", []SlotInfo{{ID: 1, Label: "A"}}, []Pattern{{Slots: []SlotID{0, 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompatibilityGraph(tt.slots, tt.patterns)
			assert.Error(t, err)
		})
	}

	tooMany := make([]SlotInfo, MaxSlots+1)
	for i := range tooMany {
		tooMany[i] = SlotInfo{ID: SlotID(i)}
	}
	_, err := NewCompatibilityGraph(tooMany, []Pattern{{Slots: []SlotID{0, 1}}})
	assert.Error(t, err)
}

func TestNewPairScheme_Forbidden(t *testing.T) {
	scheme, err := NewPairScheme("custom", []string{"A", "B", "C", "D"}, [][2]SlotID{{2, 0}, {1, 3}})
	require.NoError(t, err)

	g := scheme.Graph
	assert.Len(t, g.AllPatterns(), 4)
	assert.False(t, g.IsLegal([]SlotID{0, 2}))
	assert.False(t, g.IsLegal([]SlotID{1, 3}))
	assert.Equal(t, []SlotID{1, 3}, g.PartnersOf(0))
}

func TestScheme_WorkerBounds(t *testing.T) {
	assert.Equal(t, 50, PairScheme.MinRequiredWorkers([]int{20, 20, 20, 20, 20}))
	assert.Equal(t, 2, PairScheme.MinRequiredWorkers([]int{1, 1, 1, 0, 0}), "Rounded up")
	assert.Equal(t, 60, TripletScheme.MinRequiredWorkers([]int{30, 30, 30, 30, 30, 30}))
	assert.Equal(t, 37, DayNightScheme.MinRequiredWorkers([]int{10, 10, 15, 15, 15, 15, 15, 15}), "Uses the largest pattern")

	assert.Equal(t, 62, PairScheme.MaxPlaceableWorkers([]int{25, 25, 25, 25, 25}))
	assert.Equal(t, 72, DayNightScheme.MaxPlaceableWorkers([]int{12, 12, 20, 20, 20, 20, 20, 20}), "Uses the smallest pattern")
}

func TestSchemeByName(t *testing.T) {
	scheme, err := SchemeByName("triplet")
	require.NoError(t, err)
	assert.Same(t, TripletScheme, scheme)

	_, err = SchemeByName("quad")
	assert.ErrorContains(t, err, "unknown scheme")

	assert.Equal(t, []string{"daynight", "pair", "triplet"}, SchemeNames())
	assert.Equal(t, "pattern", SchemePattern.String())
}

func TestCombinations(t *testing.T) {
	combos := combinations(4, 2)
	assert.Equal(t, [][]SlotID{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, combos)
	assert.Len(t, combinations(6, 3), 20)
}
