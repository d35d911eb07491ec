package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/rider-rota/pkg/core/allocator"
)

func pattern(slots ...allocator.SlotID) allocator.Pattern {
	return allocator.Pattern{Slots: slots}
}

// candidateFor simulates assigning the pattern without committing it
func candidateFor(state *allocator.AllocationState, p allocator.Pattern) *allocator.Candidate {
	remTarget := append([]int(nil), state.RemainingTarget...)
	remMax := state.RemainingMaxes()
	for _, slot := range p.Slots {
		if remTarget[slot] > 0 {
			remTarget[slot]--
		}
		remMax[slot]--
	}
	return &allocator.Candidate{Pattern: p, RemainingTarget: remTarget, RemainingMax: remMax}
}

func TestCriteria_Names(t *testing.T) {
	tests := []struct {
		criterion allocator.Criterion
		want      string
	}{
		{NewCapacityCriterion(), "Capacity"},
		{NewPairingSafetyCriterion(), "PairingSafety"},
		{NewPreferredCriterion(1), "Preferred"},
		{NewBottleneckCriterion(1), "Bottleneck"},
		{NewBalanceCriterion(BalanceRemainingTarget, 1), "TargetBalance"},
		{NewBalanceCriterion(BalanceRemainingCapacity, 1), "CapacityBalance"},
		{NewPeakDemandCriterion(1), "PeakDemand"},
		{NewPatternDemandCriterion(1), "PatternDemand"},
		{NewProgressCriterion(1), "Progress"},
		{NewStrandedCapacityCriterion(1), "StrandedCapacity"},
		{NewScarcityCriterion(1), "Scarcity"},
		{NewAdjacencyCriterion(1), "Adjacency"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.criterion.Name())
	}
}

func TestCriteria_Weights(t *testing.T) {
	assert.Equal(t, 100.0, NewPreferredCriterion(100).AffinityWeight())
	assert.Equal(t, 50.0, NewBottleneckCriterion(50).AffinityWeight())
	assert.Equal(t, 0.0, NewCapacityCriterion().AffinityWeight())
	assert.Equal(t, 0.0, NewPairingSafetyCriterion().AffinityWeight())
}

func TestCapacityCriterion_IsCandidateValid(t *testing.T) {
	state := allocator.NewAllocationState(allocator.PairScheme.Graph, []int{0, 0, 0, 0, 0}, []int{1, 0, 1, 1, 1}, 2)
	criterion := NewCapacityCriterion()

	assert.True(t, criterion.IsCandidateValid(state, candidateFor(state, pattern(0, 2))))
	assert.False(t, criterion.IsCandidateValid(state, candidateFor(state, pattern(0, 1))), "S2 has no spare capacity")
}

func TestCapacityCriterion_ValidateOutcome(t *testing.T) {
	state := allocator.NewAllocationState(allocator.PairScheme.Graph, []int{0, 0, 0, 0, 0}, []int{1, 1, 1, 1, 1}, 0)
	state.Occupancy = []int{1, 2, 0, 0, 3}

	errors := NewCapacityCriterion().ValidateOutcome(state)

	assert.Len(t, errors, 2)
	assert.Equal(t, allocator.SlotID(1), errors[0].Slot)
	assert.Equal(t, "Capacity", errors[0].CriterionName)
	assert.Contains(t, errors[0].Description, "has 2 workers but max is 1")
	assert.Equal(t, allocator.SlotID(4), errors[1].Slot)
}

func TestPairingSafetyCriterion(t *testing.T) {
	graph := allocator.PairScheme.Graph
	criterion := NewPairingSafetyCriterion()

	// Taking S2+S3 would leave S1 with 3 against a single partner shift
	state := allocator.NewAllocationState(graph, []int{3, 1, 1, 1, 0}, []int{5, 5, 5, 5, 5}, 4)
	assert.False(t, criterion.IsCandidateValid(state, candidateFor(state, pattern(1, 2))))
	assert.True(t, criterion.IsCandidateValid(state, candidateFor(state, pattern(0, 1))))

	// Emptying every target is always safe
	small := allocator.NewAllocationState(graph, []int{1, 1, 0, 0, 0}, []int{5, 5, 5, 5, 5}, 1)
	assert.True(t, criterion.IsCandidateValid(small, candidateFor(small, pattern(0, 1))))

	odd := allocator.NewAllocationState(graph, []int{2, 1, 0, 0, 0}, []int{5, 5, 5, 5, 5}, 2)
	assert.True(t, criterion.IsCandidateValid(odd, candidateFor(odd, pattern(0, 1))), "Leftover of 1 is handled by the top-up")
}

func TestPairingSafetyCriterion_TripletRemainder(t *testing.T) {
	graph := allocator.TripletScheme.Graph
	criterion := NewPairingSafetyCriterion()

	// 8 places need 3 triplets, one place over target: T4 keeps 2 against 3 partner places plus the pad
	state := allocator.NewAllocationState(graph, []int{2, 2, 2, 2, 0, 0}, repeat(10, 6), 3)
	assert.True(t, criterion.IsCandidateValid(state, candidateFor(state, pattern(0, 1, 2))))

	// Leaving T1 with 2 and nothing else needs two more workers for 2 places
	uneven := allocator.NewAllocationState(graph, []int{2, 1, 1, 1, 0, 0}, repeat(10, 6), 2)
	assert.False(t, criterion.IsCandidateValid(uneven, candidateFor(uneven, pattern(1, 2, 3))))
	assert.True(t, criterion.IsCandidateValid(uneven, candidateFor(uneven, pattern(0, 1, 2))))
}

func TestPreferredCriterion(t *testing.T) {
	state := allocator.NewAllocationState(allocator.PairScheme.Graph, []int{1, 1, 1, 1, 1}, []int{1, 1, 1, 1, 1}, 2)
	criterion := NewPreferredCriterion(100)

	assert.Equal(t, 1.0, criterion.CalculateAffinity(state, candidateFor(state, pattern(1, 2))))
	assert.Equal(t, 0.0, criterion.CalculateAffinity(state, candidateFor(state, pattern(1, 3))))
}

func TestBottleneckCriterion(t *testing.T) {
	state := allocator.NewAllocationState(allocator.PairScheme.Graph, []int{4, 2, 2, 2, 0}, []int{9, 9, 9, 9, 9}, 5)
	criterion := NewBottleneckCriterion(50)

	// After S1+S2: S1 has 3 left against partners 1+2+2+0=5, S2 has 1 left against 3+2+2+0=7
	got := criterion.CalculateAffinity(state, candidateFor(state, pattern(0, 1)))
	assert.InDelta(t, -(3.0/5.0 + 1.0/7.0), got, 1e-9)

	// Partners fully satisfied: the remaining target counts as-is
	lonely := allocator.NewAllocationState(allocator.PairScheme.Graph, []int{3, 1, 0, 0, 0}, []int{9, 9, 9, 9, 9}, 3)
	got = criterion.CalculateAffinity(lonely, candidateFor(lonely, pattern(0, 1)))
	assert.InDelta(t, -2.0, got, 1e-9)
}

func TestBalanceCriterion(t *testing.T) {
	state := allocator.NewAllocationState(allocator.PairScheme.Graph, []int{5, 2, 5, 5, 5}, []int{9, 5, 9, 9, 9}, 5)

	targetBalance := NewBalanceCriterion(BalanceRemainingTarget, 10)
	assert.InDelta(t, 1.0/4.0, targetBalance.CalculateAffinity(state, candidateFor(state, pattern(0, 1))), 1e-9)
	assert.InDelta(t, 1.0, targetBalance.CalculateAffinity(state, candidateFor(state, pattern(2, 3))), 1e-9)

	capacityBalance := NewBalanceCriterion(BalanceRemainingCapacity, 10)
	assert.InDelta(t, 1.0/5.0, capacityBalance.CalculateAffinity(state, candidateFor(state, pattern(0, 1))), 1e-9)
}

func TestDemandCriteria(t *testing.T) {
	state := allocator.NewAllocationState(allocator.PairScheme.Graph, []int{7, 2, 0, 1, 0}, []int{9, 9, 9, 9, 9}, 5)

	assert.Equal(t, 7.0, NewPeakDemandCriterion(5).CalculateAffinity(state, candidateFor(state, pattern(0, 3))))
	assert.Equal(t, 2.0, NewPeakDemandCriterion(5).CalculateAffinity(state, candidateFor(state, pattern(1, 2))))
	assert.Equal(t, 8.0, NewPatternDemandCriterion(1).CalculateAffinity(state, candidateFor(state, pattern(0, 3))))
}

func TestProgressCriterion(t *testing.T) {
	state := allocator.NewAllocationState(allocator.TripletScheme.Graph, []int{1, 0, 2, 0, 0, 0}, []int{3, 3, 3, 3, 3, 3}, 2)
	criterion := NewProgressCriterion(100)

	assert.Equal(t, 2.0, criterion.CalculateAffinity(state, candidateFor(state, pattern(0, 1, 2))))
	assert.Equal(t, 0.0, criterion.CalculateAffinity(state, candidateFor(state, pattern(3, 4, 5))))
}

func TestStrandedCapacityCriterion(t *testing.T) {
	graph := allocator.PairScheme.Graph
	criterion := NewStrandedCapacityCriterion(1000)

	// Spare [3,1,1,0,0]: taking S2+S3 strands S1's 3 places with nobody to pair
	state := allocator.NewAllocationState(graph, []int{0, 0, 0, 0, 0}, []int{3, 1, 1, 0, 0}, 2)
	assert.Equal(t, -3.0, criterion.CalculateAffinity(state, candidateFor(state, pattern(1, 2))))
	// Taking S1+S2 leaves S1 with 2 against S3's 1
	assert.Equal(t, -1.0, criterion.CalculateAffinity(state, candidateFor(state, pattern(0, 1))))
}

func TestScarcityCriterion(t *testing.T) {
	state := allocator.NewAllocationState(allocator.PairScheme.Graph, []int{0, 0, 0, 0, 0}, []int{4, 2, 8, 8, 0}, 2)
	criterion := NewScarcityCriterion(50)

	assert.InDelta(t, 0.5, criterion.CalculateAffinity(state, candidateFor(state, pattern(0, 1))), 1e-9)
	assert.InDelta(t, 0.125, criterion.CalculateAffinity(state, candidateFor(state, pattern(2, 3))), 1e-9)
	assert.Equal(t, 0.0, criterion.CalculateAffinity(state, candidateFor(state, pattern(3, 4))), "No spare capacity")
}

func TestAdjacencyCriterion(t *testing.T) {
	state := allocator.NewAllocationState(allocator.DayNightScheme.Graph, make([]int, 8), make([]int, 8), 0)
	criterion := NewAdjacencyCriterion(10)

	assert.Equal(t, 2.0, criterion.CalculateAffinity(state, candidateFor(state, pattern(2, 3, 4))))
	assert.Equal(t, 1.0, criterion.CalculateAffinity(state, candidateFor(state, pattern(0, 2, 3))))
}

func TestStandard_PhaseSets(t *testing.T) {
	set := Standard(allocator.DefaultPolicy())

	names := func(criteria []allocator.Criterion) []string {
		out := make([]string, len(criteria))
		for i, c := range criteria {
			out[i] = c.Name()
		}
		return out
	}

	assert.Equal(t, []string{"Capacity", "PairingSafety", "Preferred", "Bottleneck", "TargetBalance"}, names(set.Target))
	assert.Equal(t, []string{"Capacity", "PairingSafety", "Preferred", "Bottleneck", "TargetBalance", "PeakDemand"}, names(set.SmallPopulationTarget))
	assert.Equal(t, 1000.0, set.SmallPopulationTarget[2].AffinityWeight())
	assert.Equal(t, []string{"Capacity", "Progress", "Preferred"}, names(set.TopUp))
	assert.Equal(t, []string{"Capacity", "StrandedCapacity", "Scarcity", "CapacityBalance"}, names(set.Capacity))
	assert.Equal(t, []string{"Capacity", "Progress", "PatternDemand", "Adjacency", "CapacityBalance"}, names(set.Pattern))
	assert.Equal(t, []string{"Capacity", "Scarcity", "Adjacency", "CapacityBalance"}, names(set.PatternCapacity))

	for _, phase := range [][]allocator.Criterion{set.Target, set.TopUp, set.Capacity, set.Pattern, set.PatternCapacity} {
		assert.Equal(t, "Capacity", phase[0].Name(), "Every phase enforces slot maxima")
	}
}
