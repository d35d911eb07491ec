package criteria

import "github.com/jakechorley/rider-rota/pkg/core/allocator"

// Standard builds the criteria for every allocation phase from the policy weights
func Standard(policy allocator.Policy) allocator.PhaseCriteria {
	capacity := NewCapacityCriterion()
	safety := NewPairingSafetyCriterion()
	targetBalance := NewBalanceCriterion(BalanceRemainingTarget, policy.WeightBalance)
	capacityBalance := NewBalanceCriterion(BalanceRemainingCapacity, policy.WeightBalance)
	bottleneck := NewBottleneckCriterion(policy.WeightBottleneck)
	progress := NewProgressCriterion(policy.WeightPatternProgress)
	adjacency := NewAdjacencyCriterion(policy.WeightPatternAdjacency)
	scarcity := NewScarcityCriterion(policy.WeightScarceCapacity)

	return allocator.PhaseCriteria{
		Target: []allocator.Criterion{
			capacity,
			safety,
			NewPreferredCriterion(policy.WeightPreferred),
			bottleneck,
			targetBalance,
		},
		SmallPopulationTarget: []allocator.Criterion{
			capacity,
			safety,
			NewPreferredCriterion(policy.WeightSmallPopulationPreferred),
			bottleneck,
			targetBalance,
			NewPeakDemandCriterion(policy.WeightSmallPopulationDemand),
		},
		TopUp: []allocator.Criterion{
			capacity,
			progress,
			NewPreferredCriterion(policy.WeightPreferred),
		},
		Capacity: []allocator.Criterion{
			capacity,
			NewStrandedCapacityCriterion(policy.WeightStrandedCapacity),
			scarcity,
			capacityBalance,
		},
		Pattern: []allocator.Criterion{
			capacity,
			progress,
			NewPatternDemandCriterion(policy.WeightPatternDemand),
			adjacency,
			capacityBalance,
		},
		PatternCapacity: []allocator.Criterion{
			capacity,
			scarcity,
			adjacency,
			capacityBalance,
		},
	}
}
