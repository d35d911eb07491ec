package allocator

import (
	"fmt"
	"strings"
)

// ViolationKind distinguishes the two feasibility checks
type ViolationKind string

const (
	// ViolationLocal means a single slot's demand exceeds what its partners can pair with
	ViolationLocal ViolationKind = "local"

	// ViolationGlobal means a subset of slots violates Hall's condition
	ViolationGlobal ViolationKind = "global"
)

// Violation describes the first failed feasibility check
type Violation struct {
	Kind ViolationKind `json:"kind"`

	// Slots is the offending slot (local) or subset (global)
	Slots []SlotID `json:"slots"`

	// Neighborhood is the union of the offending slots' legal partners
	Neighborhood []SlotID `json:"neighborhood"`

	// Demand is the combined remaining target of Slots
	Demand int `json:"demand"`

	// RequiredCapacity is the partner demand needed to pair every unit of Demand
	RequiredCapacity int `json:"requiredCapacity"`

	// Capacity is the combined remaining target of Neighborhood
	Capacity int `json:"capacity"`

	// Deficit is RequiredCapacity minus Capacity
	Deficit int `json:"deficit"`
}

// Describe renders the violation using slot labels
func (v *Violation) Describe(labels []string) string {
	name := func(ids []SlotID) string {
		parts := make([]string, len(ids))
		for i, id := range ids {
			if int(id) < len(labels) {
				parts[i] = labels[id]
			} else {
				parts[i] = fmt.Sprintf("#%d", id)
			}
		}
		return strings.Join(parts, ", ")
	}

	switch v.Kind {
	case ViolationLocal:
		return fmt.Sprintf("slot %s needs %d partner shifts for a demand of %d but its partners [%s] only need %d (short by %d)",
			name(v.Slots), v.RequiredCapacity, v.Demand, name(v.Neighborhood), v.Capacity, v.Deficit)
	default:
		return fmt.Sprintf("slots [%s] have a combined demand of %d but their partners [%s] only need %d (short by %d)",
			name(v.Slots), v.Demand, name(v.Neighborhood), v.Capacity, v.Deficit)
	}
}

// FeasibilityReport is the outcome of CheckFeasibility
type FeasibilityReport struct {
	Feasible  bool       `json:"feasible"`
	Violation *Violation `json:"violation,omitempty"`
}

// CheckFeasibility decides whether the demand can be met at all under the graph.
//
// Two checks run in order:
//   - Local: every slot with positive demand must be pairable with its partners'
//     demand, i.e. demand * (minArity - 1) <= sum of partner demand.
//   - Global (Hall's condition): every non-empty subset S of positive-demand slots,
//     enumerated by increasing bitmask, must satisfy demand(S) <= demand(N(S)) where
//     N(S) is the union of the partners of S.
//
// The first violation found is reported and checking stops.
func CheckFeasibility(graph *CompatibilityGraph, demand []int) FeasibilityReport {
	if v := checkLocal(graph, demand); v != nil {
		return FeasibilityReport{Violation: v}
	}
	if v := checkGlobal(graph, demand); v != nil {
		return FeasibilityReport{Violation: v}
	}
	return FeasibilityReport{Feasible: true}
}

func checkLocal(graph *CompatibilityGraph, demand []int) *Violation {
	for i, d := range demand {
		if d <= 0 {
			continue
		}
		slot := SlotID(i)
		partners := graph.PartnersOf(slot)
		capacity := sumOver(demand, partners)
		required := d * max(graph.MinArity(slot)-1, 1)

		if required > capacity {
			return &Violation{
				Kind:             ViolationLocal,
				Slots:            []SlotID{slot},
				Neighborhood:     partners,
				Demand:           d,
				RequiredCapacity: required,
				Capacity:         capacity,
				Deficit:          required - capacity,
			}
		}
	}
	return nil
}

func checkGlobal(graph *CompatibilityGraph, demand []int) *Violation {
	var positive []SlotID
	for i, d := range demand {
		if d > 0 {
			positive = append(positive, SlotID(i))
		}
	}

	for mask := 1; mask < 1<<len(positive); mask++ {
		var subset []SlotID
		inNeighborhood := make([]bool, graph.SlotCount())
		for bit, slot := range positive {
			if mask&(1<<bit) == 0 {
				continue
			}
			subset = append(subset, slot)
			for _, partner := range graph.PartnersOf(slot) {
				inNeighborhood[partner] = true
			}
		}

		var neighborhood []SlotID
		for i, in := range inNeighborhood {
			if in {
				neighborhood = append(neighborhood, SlotID(i))
			}
		}

		subsetDemand := sumOver(demand, subset)
		capacity := sumOver(demand, neighborhood)
		if subsetDemand > capacity {
			return &Violation{
				Kind:             ViolationGlobal,
				Slots:            subset,
				Neighborhood:     neighborhood,
				Demand:           subsetDemand,
				RequiredCapacity: subsetDemand,
				Capacity:         capacity,
				Deficit:          subsetDemand - capacity,
			}
		}
	}
	return nil
}

func sumOver(values []int, slots []SlotID) int {
	total := 0
	for _, s := range slots {
		total += values[s]
	}
	return total
}
