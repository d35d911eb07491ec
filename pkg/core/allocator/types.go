package allocator

import "slices"

// SlotID identifies a slot within a scheme. IDs are dense, starting at 0, and
// follow the scheme's temporal order.
type SlotID int

// Category groups slots that share a role in a pattern scheme (e.g. day vs night)
type Category string

const (
	CategoryAny   Category = ""
	CategoryDay   Category = "day"
	CategoryNight Category = "night"
)

// SlotInfo describes a slot as defined by a scheme
type SlotInfo struct {
	ID       SlotID
	Label    string
	Category Category
}

// SlotDemand is the caller-supplied headcount requirement for one slot
type SlotDemand struct {
	// Target is the minimum desired occupancy
	Target int

	// Max is the ceiling occupancy, never exceeded
	Max int
}

// AssignmentKind records why an assignment was made
type AssignmentKind string

const (
	// KindRequired assignments were made to satisfy slot targets
	KindRequired AssignmentKind = "required"

	// KindExtra assignments use spare capacity once targets were met
	KindExtra AssignmentKind = "extra"
)

// Assignment is one worker's set of slots
type Assignment struct {
	// Worker is the zero-based worker index (equal to the assignment's position)
	Worker int

	// Slots held by the worker, sorted ascending
	Slots []SlotID

	Kind AssignmentKind

	// Method is the pattern classification (empty for uniform schemes)
	Method Method

	// Preferred is true if the slots form a temporally contiguous block
	Preferred bool
}

// Contains reports whether the assignment includes the slot
func (a Assignment) Contains(slot SlotID) bool {
	return slices.Contains(a.Slots, slot)
}

// AllocationState is the call-scoped working state shared by the allocation phases.
// It is created fresh for every allocation and never reused.
type AllocationState struct {
	// Graph is the scheme's compatibility graph (read-only)
	Graph *CompatibilityGraph

	// Targets are the effective per-slot targets (after any redistribution)
	Targets []int

	// Max is the per-slot occupancy ceiling
	Max []int

	// RemainingTarget is the outstanding demand per slot, decremented monotonically
	RemainingTarget []int

	// Occupancy is the number of workers holding each slot
	Occupancy []int

	// WorkersLeft is the number of workers not yet placed
	WorkersLeft int

	// MinRequired is the minimum worker count needed to meet the original targets
	MinRequired int

	// Assignments made so far, in worker order
	Assignments []Assignment
}

// NewAllocationState creates the working state for one allocation call
func NewAllocationState(graph *CompatibilityGraph, targets, maxes []int, workers int) *AllocationState {
	return &AllocationState{
		Graph:           graph,
		Targets:         slices.Clone(targets),
		Max:             slices.Clone(maxes),
		RemainingTarget: slices.Clone(targets),
		Occupancy:       make([]int, len(targets)),
		WorkersLeft:     workers,
	}
}

// RemainingMax returns the spare capacity of a slot (max minus occupancy)
func (s *AllocationState) RemainingMax(slot SlotID) int {
	return max(s.Max[slot]-s.Occupancy[slot], 0)
}

// RemainingMaxes returns a copy of the spare capacity of every slot
func (s *AllocationState) RemainingMaxes() []int {
	rem := make([]int, len(s.Max))
	for i := range s.Max {
		rem[i] = s.RemainingMax(SlotID(i))
	}
	return rem
}

// Shortfall returns the total outstanding target demand
func (s *AllocationState) Shortfall() int {
	total := 0
	for _, rem := range s.RemainingTarget {
		total += rem
	}
	return total
}

// HasCapacity reports whether every slot of the pattern has spare capacity
func (s *AllocationState) HasCapacity(pattern Pattern) bool {
	for _, slot := range pattern.Slots {
		if s.RemainingMax(slot) <= 0 {
			return false
		}
	}
	return true
}

// commit records an assignment of the pattern to the next worker
func (s *AllocationState) commit(pattern Pattern, kind AssignmentKind) {
	for _, slot := range pattern.Slots {
		if s.RemainingTarget[slot] > 0 {
			s.RemainingTarget[slot]--
		}
		s.Occupancy[slot]++
	}

	s.Assignments = append(s.Assignments, Assignment{
		Worker:    len(s.Assignments),
		Slots:     slices.Clone(pattern.Slots),
		Kind:      kind,
		Method:    pattern.Method,
		Preferred: s.Graph.IsPreferred(pattern),
	})
	s.WorkersLeft--
}
