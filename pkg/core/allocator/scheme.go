package allocator

import (
	"fmt"
	"slices"
	"sort"
)

// MaxSlots is the largest slot count supported by a scheme.
// Feasibility enumerates subsets, so this must stay small.
const MaxSlots = 8

// SchemeKind is the closed set of scheme variants
type SchemeKind int

const (
	// SchemePair gives every worker two compatible slots
	SchemePair SchemeKind = iota

	// SchemeTriplet gives every worker three compatible slots
	SchemeTriplet

	// SchemePattern draws each worker's slots from an enumerated pattern list
	// whose members may differ in size
	SchemePattern
)

func (k SchemeKind) String() string {
	switch k {
	case SchemePair:
		return "pair"
	case SchemeTriplet:
		return "triplet"
	case SchemePattern:
		return "pattern"
	default:
		return fmt.Sprintf("SchemeKind(%d)", int(k))
	}
}

// Scheme fixes the shifts per worker and the compatibility graph
type Scheme struct {
	Kind SchemeKind
	Name string

	// ShiftsPerWorker is k for uniform schemes, 0 for pattern schemes
	ShiftsPerWorker int

	Graph *CompatibilityGraph
}

// Uniform reports whether every worker receives the same number of shifts
func (s *Scheme) Uniform() bool {
	return s.ShiftsPerWorker > 0
}

// MinRequiredWorkers returns the fewest workers that could meet the given targets
func (s *Scheme) MinRequiredWorkers(targets []int) int {
	total := 0
	for _, t := range targets {
		total += t
	}
	perWorker := s.Graph.MaxArity()
	if s.Uniform() {
		perWorker = s.ShiftsPerWorker
	}
	return (total + perWorker - 1) / perWorker
}

// MaxPlaceableWorkers returns the most workers the slot maxima could ever hold
func (s *Scheme) MaxPlaceableWorkers(maxes []int) int {
	total := 0
	for _, m := range maxes {
		total += m
	}
	smallest := s.Graph.MaxArity()
	for _, p := range s.Graph.AllPatterns() {
		smallest = min(smallest, p.Size())
	}
	return total / smallest
}

// NewPairScheme builds a two-shifts-per-worker scheme over labels, where every pair
// of distinct slots is legal except the forbidden ones
func NewPairScheme(name string, labels []string, forbidden [][2]SlotID) (*Scheme, error) {
	return newUniformScheme(SchemePair, name, labels, 2, forbidden)
}

// NewTripletScheme builds a three-shifts-per-worker scheme over labels where every
// 3-subset not containing a forbidden pair is legal
func NewTripletScheme(name string, labels []string, forbidden [][2]SlotID) (*Scheme, error) {
	return newUniformScheme(SchemeTriplet, name, labels, 3, forbidden)
}

func newUniformScheme(kind SchemeKind, name string, labels []string, k int, forbidden [][2]SlotID) (*Scheme, error) {
	slots := make([]SlotInfo, len(labels))
	for i, label := range labels {
		slots[i] = SlotInfo{ID: SlotID(i), Label: label, Category: CategoryAny}
	}

	banned := make(map[[2]SlotID]bool, len(forbidden))
	for _, pair := range forbidden {
		a, b := pair[0], pair[1]
		if a > b {
			a, b = b, a
		}
		banned[[2]SlotID{a, b}] = true
	}

	var patterns []Pattern
	for _, combo := range combinations(len(labels), k) {
		legal := true
		for i := 0; i < len(combo) && legal; i++ {
			for j := i + 1; j < len(combo); j++ {
				if banned[[2]SlotID{combo[i], combo[j]}] {
					legal = false
					break
				}
			}
		}
		if legal {
			patterns = append(patterns, Pattern{Slots: combo})
		}
	}

	graph, err := NewCompatibilityGraph(slots, patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s scheme %q: %w", kind, name, err)
	}

	return &Scheme{Kind: kind, Name: name, ShiftsPerWorker: k, Graph: graph}, nil
}

// NewDayNightScheme builds the categorised pattern scheme: dayCount day slots followed
// by nightCount consecutive night slots. Legal patterns are one day slot plus two
// adjacent nights, three consecutive nights, or two adjacent nights.
func NewDayNightScheme(name string, dayCount, nightCount int) (*Scheme, error) {
	var slots []SlotInfo
	for i := 0; i < dayCount; i++ {
		slots = append(slots, SlotInfo{ID: SlotID(len(slots)), Label: fmt.Sprintf("D%d", i+1), Category: CategoryDay})
	}
	firstNight := len(slots)
	for i := 0; i < nightCount; i++ {
		slots = append(slots, SlotInfo{ID: SlotID(len(slots)), Label: fmt.Sprintf("N%d", i+1), Category: CategoryNight})
	}

	night := func(i int) SlotID { return SlotID(firstNight + i) }

	var patterns []Pattern
	for d := 0; d < dayCount; d++ {
		for n := 0; n+1 < nightCount; n++ {
			patterns = append(patterns, Pattern{
				Slots:  []SlotID{SlotID(d), night(n), night(n + 1)},
				Method: MethodDayNight,
			})
		}
	}
	for n := 0; n+2 < nightCount; n++ {
		patterns = append(patterns, Pattern{
			Slots:  []SlotID{night(n), night(n + 1), night(n + 2)},
			Method: MethodNightBlock,
		})
	}
	for n := 0; n+1 < nightCount; n++ {
		patterns = append(patterns, Pattern{
			Slots:  []SlotID{night(n), night(n + 1)},
			Method: MethodNightPair,
		})
	}

	graph, err := NewCompatibilityGraph(slots, patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to build pattern scheme %q: %w", name, err)
	}

	return &Scheme{Kind: SchemePattern, Name: name, Graph: graph}, nil
}

// ScarceCategory returns the category whose slots are served first by the pattern
// allocator, or CategoryAny when the scheme has none
func (s *Scheme) ScarceCategory() Category {
	if s.Kind != SchemePattern {
		return CategoryAny
	}
	for _, slot := range s.Graph.Slots() {
		if slot.Category == CategoryDay {
			return CategoryDay
		}
	}
	return CategoryAny
}

// Built-in schemes, precomputed once
var (
	PairScheme     = mustScheme(NewPairScheme("pair", []string{"S1", "S2", "S3", "S4", "S5"}, nil))
	TripletScheme  = mustScheme(NewTripletScheme("triplet", []string{"T1", "T2", "T3", "T4", "T5", "T6"}, nil))
	DayNightScheme = mustScheme(NewDayNightScheme("daynight", 2, 6))
)

var builtinSchemes = map[string]*Scheme{
	PairScheme.Name:     PairScheme,
	TripletScheme.Name:  TripletScheme,
	DayNightScheme.Name: DayNightScheme,
}

// SchemeByName returns a built-in scheme
func SchemeByName(name string) (*Scheme, error) {
	scheme, ok := builtinSchemes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scheme %q (available: %v)", name, SchemeNames())
	}
	return scheme, nil
}

// SchemeNames lists the built-in scheme names in sorted order
func SchemeNames() []string {
	names := make([]string, 0, len(builtinSchemes))
	for name := range builtinSchemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustScheme(s *Scheme, err error) *Scheme {
	if err != nil {
		panic(err)
	}
	return s
}

// combinations enumerates the k-subsets of {0..n-1} in lexicographic order
func combinations(n, k int) [][]SlotID {
	var out [][]SlotID
	combo := make([]SlotID, 0, k)
	var rec func(start int)
	rec = func(start int) {
		if len(combo) == k {
			out = append(out, slices.Clone(combo))
			return
		}
		for i := start; i < n; i++ {
			combo = append(combo, SlotID(i))
			rec(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	rec(0)
	return out
}
