package allocator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Engine ceilings
const (
	// MaxWorkers is the largest worker count the engine accepts
	MaxWorkers = 10000
)

var policyValidate = validator.New()

// Policy holds the tunable weights and thresholds used by the allocation heuristics.
// The values are empirical; tests assert on relative ranking, not exact scores.
type Policy struct {
	// WeightPreferred is the bonus for a temporally contiguous combination
	WeightPreferred float64 `yaml:"weightPreferred" json:"weightPreferred" validate:"gte=0"`

	// WeightBottleneck scales the penalty for each touched slot's demand-to-partner ratio
	WeightBottleneck float64 `yaml:"weightBottleneck" json:"weightBottleneck" validate:"gte=0"`

	// WeightBalance scales the bonus for leaving touched slots evenly loaded
	WeightBalance float64 `yaml:"weightBalance" json:"weightBalance" validate:"gte=0"`

	// SmallPopulationThreshold switches to small-population scoring when the minimum
	// required worker count is below it
	SmallPopulationThreshold int `yaml:"smallPopulationThreshold" json:"smallPopulationThreshold" validate:"gte=0"`

	// WeightSmallPopulationPreferred replaces WeightPreferred in small-population mode
	WeightSmallPopulationPreferred float64 `yaml:"weightSmallPopulationPreferred" json:"weightSmallPopulationPreferred" validate:"gte=0"`

	// WeightSmallPopulationDemand scales the bonus for the largest touched remaining target
	// in small-population mode
	WeightSmallPopulationDemand float64 `yaml:"weightSmallPopulationDemand" json:"weightSmallPopulationDemand" validate:"gte=0"`

	// WeightStrandedCapacity scales the penalty for capacity that can no longer be paired
	WeightStrandedCapacity float64 `yaml:"weightStrandedCapacity" json:"weightStrandedCapacity" validate:"gte=0"`

	// WeightScarceCapacity scales the bonus for consuming the scarcest spare capacity first
	WeightScarceCapacity float64 `yaml:"weightScarceCapacity" json:"weightScarceCapacity" validate:"gte=0"`

	// WeightPatternProgress is the bonus per pattern slot that still has remaining target
	WeightPatternProgress float64 `yaml:"weightPatternProgress" json:"weightPatternProgress" validate:"gte=0"`

	// WeightPatternDemand scales the bonus for the total remaining target a pattern touches
	WeightPatternDemand float64 `yaml:"weightPatternDemand" json:"weightPatternDemand" validate:"gte=0"`

	// WeightPatternAdjacency is the bonus per temporally adjacent slot pair in a pattern
	WeightPatternAdjacency float64 `yaml:"weightPatternAdjacency" json:"weightPatternAdjacency" validate:"gte=0"`

	// ShortfallRatio triggers redistribution when workers <= ratio * minimum required
	ShortfallRatio float64 `yaml:"shortfallRatio" json:"shortfallRatio" validate:"gte=0,lte=1"`
}

// DefaultPolicy returns the standard weights
func DefaultPolicy() Policy {
	return Policy{
		WeightPreferred:                100,
		WeightBottleneck:               50,
		WeightBalance:                  10,
		SmallPopulationThreshold:       20,
		WeightSmallPopulationPreferred: 1000,
		WeightSmallPopulationDemand:    5,
		WeightStrandedCapacity:         1000,
		WeightScarceCapacity:           50,
		WeightPatternProgress:          100,
		WeightPatternDemand:            1,
		WeightPatternAdjacency:         10,
		ShortfallRatio:                 0.8,
	}
}

// IsSmallPopulation reports whether small-population scoring applies
func (p Policy) IsSmallPopulation(minRequired int) bool {
	return minRequired < p.SmallPopulationThreshold
}

// ShouldRedistribute reports whether the worker count is materially short of the minimum
func (p Policy) ShouldRedistribute(workers, minRequired int) bool {
	if minRequired <= 0 {
		return false
	}
	return float64(workers) <= p.ShortfallRatio*float64(minRequired)
}

// Validate checks the policy values against their struct tags
func (p Policy) Validate() error {
	if err := policyValidate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
