package allocator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for malformed allocation requests
	ErrInvalidInput = errors.New("invalid allocation input")

	// ErrMaxBelowTarget is returned when a slot's max is lower than its target
	ErrMaxBelowTarget = fmt.Errorf("%w: max below target", ErrInvalidInput)

	// ErrWorkerCeiling is returned when the worker count exceeds MaxWorkers
	ErrWorkerCeiling = fmt.Errorf("%w: worker count above ceiling", ErrInvalidInput)

	// ErrTooManyWorkers is returned when the slot maxima cannot hold every worker
	ErrTooManyWorkers = errors.New("more workers than the slots can hold")
)

// InfeasibleError reports that the compatibility graph cannot support the targets
type InfeasibleError struct {
	Report FeasibilityReport
	labels []string
}

func (e *InfeasibleError) Error() string {
	if e.Report.Violation == nil {
		return "allocation infeasible"
	}
	return "allocation infeasible: " + e.Report.Violation.Describe(e.labels)
}
