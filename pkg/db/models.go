package db

import "time"

// ScheduleRun is one stored allocation: its inputs, the effective targets and the
// summary of the outcome
type ScheduleRun struct {
	ID        string
	CreatedAt time.Time

	// PeriodStart is the first day the schedule applies to (YYYY-MM-DD), empty when no
	// period is configured
	PeriodStart string

	Scheme  string
	Workers int
	Labels  []string

	// Targets are the effective targets after any redistribution
	Targets   []int
	Max       []int
	Occupancy []int

	Shortfall      int
	Unscheduled    int
	PreferredCount int
	ExtraCount     int
	Redistributed  bool
	Advisory       string
	Success        bool
}

// ScheduleAssignment is one worker's combination within a stored run
type ScheduleAssignment struct {
	ID     string
	RunID  string
	Worker int

	// Slots holds the slot labels, in slot order
	Slots []string

	Kind      string
	Method    string
	Preferred bool
}
