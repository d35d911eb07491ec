package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/rider-rota/pkg/db"
)

const dateLayout = "2006-01-02"

// NextPeriodDate returns the first occurrence of the recurrence strictly after the
// given day
func NextPeriodDate(rule string, after time.Time) (time.Time, error) {
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid rrule: %w", err)
	}

	opt.Dtstart = time.Date(after.Year(), after.Month(), after.Day(), 0, 0, 0, 0, time.UTC)
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid rrule: %w", err)
	}

	next := r.After(opt.Dtstart, false)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("rrule %q has no occurrence after %s", rule, opt.Dtstart.Format(dateLayout))
	}

	return next, nil
}

// nextPeriodStart picks the period for a new run: the occurrence after the latest
// stored period, or after now when no run has a period yet
func nextPeriodStart(rule string, runs []db.ScheduleRun, now time.Time) (string, error) {
	after := now
	var latest time.Time
	for _, run := range runs {
		if run.PeriodStart == "" {
			continue
		}
		start, err := time.Parse(dateLayout, run.PeriodStart)
		if err != nil {
			return "", fmt.Errorf("failed to parse period start of run %s: %w", run.ID, err)
		}
		if start.After(latest) {
			latest = start
		}
	}
	if !latest.IsZero() {
		after = latest
	}

	next, err := NextPeriodDate(rule, after)
	if err != nil {
		return "", err
	}
	return next.Format(dateLayout), nil
}
