package domain

import (
	"fmt"
	"time"
)

// WorkDateLayout is the calendar-day format used in box ids and APIs.
const WorkDateLayout = "2006-01-02"

// WorkDate truncates t to its calendar day in UTC.
func WorkDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseWorkDate parses a YYYY-MM-DD day.
func ParseWorkDate(s string) (time.Time, error) {
	t, err := time.Parse(WorkDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: work date %q must be YYYY-MM-DD", ErrValidation, s)
	}
	return t, nil
}

// FormatWorkDate renders a work date as YYYY-MM-DD.
func FormatWorkDate(t time.Time) string {
	return t.Format(WorkDateLayout)
}

// DateRange is an inclusive range of work dates. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Validate checks the bounds are ordered.
func (r DateRange) Validate() error {
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return fmt.Errorf("%w: date range ends before it starts", ErrValidation)
	}
	return nil
}

// Contains reports whether the day of t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	day := WorkDate(t)
	if r.From != nil && day.Before(WorkDate(*r.From)) {
		return false
	}
	if r.To != nil && day.After(WorkDate(*r.To)) {
		return false
	}
	return true
}

// SingleDay returns a range covering one day.
func SingleDay(t time.Time) DateRange {
	day := WorkDate(t)
	return DateRange{From: &day, To: &day}
}
