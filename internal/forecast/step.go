package forecast

import (
	"fmt"
	"strings"
	"time"
)

// Step is the calendar spacing between projected points.
type Step int

const (
	// StepMonth advances by calendar months, clamping to the last day of
	// shorter months (Jan 31 + 1 month = Feb 28/29).
	StepMonth Step = iota
	// Step30Days advances by fixed 30-day increments.
	Step30Days
)

func (s Step) String() string {
	switch s {
	case StepMonth:
		return "month"
	case Step30Days:
		return "30d"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// ParseStep accepts "month"/"m" and "30d"/"d30"/"30days".
func ParseStep(s string) (Step, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "month", "monthly", "m":
		return StepMonth, nil
	case "30d", "d30", "30days", "30-day", "days":
		return Step30Days, nil
	default:
		return StepMonth, fmt.Errorf("unsupported step %q (use month or 30d)", s)
	}
}

// Advance returns from moved forward by n steps. Each offset is computed
// from the anchor, not cumulatively, so month clamping never drifts.
func (s Step) Advance(from time.Time, n int) time.Time {
	if s == Step30Days {
		return from.AddDate(0, 0, 30*n)
	}
	return addMonths(from, n)
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// epochOrdinal is the ordinal of 1970-01-01 with 0001-01-01 as day 1.
const epochOrdinal = 719163

// Ordinal returns the proleptic Gregorian day number of t's calendar day,
// with 0001-01-01 as day 1.
func Ordinal(t time.Time) int64 {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return day.Unix()/86400 + epochOrdinal
}
