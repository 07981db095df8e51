package profile

import (
	"time"
)

// DateEnv carries the time zone in which calendar arithmetic happens.
type DateEnv struct {
	Location *time.Location
}

// NewDateEnv returns an env for loc, defaulting to time.Local.
func NewDateEnv(loc *time.Location) DateEnv {
	if loc == nil {
		loc = time.Local
	}
	return DateEnv{Location: loc}
}

func (e DateEnv) loc() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

// StartOfDay returns local midnight of t's calendar day.
func (e DateEnv) StartOfDay(t time.Time) time.Time {
	t = t.In(e.loc())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, e.loc())
}

// CountDurationsBetween returns how many d fit between start and end.
// The result is fractional and negative when end is before start.
// Month-based durations count calendar months, day-based durations count
// calendar days, everything else counts elapsed time.
func (e DateEnv) CountDurationsBetween(start, end time.Time, d Duration) float64 {
	if d.IsZero() {
		return 0
	}
	start, end = start.In(e.loc()), end.In(e.loc())

	switch d.unit() {
	case "month":
		return e.diffUnits(start, end, func(t time.Time, n int) time.Time {
			return t.AddDate(0, n, 0)
		}) / float64(d.totalMonths())
	case "day":
		return e.diffUnits(start, end, func(t time.Time, n int) time.Time {
			return t.AddDate(0, 0, n)
		}) / float64(d.Days)
	default:
		return float64(end.Sub(start)) / float64(d.approx())
	}
}

// diffUnits counts whole steps of add from start toward end, then adds the
// elapsed fraction of the partial step.
func (e DateEnv) diffUnits(start, end time.Time, add func(time.Time, int) time.Time) float64 {
	sign := 1
	if end.Before(start) {
		start, end = end, start
		sign = -1
	}

	// Estimate, then correct; avoids stepping one unit at a time over
	// long ranges.
	n := 0
	if guess := estimateSteps(start, end, add); guess > 0 {
		n = guess
		for n > 0 && add(start, n).After(end) {
			n--
		}
	}
	for !add(start, n+1).After(end) {
		n++
	}

	lo := add(start, n)
	hi := add(start, n+1)
	frac := 0.0
	if span := hi.Sub(lo); span > 0 {
		frac = float64(end.Sub(lo)) / float64(span)
	}
	return float64(sign) * (float64(n) + frac)
}

func estimateSteps(start, end time.Time, add func(time.Time, int) time.Time) int {
	unit := add(start, 1).Sub(start)
	if unit <= 0 {
		return 0
	}
	return int(end.Sub(start) / unit)
}
