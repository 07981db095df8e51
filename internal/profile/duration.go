package profile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is a calendar-aware span. Years, Months and Days are applied
// with time.AddDate so they follow the wall clock across DST changes;
// Clock is elapsed time.
type Duration struct {
	Years  int
	Months int
	Days   int
	Clock  time.Duration
}

var ErrBadDuration = errors.New("profile: malformed duration")

const day = 24 * time.Hour

// Hours is a shorthand for a clock-only Duration.
func Hours(n int) Duration { return Duration{Clock: time.Duration(n) * time.Hour} }

// Minutes is a shorthand for a clock-only Duration.
func Minutes(n int) Duration { return Duration{Clock: time.Duration(n) * time.Minute} }

// Days is a shorthand for a day-based Duration.
func Days(n int) Duration { return Duration{Days: n} }

// ParseDuration reads strings such as "30m", "1h", "1d", "1w", "1mo",
// "1y" and concatenations like "1d12h". "HH:MM" and "HH:MM:SS" are also
// accepted for clock durations.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Duration{}, fmt.Errorf("%w: empty", ErrBadDuration)
	}
	if strings.Contains(s, ":") {
		return parseClock(s)
	}

	var d Duration
	for len(s) > 0 {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return Duration{}, fmt.Errorf("%w: %q", ErrBadDuration, s)
		}
		n, _ := strconv.Atoi(s[:i])
		s = s[i:]

		j := 0
		for j < len(s) && (s[j] < '0' || s[j] > '9') {
			j++
		}
		unit := s[:j]
		s = s[j:]

		switch unit {
		case "y":
			d.Years += n
		case "mo":
			d.Months += n
		case "w":
			d.Days += 7 * n
		case "d":
			d.Days += n
		case "h":
			d.Clock += time.Duration(n) * time.Hour
		case "m":
			d.Clock += time.Duration(n) * time.Minute
		case "s":
			d.Clock += time.Duration(n) * time.Second
		default:
			return Duration{}, fmt.Errorf("%w: unknown unit %q", ErrBadDuration, unit)
		}
	}
	return d, nil
}

func parseClock(s string) (Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Duration{}, fmt.Errorf("%w: %q", ErrBadDuration, s)
	}
	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Duration{}, fmt.Errorf("%w: %q", ErrBadDuration, s)
		}
		total += time.Duration(n) * units[i]
	}
	return Duration{Clock: total}, nil
}

// IsZero reports whether d spans nothing.
func (d Duration) IsZero() bool {
	return d.Years == 0 && d.Months == 0 && d.Days == 0 && d.Clock == 0
}

// IsTimeScale reports whether d is shorter than a day, i.e. a grid built
// on it shows times of day.
func (d Duration) IsTimeScale() bool {
	return d.Years == 0 && d.Months == 0 && d.Days == 0 && d.Clock < day
}

// AddTo returns t advanced by d.
func (d Duration) AddTo(t time.Time) time.Time {
	if d.Years != 0 || d.Months != 0 || d.Days != 0 {
		t = t.AddDate(d.Years, d.Months, d.Days)
	}
	return t.Add(d.Clock)
}

// totalMonths is non-zero only for month/year based durations.
func (d Duration) totalMonths() int { return d.Years*12 + d.Months }

// approx is used for ratio checks between durations of the same kind.
func (d Duration) approx() time.Duration {
	return time.Duration(d.Days)*day + d.Clock
}

// unit names the largest unit present, used by CountDurationsBetween.
func (d Duration) unit() string {
	switch {
	case d.totalMonths() != 0:
		return "month"
	case d.Days != 0 && d.Clock == 0:
		return "day"
	default:
		return "clock"
	}
}

func (d Duration) String() string {
	var b strings.Builder
	if d.Years != 0 {
		fmt.Fprintf(&b, "%dy", d.Years)
	}
	if d.Months != 0 {
		fmt.Fprintf(&b, "%dmo", d.Months)
	}
	if d.Days != 0 {
		fmt.Fprintf(&b, "%dd", d.Days)
	}
	if d.Clock != 0 || b.Len() == 0 {
		b.WriteString(d.Clock.String())
	}
	return b.String()
}

// WholeDivide returns n such that n*b == a, and false when a is not an
// exact positive multiple of b. Month-based durations only divide by
// month-based durations.
func WholeDivide(a, b Duration) (int, bool) {
	if b.IsZero() {
		return 0, false
	}
	am, bm := a.totalMonths(), b.totalMonths()
	if am != 0 || bm != 0 {
		if bm == 0 || a.approx() != 0 || b.approx() != 0 || am%bm != 0 {
			return 0, false
		}
		return am / bm, am/bm > 0
	}
	an, bn := a.approx(), b.approx()
	if an%bn != 0 {
		return 0, false
	}
	n := int(an / bn)
	return n, n > 0
}
