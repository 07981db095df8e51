package profile

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// maxSnaps bounds the snap table so a misconfigured range (a year of
// one-minute snaps) fails fast instead of allocating without limit.
const maxSnaps = 200000

var (
	ErrEmptyRange       = errors.New("profile: range end is not after start")
	ErrNotWholeMultiple = errors.New("profile: duration is not a whole multiple")
	ErrTooManySnaps     = errors.New("profile: too many snaps in range")
)

// Label is one header cell. Span is the number of visible slots it covers.
type Label struct {
	Date time.Time
	Text string
	Span int
}

// Profile is the quantization of a date range into snaps and slots.
// It is built once per range and never mutated afterwards.
type Profile struct {
	NormalizedStart time.Time
	End             time.Time

	SnapDuration  Duration
	SlotDuration  Duration
	LabelInterval Duration
	IsTimeScale   bool

	// SlotDates holds the start of every visible slot column.
	SlotDates []time.Time

	// SnapCnt is the number of visible snaps, which is also the largest
	// coverage value a date can map to.
	SnapCnt      int
	SnapsPerSlot int

	// SnapDiffToIndex is indexed by whole snaps since NormalizedStart.
	// Visible snaps hold their integer coverage index. Hidden snaps hold
	// the previous visible index plus one half, so math.Ceil of the entry
	// is the index of the next visible snap.
	SnapDiffToIndex []float64

	// SnapIndexToDiff is the inverse table for visible snaps.
	SnapIndexToDiff []int

	Labels []Label
}

// SlotCnt is the number of visible slot columns.
func (p *Profile) SlotCnt() int { return len(p.SlotDates) }

// SlotsPerLabel is LabelInterval / SlotDuration. The builder guarantees it
// is integral.
func (p *Profile) SlotsPerLabel() int {
	n, ok := WholeDivide(p.LabelInterval, p.SlotDuration)
	if !ok {
		return 1
	}
	return n
}

// IsEmpty reports whether no slot is visible, e.g. every day hidden.
func (p *Profile) IsEmpty() bool { return p == nil || len(p.SlotDates) == 0 }

// SnapDate returns the instant of the visible snap with the given
// coverage index.
func (p *Profile) SnapDate(index int) time.Time {
	if index < 0 {
		index = 0
	}
	if index >= len(p.SnapIndexToDiff) {
		return p.End
	}
	return p.SnapDuration.Times(p.SnapIndexToDiff[index]).AddTo(p.NormalizedStart)
}

// BuildOptions configures how a range is quantized.
type BuildOptions struct {
	SnapDuration  Duration
	SlotDuration  Duration
	LabelInterval Duration

	// MinTime and MaxTime bound the visible time of day on time-scale
	// grids. A zero MaxTime means end of day.
	MinTime time.Duration
	MaxTime time.Duration

	HiddenDays   []time.Weekday
	HideWeekends bool

	// ExcludeRule is an RRULE; every calendar day holding an occurrence
	// is hidden (holidays, maintenance days).
	ExcludeRule string

	// LabelFormat overrides the time layout used for label text.
	LabelFormat string
}

func (o *BuildOptions) normalize() {
	if o.SlotDuration.IsZero() {
		o.SlotDuration = Hours(1)
	}
	if o.SnapDuration.IsZero() {
		o.SnapDuration = o.SlotDuration
	}
	if o.LabelInterval.IsZero() {
		o.LabelInterval = o.SlotDuration
	}
	if o.MaxTime <= 0 || o.MaxTime > day {
		o.MaxTime = day
	}
	if o.MinTime < 0 || o.MinTime >= o.MaxTime {
		o.MinTime = 0
	}
	// The window widens to whole slots so a slot is never partly visible.
	if slot := o.SlotDuration; slot.IsTimeScale() && slot.Days == 0 && slot.Clock > 0 {
		o.MinTime -= o.MinTime % slot.Clock
		if r := o.MaxTime % slot.Clock; r != 0 {
			o.MaxTime = min(o.MaxTime+slot.Clock-r, day)
		}
	}
}

// Build quantizes [start, end) into a Profile.
func Build(start, end time.Time, env DateEnv, opts BuildOptions) (*Profile, error) {
	if !end.After(start) {
		return nil, ErrEmptyRange
	}
	opts.normalize()

	snapsPerSlot, ok := WholeDivide(opts.SlotDuration, opts.SnapDuration)
	if !ok {
		return nil, fmt.Errorf("%w: slot %s / snap %s", ErrNotWholeMultiple, opts.SlotDuration, opts.SnapDuration)
	}
	if _, ok := WholeDivide(opts.LabelInterval, opts.SlotDuration); !ok {
		return nil, fmt.Errorf("%w: label %s / slot %s", ErrNotWholeMultiple, opts.LabelInterval, opts.SlotDuration)
	}

	f, err := newFilter(env, opts, start, end)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		NormalizedStart: normalizeStart(start, env, opts),
		End:             end.In(env.loc()),
		SnapDuration:    opts.SnapDuration,
		SlotDuration:    opts.SlotDuration,
		LabelInterval:   opts.LabelInterval,
		IsTimeScale:     opts.SlotDuration.IsTimeScale(),
		SnapsPerSlot:    snapsPerSlot,
	}

	snapIndex := -1
	for diff := 0; ; diff++ {
		date := opts.SnapDuration.Times(diff).AddTo(p.NormalizedStart)
		if !date.Before(p.End) {
			break
		}
		if diff >= maxSnaps {
			return nil, fmt.Errorf("%w: more than %d", ErrTooManySnaps, maxSnaps)
		}
		// A snap shows exactly when its slot does.
		slotStart := opts.SlotDuration.Times(diff / snapsPerSlot).AddTo(p.NormalizedStart)
		if f.visible(slotStart) {
			snapIndex++
			p.SnapDiffToIndex = append(p.SnapDiffToIndex, float64(snapIndex))
			p.SnapIndexToDiff = append(p.SnapIndexToDiff, diff)
		} else {
			p.SnapDiffToIndex = append(p.SnapDiffToIndex, float64(snapIndex)+0.5)
		}
	}
	p.SnapCnt = len(p.SnapIndexToDiff)

	for n := 0; ; n++ {
		date := opts.SlotDuration.Times(n).AddTo(p.NormalizedStart)
		if !date.Before(p.End) {
			break
		}
		if f.visible(date) {
			p.SlotDates = append(p.SlotDates, date)
		}
	}

	p.Labels = buildLabels(p, env, opts.LabelFormat)
	return p, nil
}

// Times returns d scaled by n.
func (d Duration) Times(n int) Duration {
	return Duration{
		Years:  d.Years * n,
		Months: d.Months * n,
		Days:   d.Days * n,
		Clock:  d.Clock * time.Duration(n),
	}
}

func normalizeStart(start time.Time, env DateEnv, opts BuildOptions) time.Time {
	start = start.In(env.loc())
	midnight := env.StartOfDay(start)

	if opts.SlotDuration.IsTimeScale() {
		snap := opts.SnapDuration.Clock
		if snap <= 0 {
			return midnight
		}
		since := start.Sub(midnight)
		return midnight.Add(since - since%snap)
	}

	switch {
	case opts.SlotDuration.Years != 0:
		return time.Date(start.Year(), 1, 1, 0, 0, 0, 0, env.loc())
	case opts.SlotDuration.Months != 0:
		return time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, env.loc())
	default:
		return midnight
	}
}

// filter decides whether a snap or slot start is shown.
type filter struct {
	env        DateEnv
	timeScale  bool
	minTime    time.Duration
	maxTime    time.Duration
	hiddenDays map[time.Weekday]bool
	excluded   map[string]bool
}

func newFilter(env DateEnv, opts BuildOptions, start, end time.Time) (*filter, error) {
	f := &filter{
		env:        env,
		timeScale:  opts.SlotDuration.IsTimeScale(),
		minTime:    opts.MinTime,
		maxTime:    opts.MaxTime,
		hiddenDays: make(map[time.Weekday]bool),
	}
	for _, wd := range opts.HiddenDays {
		f.hiddenDays[wd] = true
	}
	if opts.HideWeekends {
		f.hiddenDays[time.Saturday] = true
		f.hiddenDays[time.Sunday] = true
	}

	if opts.ExcludeRule != "" {
		r, err := rrule.StrToRRule(opts.ExcludeRule)
		if err != nil {
			return nil, fmt.Errorf("profile: exclude rule: %w", err)
		}
		// Rules without DTSTART anchor at the range start.
		if !strings.Contains(strings.ToUpper(opts.ExcludeRule), "DTSTART") {
			r.DTStart(env.StartOfDay(start))
		}
		f.excluded = make(map[string]bool)
		for _, t := range r.Between(env.StartOfDay(start).Add(-day), end, true) {
			f.excluded[dayKey(t.In(env.loc()))] = true
		}
	}
	return f, nil
}

func (f *filter) visible(t time.Time) bool {
	t = t.In(f.env.loc())
	if f.hiddenDays[t.Weekday()] {
		return false
	}
	if f.excluded[dayKey(t)] {
		return false
	}
	if f.timeScale {
		tod := t.Sub(f.env.StartOfDay(t))
		if tod < f.minTime || tod >= f.maxTime {
			return false
		}
	}
	return true
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func buildLabels(p *Profile, env DateEnv, layout string) []Label {
	if layout == "" {
		layout = defaultLabelLayout(p.LabelInterval)
	}

	var labels []Label
	for _, slot := range p.SlotDates {
		k := int(math.Floor(env.CountDurationsBetween(p.NormalizedStart, slot, p.LabelInterval) + 1e-9))
		labelStart := p.LabelInterval.Times(k).AddTo(p.NormalizedStart)

		if n := len(labels); n > 0 && labels[n-1].Date.Equal(labelStart) {
			labels[n-1].Span++
			continue
		}
		labels = append(labels, Label{
			Date: labelStart,
			Text: labelStart.Format(layout),
			Span: 1,
		})
	}
	return labels
}

func defaultLabelLayout(d Duration) string {
	switch {
	case d.Years != 0:
		return "2006"
	case d.Months != 0:
		return "Jan 2006"
	case d.Days >= 7:
		return "Jan 2"
	case d.Days != 0:
		return "Mon 1/2"
	default:
		return "15:04"
	}
}
