package timeline

import (
	"errors"
	"testing"
	"time"

	"timelinecal/internal/layout"
	"timelinecal/internal/profile"
)

type stubMeasurer struct {
	label    float64
	viewport float64
}

func (s stubMeasurer) WidestLabel() float64            { return s.label }
func (s stubMeasurer) ViewportWidth() float64          { return s.viewport }
func (s stubMeasurer) ColumnMinWidth() (float64, bool) { return 0, false }

var dayStart = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func hourlyDay(t *testing.T, opts profile.BuildOptions) *profile.Profile {
	t.Helper()
	if opts.SlotDuration.IsZero() {
		opts.SnapDuration = profile.Minutes(30)
		opts.SlotDuration = profile.Hours(1)
	}
	p, err := profile.Build(dayStart, dayStart.Add(24*time.Hour), profile.NewDateEnv(time.UTC), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

func newView(t *testing.T, opts Options) *View {
	t.Helper()
	v := New(profile.NewDateEnv(time.UTC), opts)
	v.SetProfile(hourlyDay(t, profile.BuildOptions{}))
	return v
}

func TestDateToCoordRequiresSizePass(t *testing.T) {
	v := New(profile.NewDateEnv(time.UTC), Options{})
	if err := v.UpdateSize(600, false, stubMeasurer{}); !errors.Is(err, ErrNoProfile) {
		t.Errorf("UpdateSize without profile err = %v", err)
	}

	v.SetProfile(hourlyDay(t, profile.BuildOptions{}))
	if _, err := v.DateToCoord(dayStart); !errors.Is(err, ErrNotSized) {
		t.Errorf("before size pass err = %v, want ErrNotSized", err)
	}
	if err := v.UpdateSize(600, false, stubMeasurer{label: 40, viewport: 800}); err != nil {
		t.Fatalf("UpdateSize: %v", err)
	}
	if _, err := v.DateToCoord(dayStart); err != nil {
		t.Errorf("after size pass err = %v", err)
	}

	// A new profile invalidates the cache.
	v.SetProfile(hourlyDay(t, profile.BuildOptions{}))
	if _, err := v.DateToCoord(dayStart); !errors.Is(err, ErrNotSized) {
		t.Errorf("after profile change err = %v, want ErrNotSized", err)
	}
}

func TestUpdateSizeNatural(t *testing.T) {
	v := newView(t, Options{})
	if err := v.UpdateSize(600, false, stubMeasurer{label: 40, viewport: 800}); err != nil {
		t.Fatalf("UpdateSize: %v", err)
	}

	w := v.Widths()
	if w.Stretch || w.SlotWidth != 41 {
		t.Errorf("widths = %+v, want natural 41px slots", w)
	}
	if hw, bw := v.Header.Canvas.ResolvedWidth(), v.Body.Canvas.ResolvedWidth(); hw != 984 || bw != 984 {
		t.Errorf("canvas widths head=%v body=%v, want 984", hw, bw)
	}
	got, _ := v.DateToCoord(dayStart.Add(90 * time.Minute))
	if got != 61.5 {
		t.Errorf("DateToCoord(01:30) = %v, want 61.5", got)
	}
	if v.Body.ClientHeight() != 570 {
		t.Errorf("body height = %v, want 570", v.Body.ClientHeight())
	}
}

func TestUpdateSizeStretch(t *testing.T) {
	v := newView(t, Options{})
	if err := v.UpdateSize(0, true, stubMeasurer{label: 40, viewport: 1210}); err != nil {
		t.Fatalf("UpdateSize: %v", err)
	}

	w := v.Widths()
	if !w.Stretch || w.NonLastSlotWidth != 50 || w.ContainerMinWidth != 1210 {
		t.Errorf("widths = %+v", w)
	}
	cols := v.Columns()
	sum := 0.0
	for _, c := range cols {
		sum += c
	}
	if sum != 1210 {
		t.Errorf("columns sum = %v, want 1210", sum)
	}
	if cols[len(cols)-1] != 60 {
		t.Errorf("last column = %v, want 60", cols[len(cols)-1])
	}
	if v.Header.Canvas.MinWidth != v.Body.Canvas.MinWidth || v.Header.Canvas.Width != v.Body.Canvas.Width {
		t.Error("header and body canvases sized differently")
	}
	end, _ := v.DateToCoord(dayStart.Add(24 * time.Hour))
	if end != 1210 {
		t.Errorf("range end = %v, want 1210", end)
	}
}

func TestConfiguredSlotWidth(t *testing.T) {
	v := newView(t, Options{Layout: layout.Options{SlotWidth: 70}})
	if err := v.UpdateSize(600, false, stubMeasurer{label: 200, viewport: 800}); err != nil {
		t.Fatalf("UpdateSize: %v", err)
	}
	if got := v.Widths().SlotWidth; got != 70 {
		t.Errorf("slot width = %v, want 70", got)
	}
	if got := v.ComputeDefaultSlotWidth(stubMeasurer{label: 200}); got != 201 {
		t.Errorf("default slot width = %v, want 201", got)
	}
}

func TestScrollPairStaysJoined(t *testing.T) {
	v := newView(t, Options{})
	if err := v.UpdateSize(600, false, stubMeasurer{label: 40, viewport: 800}); err != nil {
		t.Fatalf("UpdateSize: %v", err)
	}

	v.Body.SetScrollLeft(120)
	if got := v.Header.ScrollLeft(); got != 120 {
		t.Errorf("header scroll = %v, want 120", got)
	}

	// Growing the viewport shrinks the scroll range; both re-clamp together.
	if err := v.UpdateSize(600, false, stubMeasurer{label: 40, viewport: 900}); err != nil {
		t.Fatalf("UpdateSize: %v", err)
	}
	if v.Header.ScrollLeft() != 84 || v.Body.ScrollLeft() != 84 {
		t.Errorf("after resize head=%v body=%v, want 84", v.Header.ScrollLeft(), v.Body.ScrollLeft())
	}
}

func TestScrollToDate(t *testing.T) {
	v := newView(t, Options{})
	if err := v.UpdateSize(600, false, stubMeasurer{label: 40, viewport: 400}); err != nil {
		t.Fatalf("UpdateSize: %v", err)
	}
	if err := v.ScrollToDate(dayStart.Add(6 * time.Hour)); err != nil {
		t.Fatalf("ScrollToDate: %v", err)
	}
	if got := v.Header.ScrollLeft(); got != 246 {
		t.Errorf("header scroll = %v, want 246", got)
	}
}

func TestEmptyProfile(t *testing.T) {
	v := New(profile.NewDateEnv(time.UTC), Options{})
	all := []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
	v.SetProfile(hourlyDay(t, profile.BuildOptions{HiddenDays: all}))

	if h := v.QueryHeadHeight(); h != 0 {
		t.Errorf("head height = %v, want 0", h)
	}
	if err := v.UpdateSize(600, false, stubMeasurer{label: 40, viewport: 800}); err != nil {
		t.Fatalf("UpdateSize: %v", err)
	}
	if got, err := v.DateToCoord(dayStart.Add(time.Hour)); err != nil || got != 0 {
		t.Errorf("DateToCoord = (%v, %v), want (0, nil)", got, err)
	}
}
