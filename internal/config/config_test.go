package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SlotDuration != "1h" || cfg.LabelInterval != "1d" || cfg.Range.Days != 7 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Load must not write a config file")
	}
	if _, err := Load(""); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("empty path err = %v", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
timezone: Europe/Berlin
range:
  start: 2025-01-06
  days: 5
slot_duration: 30m
label_interval: 1h
min_time: "09:00"
max_time: "17:00"
hidden_days: [wed]
weekends: false
slot_width: 40
event_overlap: false
rtl: true
measure: fixed
label_width: 60
ics:
  - name: Team
    path: team.ics
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	start, end, err := cfg.DateRange(time.Now(), loc)
	if err != nil {
		t.Fatalf("DateRange: %v", err)
	}
	if start.Format("2006-01-02") != "2025-01-06" || end.Sub(start) != 5*24*time.Hour {
		t.Errorf("range = %v .. %v", start, end)
	}

	opts, err := cfg.BuildOptions()
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	if opts.SlotDuration.Clock != 30*time.Minute || opts.LabelInterval.Clock != time.Hour {
		t.Errorf("durations = %v / %v", opts.SlotDuration, opts.LabelInterval)
	}
	if opts.MinTime != 9*time.Hour || opts.MaxTime != 17*time.Hour {
		t.Errorf("time window = %v-%v", opts.MinTime, opts.MaxTime)
	}
	if len(opts.HiddenDays) != 1 || opts.HiddenDays[0] != time.Wednesday || !opts.HideWeekends {
		t.Errorf("hidden days = %v weekends hidden = %v", opts.HiddenDays, opts.HideWeekends)
	}

	lo := cfg.LayoutOptions()
	if lo.SlotWidth != 40 || lo.OverlapEnabled {
		t.Errorf("layout options = %+v", lo)
	}
	if to := cfg.TimelineOptions(); !to.RTL || to.LabelRowHeight != 30 {
		t.Errorf("timeline options = %+v", to)
	}
	if src := cfg.Sources(); len(src) != 1 || src[0].ID != "ics-1" || src[0].Path != "team.ics" {
		t.Errorf("sources = %+v", src)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"measure", "measure: ruler\n", ErrBadMeasure},
		{"weekday", "hidden_days: [someday]\n", ErrBadWeekday},
		{"timezone", "timezone: Mars/Olympus\n", ErrBadTimezone},
		{"range", "range: {start: 2025-01-06, end: 2025-01-06}\n", ErrBadRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err == nil {
				_, err = cfg.BuildOptions()
			}
			if err == nil {
				_, err = cfg.Location()
			}
			if err == nil {
				_, _, err = cfg.DateRange(time.Now(), time.UTC)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Parse([]byte("slot_width: [")); err == nil {
		t.Error("expected YAML syntax error")
	}
}

func TestWeekendsDefault(t *testing.T) {
	cfg := DefaultConfig()
	opts, err := cfg.BuildOptions()
	if err != nil {
		t.Fatalf("BuildOptions: %v", err)
	}
	if opts.HideWeekends {
		t.Error("weekends should be visible by default")
	}
	if !cfg.LayoutOptions().OverlapEnabled {
		t.Error("overlap should be enabled by default")
	}
}
