package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"timelinecal/internal/ics"
	"timelinecal/internal/layout"
	"timelinecal/internal/profile"
	"timelinecal/internal/timeline"
)

var (
	ErrEmptyPath   = errors.New("config: path is empty")
	ErrBadRange    = errors.New("config: range end is not after range start")
	ErrBadMeasure  = errors.New("config: measure must be font, chromium or fixed")
	ErrBadWeekday  = errors.New("config: unknown weekday")
	ErrBadTimezone = errors.New("config: unknown timezone")
)

// Measurement backends.
const (
	MeasureFont     = "font"
	MeasureChromium = "chromium"
	MeasureFixed    = "fixed"
)

// ICSConfig describes a single local ICS file.
type ICSConfig struct {
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// RangeConfig is the visible date range. Start/End accept RFC3339 or
// 2006-01-02. When End is empty, Days counts forward from Start.
type RangeConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Days  int    `yaml:"days"`
}

// ViewportConfig is the size of the body scroll surface in pixels.
type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA timezone used as canonical display zone.
	Timezone string `yaml:"timezone"`
	LogLevel string `yaml:"log_level"`

	Range RangeConfig `yaml:"range"`

	// Grid durations, e.g. "30m", "1h", "1d", "1w", "1mo".
	SnapDuration  string `yaml:"snap_duration"`
	SlotDuration  string `yaml:"slot_duration"`
	LabelInterval string `yaml:"label_interval"`
	LabelFormat   string `yaml:"label_format"`

	// MinTime/MaxTime bound the visible time of day ("09:00", "17:00").
	MinTime string `yaml:"min_time"`
	MaxTime string `yaml:"max_time"`

	HiddenDays []string `yaml:"hidden_days"`
	// Weekends is a pointer so an explicit false survives Normalize.
	Weekends     *bool  `yaml:"weekends"`
	ExcludeRRule string `yaml:"exclude_rrule"`

	// SlotWidth of 0 means auto.
	SlotWidth      float64 `yaml:"slot_width"`
	MinColumnWidth float64 `yaml:"min_column_width"`
	EventOverlap   *bool   `yaml:"event_overlap"`
	RTL            bool    `yaml:"rtl"`

	Viewport       ViewportConfig `yaml:"viewport"`
	LabelRowHeight float64        `yaml:"label_row_height"`
	LaneRowHeight  float64        `yaml:"lane_row_height"`

	// Measure selects how label widths are obtained.
	Measure    string  `yaml:"measure"`
	LabelWidth float64 `yaml:"label_width"`

	ICS []ICSConfig `yaml:"ics"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// used by watch mode.
	RefreshCron  string `yaml:"refresh"`
	Output       string `yaml:"output"`
	NowIndicator bool   `yaml:"now_indicator"`
}

// DefaultConfig returns an in-memory default configuration: one week of
// hourly slots labelled per day.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

func boolPtr(b bool) *bool { return &b }

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Range.End == "" && c.Range.Days <= 0 {
		c.Range.Days = 7
	}
	if c.SlotDuration == "" {
		c.SlotDuration = "1h"
	}
	if c.LabelInterval == "" {
		c.LabelInterval = "1d"
	}
	if c.Weekends == nil {
		c.Weekends = boolPtr(true)
	}
	if c.EventOverlap == nil {
		c.EventOverlap = boolPtr(true)
	}
	if c.Viewport.Width <= 0 {
		c.Viewport.Width = 1280
	}
	if c.Viewport.Height <= 0 {
		c.Viewport.Height = 600
	}
	if c.LabelRowHeight <= 0 {
		c.LabelRowHeight = 30
	}
	if c.LaneRowHeight <= 0 {
		c.LaneRowHeight = 24
	}
	c.Measure = strings.ToLower(strings.TrimSpace(c.Measure))
	if c.Measure == "" {
		c.Measure = MeasureFont
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.Output == "" {
		c.Output = "timeline.svg"
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
	for i := range c.ICS {
		if c.ICS[i].ID == "" {
			c.ICS[i].ID = fmt.Sprintf("ics-%d", i+1)
		}
	}
}

// Load loads configuration from the given YAML path. A missing file
// yields DefaultConfig; nothing is written back.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return Parse(data)
}

// Parse unmarshals and normalizes a YAML document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Normalize()
	switch cfg.Measure {
	case MeasureFont, MeasureChromium, MeasureFixed:
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadMeasure, cfg.Measure)
	}
	return &cfg, nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadTimezone, c.Timezone)
	}
	return loc, nil
}

// DateRange resolves the configured range in loc. An empty start means
// the day containing now.
func (c *Config) DateRange(now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	var start time.Time
	if c.Range.Start == "" {
		n := now.In(loc)
		start = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	} else {
		t, err := parseDate(c.Range.Start, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}

	var end time.Time
	if c.Range.End != "" {
		t, err := parseDate(c.Range.End, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = t
	} else {
		end = start.AddDate(0, 0, c.Range.Days)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrBadRange
	}
	return start, end, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("config: bad date %q: %w", s, err)
	}
	return t, nil
}

// BuildOptions converts the grid settings for profile.Build.
func (c *Config) BuildOptions() (profile.BuildOptions, error) {
	var opts profile.BuildOptions
	var err error

	if opts.SlotDuration, err = profile.ParseDuration(c.SlotDuration); err != nil {
		return opts, fmt.Errorf("config: slot_duration: %w", err)
	}
	if c.SnapDuration != "" {
		if opts.SnapDuration, err = profile.ParseDuration(c.SnapDuration); err != nil {
			return opts, fmt.Errorf("config: snap_duration: %w", err)
		}
	}
	if opts.LabelInterval, err = profile.ParseDuration(c.LabelInterval); err != nil {
		return opts, fmt.Errorf("config: label_interval: %w", err)
	}
	if opts.MinTime, err = parseClock(c.MinTime); err != nil {
		return opts, fmt.Errorf("config: min_time: %w", err)
	}
	if opts.MaxTime, err = parseClock(c.MaxTime); err != nil {
		return opts, fmt.Errorf("config: max_time: %w", err)
	}
	for _, name := range c.HiddenDays {
		wd, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return opts, fmt.Errorf("%w: %q", ErrBadWeekday, name)
		}
		opts.HiddenDays = append(opts.HiddenDays, wd)
	}
	opts.HideWeekends = c.Weekends != nil && !*c.Weekends
	opts.ExcludeRule = c.ExcludeRRule
	opts.LabelFormat = c.LabelFormat
	return opts, nil
}

// parseClock reads a time of day ("09:00" or a duration string such as
// "9h30m"). Empty means zero.
func parseClock(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := profile.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d.Years != 0 || d.Months != 0 || d.Days > 1 || (d.Days == 1 && d.Clock != 0) {
		return 0, fmt.Errorf("%q is not a time of day", s)
	}
	return time.Duration(d.Days)*24*time.Hour + d.Clock, nil
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// LayoutOptions is the explicit sizer configuration.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		SlotWidth:      c.SlotWidth,
		OverlapEnabled: c.EventOverlap == nil || *c.EventOverlap,
		MinColumnWidth: c.MinColumnWidth,
	}
}

// TimelineOptions configures timeline.New.
func (c *Config) TimelineOptions() timeline.Options {
	return timeline.Options{
		Layout:         c.LayoutOptions(),
		RTL:            c.RTL,
		LabelRowHeight: c.LabelRowHeight,
	}
}

// Sources lists the configured ICS files.
func (c *Config) Sources() []ics.Source {
	out := make([]ics.Source, 0, len(c.ICS))
	for _, s := range c.ICS {
		out = append(out, ics.Source{ID: s.ID, Name: s.Name, Path: s.Path})
	}
	return out
}
