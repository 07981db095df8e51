package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"timelinecal/internal/config"
	"timelinecal/internal/ics"
	"timelinecal/internal/lane"
	"timelinecal/internal/layout"
	appLog "timelinecal/internal/log"
	"timelinecal/internal/measure"
	"timelinecal/internal/model"
	"timelinecal/internal/profile"
	"timelinecal/internal/render"
	"timelinecal/internal/timeline"
)

// pipeline is one config-driven render: ICS -> profile -> size -> lanes -> SVG.
type pipeline struct {
	conf *config.Config
	clip bool
}

func (p *pipeline) run(ctx context.Context, now time.Time) error {
	start := time.Now()

	loc, err := p.conf.Location()
	if err != nil {
		return err
	}
	rangeStart, rangeEnd, err := p.conf.DateRange(now, loc)
	if err != nil {
		return err
	}
	opts, err := p.conf.BuildOptions()
	if err != nil {
		return err
	}

	env := profile.NewDateEnv(loc)
	prof, err := profile.Build(rangeStart, rangeEnd, env, opts)
	if err != nil {
		return fmt.Errorf("build profile: %w", err)
	}

	view := timeline.New(env, p.conf.TimelineOptions())
	view.SetProfile(prof)

	occs := p.loadOccurrences(loc, prof.NormalizedStart, prof.End)

	m, err := p.measurer(ctx, prof)
	if err != nil {
		return err
	}
	if err := view.UpdateSize(p.conf.Viewport.Height, false, m); err != nil {
		return err
	}

	segs, err := lane.Place(occs, view)
	if err != nil {
		return err
	}
	view.SetBodyContentHeight(float64(lane.LevelCount(segs)) * p.conf.LaneRowHeight)

	ropts := render.Options{
		LaneRowHeight: p.conf.LaneRowHeight,
		Viewport:      p.clip,
		NoOverlap:     !p.conf.LayoutOptions().OverlapEnabled,
	}
	if p.conf.NowIndicator {
		ropts.Now = now
	}
	if p.clip {
		if err := view.ScrollToDate(now); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := render.SVG(&buf, view, segs, ropts); err != nil {
		return err
	}
	if err := writeFileAtomic(p.conf.Output, buf.Bytes()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	appLog.Info("render done",
		"slots", prof.SlotCnt(),
		"segments", len(segs),
		"levels", lane.LevelCount(segs),
		"output", p.conf.Output,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// loadOccurrences reads every source; unreadable sources are logged and
// skipped so one broken file does not blank the timeline.
func (p *pipeline) loadOccurrences(loc *time.Location, from, to time.Time) []model.Occurrence {
	var events []ics.ParsedEvent
	for _, src := range p.conf.Sources() {
		evs, err := ics.ReadSource(src)
		if err != nil {
			appLog.Error("ics source skipped", err, "id", src.ID, "path", src.Path)
			continue
		}
		events = append(events, evs...)
	}

	res, err := ics.ExpandOccurrences(events, ics.ExpandConfig{
		DisplayLocation: loc,
		RangeStart:      from,
		RangeEnd:        to,
	})
	if err != nil {
		appLog.Error("expand failed", err)
		return nil
	}
	return res.Occurrences
}

// measurer picks the configured measurement backend. Chromium failures fall
// back to font metrics.
func (p *pipeline) measurer(ctx context.Context, prof *profile.Profile) (layout.Measurer, error) {
	labels := make([]string, 0, len(prof.Labels))
	for _, l := range prof.Labels {
		labels = append(labels, l.Text)
	}

	switch p.conf.Measure {
	case config.MeasureFixed:
		return measure.Fixed{
			Label:    p.conf.LabelWidth,
			Viewport: p.conf.Viewport.Width,
			MinWidth: p.conf.MinColumnWidth,
		}, nil
	case config.MeasureChromium:
		c, err := measure.MeasureChromium(ctx, measure.ChromiumOptions{
			Labels: labels,
			Width:  int(p.conf.Viewport.Width),
			Height: int(p.conf.Viewport.Height),
		})
		if err == nil {
			return c, nil
		}
		appLog.WarnErr("chromium measurement failed, using font metrics", err)
	case config.MeasureFont:
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrBadMeasure, p.conf.Measure)
	}

	f := measure.NewFont(labels, p.conf.Viewport.Width)
	f.MinWidth = p.conf.MinColumnWidth
	return f, nil
}

// writeFileAtomic writes to a temp file in the same directory then renames
// it over path, so viewers never see a half-written SVG.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".timelinecal-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
