package render

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"timelinecal/internal/lane"
	"timelinecal/internal/measure"
	"timelinecal/internal/model"
	"timelinecal/internal/profile"
	"timelinecal/internal/timeline"
)

var dayStart = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func sizedView(t *testing.T, rtl bool) *timeline.View {
	t.Helper()
	env := profile.NewDateEnv(time.UTC)
	p, err := profile.Build(dayStart, dayStart.Add(24*time.Hour), env, profile.BuildOptions{
		SlotDuration: profile.Hours(1),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	v := timeline.New(env, timeline.Options{RTL: rtl})
	v.SetProfile(p)
	// 40px labels give 41px slots over a 984px canvas.
	if err := v.UpdateSize(600, false, measure.Fixed{Label: 40, Viewport: 800}); err != nil {
		t.Fatalf("UpdateSize: %v", err)
	}
	return v
}

func place(t *testing.T, v *timeline.View) []lane.Segment {
	t.Helper()
	segs, err := lane.Place([]model.Occurrence{{
		UID:     "review",
		Summary: "Design review",
		Start:   dayStart.Add(time.Hour),
		End:     dayStart.Add(3 * time.Hour),
	}}, v)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	return segs
}

func TestSVG(t *testing.T) {
	v := sizedView(t, false)
	var buf bytes.Buffer
	err := SVG(&buf, v, place(t, v), Options{Now: dayStart.Add(6 * time.Hour)})
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`width="984"`,
		`viewBox="0 0 984 54"`,
		`<rect class="tl-event" x="41" y="32" width="82" height="20"`,
		`<title>Design review</title>`,
		`<line class="tl-now" x1="246"`,
		`>00:00</text>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if n := strings.Count(out, `class="tl-slot`); n != 24 {
		t.Errorf("got %d slot columns, want 24", n)
	}
	if n := strings.Count(out, `class="tl-label"`); n != 24 {
		t.Errorf("got %d labels, want 24", n)
	}
}

func TestSVGEscapesText(t *testing.T) {
	v := sizedView(t, false)
	segs, err := lane.Place([]model.Occurrence{{
		UID:     "rd",
		Summary: "R&D <sync>",
		Start:   dayStart.Add(time.Hour),
		End:     dayStart.Add(2 * time.Hour),
	}}, v)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	var buf bytes.Buffer
	if err := SVG(&buf, v, segs, Options{}); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if !strings.Contains(buf.String(), "<title>R&amp;D &lt;sync&gt;</title>") {
		t.Errorf("summary not escaped:\n%s", buf.String())
	}

	dec := xml.NewDecoder(bytes.NewReader(buf.Bytes()))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("output is not well-formed XML: %v", err)
		}
	}
}

func TestSVGRTL(t *testing.T) {
	v := sizedView(t, true)
	var buf bytes.Buffer
	if err := SVG(&buf, v, place(t, v), Options{NoOverlap: true}); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `class="tl tl-rtl tl-no-overlap"`) {
		t.Error("root classes missing")
	}
	// 01:00-03:00 mirrors to [861, 943].
	if !strings.Contains(out, `<rect class="tl-event" x="861"`) {
		t.Errorf("rtl segment misplaced:\n%s", out)
	}
	if strings.Contains(out, "tl-now") {
		t.Error("now indicator drawn without a time")
	}
}

func TestSVGViewport(t *testing.T) {
	v := sizedView(t, false)
	v.Body.SetScrollLeft(120)

	var buf bytes.Buffer
	if err := SVG(&buf, v, nil, Options{Viewport: true}); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if !strings.Contains(buf.String(), `viewBox="120 0 800 54"`) {
		t.Errorf("viewport not clipped:\n%s", buf.String())
	}
}

func TestSVGRequiresSizePass(t *testing.T) {
	env := profile.NewDateEnv(time.UTC)
	p, err := profile.Build(dayStart, dayStart.Add(24*time.Hour), env, profile.BuildOptions{})
	if err != nil {
		t.Fatal(err)
	}
	v := timeline.New(env, timeline.Options{})
	v.SetProfile(p)

	var buf bytes.Buffer
	if err := SVG(&buf, v, nil, Options{}); !errors.Is(err, timeline.ErrNotSized) {
		t.Errorf("err = %v, want ErrNotSized", err)
	}
}
