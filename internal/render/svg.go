// Package render draws a sized timeline view as an SVG snapshot: header
// labels, slot columns, lane segments and an optional now indicator.
package render

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/template"
	"time"

	"timelinecal/internal/coord"
	"timelinecal/internal/lane"
	"timelinecal/internal/timeline"
)

// Options controls the snapshot.
type Options struct {
	LaneRowHeight float64
	// Now draws a vertical marker when it falls inside the range.
	Now time.Time
	// Viewport clips the image to the body viewport at its current
	// scroll offset instead of drawing the whole canvas.
	Viewport bool
	// NoOverlap tags the root element so stylesheets can mark lanes that
	// disallow overlapping events.
	NoOverlap bool
}

type rect struct {
	X, Y, W, H float64
	Text       string
	Class      string
}

type svgData struct {
	Width, Height   float64
	ViewX, ViewW    float64
	HeadHeight      float64
	RootClass       string
	Columns, Labels []rect
	Segments        []rect
	NowX            float64
	ShowNow         bool
}

var funcs = template.FuncMap{
	"px": func(v float64) string {
		return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
	},
	"xml": func(s string) string {
		var b strings.Builder
		_ = xml.EscapeText(&b, []byte(s))
		return b.String()
	},
}

var svgTmpl = template.Must(template.New("timeline").Funcs(funcs).Parse(`<svg xmlns="http://www.w3.org/2000/svg" class="{{xml .RootClass}}" width="{{px .ViewW}}" height="{{px .Height}}" viewBox="{{px .ViewX}} 0 {{px .ViewW}} {{px .Height}}">
<g class="tl-head">
{{- range .Labels}}
<rect class="tl-label" x="{{px .X}}" y="0" width="{{px .W}}" height="{{px .H}}" fill="#f4f4f4" stroke="#ccc"/>
<text x="{{px .X}}" dx="4" y="{{px .H}}" dy="-9" font-family="monospace" font-size="12">{{xml .Text}}</text>
{{- end}}
</g>
<g class="tl-body">
{{- range .Columns}}
<rect class="{{.Class}}" x="{{px .X}}" y="{{px .Y}}" width="{{px .W}}" height="{{px .H}}" fill="none" stroke="#eee"/>
{{- end}}
{{- range .Segments}}
<rect class="tl-event" x="{{px .X}}" y="{{px .Y}}" width="{{px .W}}" height="{{px .H}}" rx="2" fill="#3a87ad"><title>{{xml .Text}}</title></rect>
{{- end}}
{{- if .ShowNow}}
<line class="tl-now" x1="{{px .NowX}}" y1="0" x2="{{px .NowX}}" y2="{{px .Height}}" stroke="#d00"/>
{{- end}}
</g>
</svg>
`))

// SVG writes the view's current geometry. The view must have been sized.
func SVG(w io.Writer, v *timeline.View, segs []lane.Segment, opts Options) error {
	m, err := v.Mapper()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if opts.LaneRowHeight <= 0 {
		opts.LaneRowHeight = 24
	}

	rtl := v.Options().RTL
	// physical turns a mapper coordinate into an offset from the canvas's
	// left edge.
	physical := func(x float64) float64 {
		if rtl {
			return x + m.Cache.OriginWidth
		}
		return x
	}

	headHeight := v.QueryHeadHeight()
	bodyHeight := math.Max(float64(lane.LevelCount(segs))*opts.LaneRowHeight, opts.LaneRowHeight)
	d := svgData{
		Width:      m.Cache.OriginWidth,
		Height:     headHeight + bodyHeight,
		ViewW:      m.Cache.OriginWidth,
		HeadHeight: headHeight,
		RootClass:  "tl",
	}
	if rtl {
		d.RootClass += " tl-rtl"
	}
	if opts.NoOverlap {
		d.RootClass += " tl-no-overlap"
	}
	if opts.Viewport && v.Body.ClientWidth() > 0 {
		d.ViewX = v.Body.ScrollLeft()
		d.ViewW = math.Min(v.Body.ClientWidth(), m.Cache.OriginWidth)
	}

	for i := 0; i < m.Cache.Len(); i++ {
		class := "tl-slot"
		if p := v.Profile(); i < p.SlotCnt() && isMajor(p.SlotDates[i], p.LabelInterval.AddTo(p.SlotDates[i]).Sub(p.SlotDates[i])) {
			class += " tl-major"
		}
		d.Columns = append(d.Columns, rect{
			X: m.Cache.Lefts[i], Y: headHeight, W: m.Cache.Width(i), H: bodyHeight, Class: class,
		})
	}

	d.Labels = labelRects(v, m.Cache, headHeight)

	for _, s := range segs {
		d.Segments = append(d.Segments, rect{
			X:    physical(s.Left),
			Y:    headHeight + float64(s.Level)*opts.LaneRowHeight + 2,
			W:    math.Max(s.Width(), 2),
			H:    opts.LaneRowHeight - 4,
			Text: s.Occurrence.Summary,
		})
	}

	if p := v.Profile(); !opts.Now.IsZero() && !opts.Now.Before(p.NormalizedStart) && opts.Now.Before(p.End) {
		d.ShowNow = true
		d.NowX = physical(m.DateToCoordinate(opts.Now))
	}

	return svgTmpl.Execute(w, d)
}

// labelRects spans each header label over the slots it covers.
func labelRects(v *timeline.View, c *coord.Cache, height float64) []rect {
	var out []rect
	slot := 0
	for _, l := range v.Profile().Labels {
		first, last := slot, slot+l.Span-1
		slot += l.Span
		if last >= c.Len() {
			break
		}
		left := math.Min(c.Lefts[first], c.Lefts[last])
		right := math.Max(c.Rights[first], c.Rights[last])
		out = append(out, rect{X: left, W: right - left, H: height, Text: l.Text})
	}
	return out
}

// isMajor marks columns that start a calendar day on sub-day grids.
func isMajor(t time.Time, labelLen time.Duration) bool {
	return labelLen < 24*time.Hour && t.Hour() == 0 && t.Minute() == 0
}
