package layout

import (
	"math"

	"timelinecal/internal/profile"
)

// labelBorder accounts for the one pixel border of a header cell; label
// cells are assumed to have no padding.
const labelBorder = 1

// Measurer reports the rendered geometry the sizer depends on. A value
// is only meaningful once the slot columns have been painted.
type Measurer interface {
	// WidestLabel is the largest inner width of any header label cell.
	WidestLabel() float64
	// ViewportWidth is the client width of the body scroll surface.
	ViewportWidth() float64
	// ColumnMinWidth is a min-width declared on slot columns by the
	// presentation layer, if any.
	ColumnMinWidth() (float64, bool)
}

// Options is the sizing configuration. A zero SlotWidth means auto.
type Options struct {
	SlotWidth      float64
	OverlapEnabled bool
	MinColumnWidth float64
}

// Sizer chooses slot and canvas widths.
type Sizer struct {
	opts Options
}

func NewSizer(opts Options) *Sizer {
	return &Sizer{opts: opts}
}

// Options returns the configuration the sizer was built with.
func (s *Sizer) Options() Options { return s.opts }

// DefaultSlotWidth derives a slot width wide enough that every label fits
// across the slots it spans.
func (s *Sizer) DefaultSlotWidth(p *profile.Profile, m Measurer) float64 {
	headerWidth := m.WidestLabel() + labelBorder
	slotWidth := math.Ceil(headerWidth / float64(p.SlotsPerLabel()))

	minWidth := s.opts.MinColumnWidth
	if w, ok := m.ColumnMinWidth(); ok && w > minWidth {
		minWidth = w
	}
	if minWidth > 0 && minWidth > slotWidth {
		slotWidth = minWidth
	}
	return slotWidth
}

// IdealSlotWidth is the configured width, or the default width once
// labels have been rendered. It returns 0 (auto) when neither is known.
func (s *Sizer) IdealSlotWidth(p *profile.Profile, m Measurer, labelsRendered bool) float64 {
	if s.opts.SlotWidth > 0 {
		return s.opts.SlotWidth
	}
	if labelsRendered && !p.IsEmpty() {
		return s.DefaultSlotWidth(p, m)
	}
	return 0
}

// Widths is the outcome of a sizing pass. Zero fields mean "unset" and
// leave the corresponding dimension to natural layout. The same Widths
// must be applied to the header and the body canvases.
type Widths struct {
	SlotWidth         float64
	ContainerWidth    float64
	ContainerMinWidth float64
	NonLastSlotWidth  float64
	Stretch           bool
}

// Auto reports whether no explicit width was assigned.
func (w Widths) Auto() bool { return w.NonLastSlotWidth == 0 }

// PlanWidths sizes slotCnt columns for a viewport of availableWidth.
// When the natural content is narrower than the viewport the columns are
// stretched: every column but the last gets floor(available/slotCnt) and
// the last one absorbs the remainder.
func PlanWidths(slotWidth float64, slotCnt int, availableWidth float64) Widths {
	if slotWidth <= 0 || slotCnt <= 0 {
		return Widths{}
	}

	slotWidth = math.Round(slotWidth)
	w := Widths{
		SlotWidth:        slotWidth,
		ContainerWidth:   slotWidth * float64(slotCnt),
		NonLastSlotWidth: slotWidth,
	}

	if availableWidth > w.ContainerWidth {
		w.ContainerMinWidth = availableWidth
		w.ContainerWidth = 0
		w.NonLastSlotWidth = math.Floor(availableWidth / float64(slotCnt))
		w.Stretch = true
	}
	return w
}

// CanvasWidth is the width the canvas resolves to once laid out.
// naturalWidth is what the content would occupy without explicit sizing.
func (w Widths) CanvasWidth(naturalWidth float64) float64 {
	width := naturalWidth
	if w.ContainerWidth > 0 {
		width = w.ContainerWidth
	}
	if w.ContainerMinWidth > width {
		width = w.ContainerMinWidth
	}
	return width
}

// Columns resolves the width of every slot column the way a table lays
// them out: explicit widths on all but the last column, which takes what
// remains of canvasWidth. In auto mode the canvas is shared evenly.
func (w Widths) Columns(slotCnt int, canvasWidth float64) []float64 {
	if slotCnt <= 0 {
		return nil
	}
	cols := make([]float64, slotCnt)
	if w.Auto() {
		each := canvasWidth / float64(slotCnt)
		for i := range cols {
			cols[i] = each
		}
		return cols
	}

	used := 0.0
	for i := 0; i < slotCnt-1; i++ {
		cols[i] = w.NonLastSlotWidth
		used += w.NonLastSlotWidth
	}
	last := canvasWidth - used
	if last < 0 {
		last = 0
	}
	cols[slotCnt-1] = last
	return cols
}
