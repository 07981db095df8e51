package scroll

import "math"

// Overflow controls how a scroller treats content larger than its
// viewport along one axis.
type Overflow int

const (
	// Auto scrolls when content overflows.
	Auto Overflow = iota
	// Hidden clips overflow and never scrolls.
	Hidden
	// ClippedScroll scrolls, but the native scrollbar is clipped away;
	// the offset is driven by a partner surface.
	ClippedScroll
)

func (o Overflow) scrolls() bool { return o != Hidden }

// Canvas is the oversized virtual content inside a scroller. Zero Width
// and MinWidth mean unset, in which case the natural content width wins.
type Canvas struct {
	Width    float64
	MinWidth float64
	Height   float64

	// NaturalWidth is the width the content would take on its own.
	NaturalWidth float64
}

// SetWidth assigns an explicit width; 0 clears it.
func (c *Canvas) SetWidth(w float64) { c.Width = w }

// SetMinWidth assigns a min-width; 0 clears it.
func (c *Canvas) SetMinWidth(w float64) { c.MinWidth = w }

// ResolvedWidth is the laid-out canvas width.
func (c *Canvas) ResolvedWidth() float64 {
	w := c.NaturalWidth
	if c.Width > 0 {
		w = c.Width
	}
	return math.Max(w, c.MinWidth)
}

// Scroller is a viewport over a Canvas with its own scroll offsets.
type Scroller struct {
	Name      string
	OverflowX Overflow
	OverflowY Overflow
	Canvas    *Canvas

	clientWidth  float64
	clientHeight float64
	// height is the assigned outer height; 0 means auto (grow to canvas).
	height float64

	scrollLeft float64
	scrollTop  float64

	listeners []func(*Scroller)
}

// NewScroller builds a scroller with an empty canvas.
func NewScroller(name string, overflowX, overflowY Overflow) *Scroller {
	return &Scroller{
		Name:      name,
		OverflowX: overflowX,
		OverflowY: overflowY,
		Canvas:    &Canvas{},
	}
}

// SetClientSize records the measured viewport size and re-clamps offsets.
func (s *Scroller) SetClientSize(width, height float64) {
	s.clientWidth = width
	s.clientHeight = height
	s.UpdateSize()
}

// SetHeight assigns the outer height; 0 means auto.
func (s *Scroller) SetHeight(h float64) {
	s.height = h
	if h > 0 {
		s.clientHeight = h
	}
}

// ClientWidth is the width of the visible viewport.
func (s *Scroller) ClientWidth() float64 { return s.clientWidth }

// ClientHeight is the height of the visible viewport. With auto height
// it follows the canvas.
func (s *Scroller) ClientHeight() float64 {
	if s.height <= 0 {
		return s.Canvas.Height
	}
	return s.clientHeight
}

// MaxScrollLeft is the largest horizontal offset the scroller allows.
func (s *Scroller) MaxScrollLeft() float64 {
	if !s.OverflowX.scrolls() {
		return 0
	}
	return math.Max(0, s.Canvas.ResolvedWidth()-s.clientWidth)
}

// MaxScrollTop is the largest vertical offset the scroller allows.
func (s *Scroller) MaxScrollTop() float64 {
	if !s.OverflowY.scrolls() {
		return 0
	}
	return math.Max(0, s.Canvas.Height-s.ClientHeight())
}

func (s *Scroller) ScrollLeft() float64 { return s.scrollLeft }
func (s *Scroller) ScrollTop() float64  { return s.scrollTop }

// SetScrollLeft moves the horizontal offset, clamped to the scrollable
// range, and notifies listeners when the offset changed.
func (s *Scroller) SetScrollLeft(x float64) {
	x = clamp(x, 0, s.MaxScrollLeft())
	if x == s.scrollLeft {
		return
	}
	s.scrollLeft = x
	s.emit()
}

// SetScrollTop moves the vertical offset. It is a no-op when vertical
// overflow is hidden.
func (s *Scroller) SetScrollTop(y float64) {
	y = clamp(y, 0, s.MaxScrollTop())
	if y == s.scrollTop {
		return
	}
	s.scrollTop = y
	s.emit()
}

// OnScroll registers fn to run after every offset change.
func (s *Scroller) OnScroll(fn func(*Scroller)) {
	s.listeners = append(s.listeners, fn)
}

// UpdateSize re-clamps both offsets after a geometry change. Shrinking
// content fires a scroll notification like a browser would.
func (s *Scroller) UpdateSize() {
	left := clamp(s.scrollLeft, 0, s.MaxScrollLeft())
	top := clamp(s.scrollTop, 0, s.MaxScrollTop())
	if left == s.scrollLeft && top == s.scrollTop {
		return
	}
	s.scrollLeft, s.scrollTop = left, top
	s.emit()
}

func (s *Scroller) emit() {
	for _, fn := range s.listeners {
		fn(s)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
