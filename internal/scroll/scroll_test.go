package scroll

import "testing"

// newPair mirrors the timeline: a clipped header that never scrolls
// vertically and a body that scrolls both ways.
func newPair(headWidth, bodyWidth, canvasWidth float64) (head, body *Scroller, j *Joiner) {
	head = NewScroller("head", ClippedScroll, Hidden)
	body = NewScroller("body", Auto, Auto)
	for _, s := range []*Scroller{head, body} {
		s.Canvas.SetWidth(canvasWidth)
	}
	head.Canvas.Height = 30
	body.Canvas.Height = 900
	head.SetClientSize(headWidth, 30)
	body.SetClientSize(bodyWidth, 400)
	body.SetHeight(400)
	j = NewJoiner(Horizontal, head, body)
	return head, body, j
}

func TestJoinerMirrorsBody(t *testing.T) {
	head, body, _ := newPair(800, 800, 2000)

	body.SetScrollLeft(350)
	if got := head.ScrollLeft(); got != 350 {
		t.Errorf("head scroll = %v, want 350", got)
	}

	head.SetScrollLeft(120)
	if got := body.ScrollLeft(); got != 120 {
		t.Errorf("body scroll = %v, want 120", got)
	}
}

func TestJoinerPropagatesOnce(t *testing.T) {
	head, body, _ := newPair(800, 800, 2000)

	headEvents, bodyEvents := 0, 0
	head.OnScroll(func(*Scroller) { headEvents++ })
	body.OnScroll(func(*Scroller) { bodyEvents++ })

	body.SetScrollLeft(500)
	if headEvents != 1 || bodyEvents != 1 {
		t.Errorf("events head=%d body=%d, want 1 each", headEvents, bodyEvents)
	}

	// Same offset again is not a scroll.
	body.SetScrollLeft(500)
	if headEvents != 1 {
		t.Errorf("redundant scroll propagated: head events = %d", headEvents)
	}
}

func TestJoinerSmallerRangeWins(t *testing.T) {
	// Body viewport is narrower (vertical scrollbar gutter), so it can
	// scroll further than the header.
	head, body, j := newPair(800, 780, 1000)

	if got := j.MaxOffset(); got != 200 {
		t.Fatalf("MaxOffset = %v, want 200", got)
	}
	body.SetScrollLeft(220)
	if body.ScrollLeft() != 200 || head.ScrollLeft() != 200 {
		t.Errorf("offsets body=%v head=%v, want both 200", body.ScrollLeft(), head.ScrollLeft())
	}
}

func TestVerticalNotMirrored(t *testing.T) {
	head, body, _ := newPair(800, 800, 2000)

	body.SetScrollTop(300)
	if body.ScrollTop() != 300 {
		t.Errorf("body scroll top = %v, want 300", body.ScrollTop())
	}
	if head.ScrollTop() != 0 {
		t.Errorf("head scroll top = %v, want 0", head.ScrollTop())
	}
	head.SetScrollTop(10)
	if head.ScrollTop() != 0 {
		t.Errorf("hidden vertical overflow scrolled to %v", head.ScrollTop())
	}
}

func TestJoinerUpdateAfterShrink(t *testing.T) {
	head, body, j := newPair(800, 800, 2000)
	body.SetScrollLeft(1100)

	for _, s := range []*Scroller{head, body} {
		s.Canvas.SetWidth(0)
		s.Canvas.SetMinWidth(1000)
	}
	j.Update()

	if head.ScrollLeft() != 200 || body.ScrollLeft() != 200 {
		t.Errorf("after shrink head=%v body=%v, want 200", head.ScrollLeft(), body.ScrollLeft())
	}

	// Running the update again changes nothing.
	j.Update()
	if head.ScrollLeft() != body.ScrollLeft() {
		t.Errorf("diverged after redundant update: %v vs %v", head.ScrollLeft(), body.ScrollLeft())
	}
}

func TestCanvasResolvedWidth(t *testing.T) {
	c := &Canvas{NaturalWidth: 300}
	if c.ResolvedWidth() != 300 {
		t.Errorf("natural = %v", c.ResolvedWidth())
	}
	c.SetWidth(1200)
	if c.ResolvedWidth() != 1200 {
		t.Errorf("explicit = %v", c.ResolvedWidth())
	}
	c.SetWidth(0)
	c.SetMinWidth(800)
	if c.ResolvedWidth() != 800 {
		t.Errorf("min width = %v", c.ResolvedWidth())
	}
}

func TestAutoHeightFollowsCanvas(t *testing.T) {
	s := NewScroller("body", Auto, Auto)
	s.Canvas.Height = 640
	if s.ClientHeight() != 640 {
		t.Errorf("auto height = %v, want 640", s.ClientHeight())
	}
	if s.MaxScrollTop() != 0 {
		t.Errorf("auto height should not scroll vertically, max = %v", s.MaxScrollTop())
	}
}
