package scroll

// Axis selects which offset a Joiner keeps in lockstep.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Joiner keeps the offset of several scrollers identical along one axis.
// A scroll on any member is pushed to the others exactly once; the
// notifications those forced updates trigger are ignored.
type Joiner struct {
	axis      Axis
	scrollers []*Scroller
	syncing   bool
}

// NewJoiner links scrollers and subscribes to their scroll events.
func NewJoiner(axis Axis, scrollers ...*Scroller) *Joiner {
	j := &Joiner{axis: axis, scrollers: scrollers}
	for _, s := range scrollers {
		s.OnScroll(j.handleScroll)
	}
	return j
}

func (j *Joiner) handleScroll(source *Scroller) {
	if j.syncing {
		return
	}
	j.syncing = true
	defer func() { j.syncing = false }()

	j.assignAll(j.offset(source))
}

// Update re-aligns every member after a size change, keeping the
// smallest offset so no member is left past a partner's range.
func (j *Joiner) Update() {
	if len(j.scrollers) == 0 || j.syncing {
		return
	}
	j.syncing = true
	defer func() { j.syncing = false }()

	for _, s := range j.scrollers {
		s.UpdateSize()
	}
	target := j.offset(j.scrollers[0])
	for _, s := range j.scrollers[1:] {
		if o := j.offset(s); o < target {
			target = o
		}
	}
	j.assignAll(target)
}

// MaxOffset is the shared scrollable range: the smallest member range.
func (j *Joiner) MaxOffset() float64 {
	if len(j.scrollers) == 0 {
		return 0
	}
	limit := j.maxOffset(j.scrollers[0])
	for _, s := range j.scrollers[1:] {
		if m := j.maxOffset(s); m < limit {
			limit = m
		}
	}
	return limit
}

// assignAll clamps target to the shared range and writes it to every
// member, including the one that scrolled.
func (j *Joiner) assignAll(target float64) {
	target = clamp(target, 0, j.MaxOffset())
	for _, s := range j.scrollers {
		j.setOffset(s, target)
	}
}

func (j *Joiner) offset(s *Scroller) float64 {
	if j.axis == Vertical {
		return s.ScrollTop()
	}
	return s.ScrollLeft()
}

func (j *Joiner) maxOffset(s *Scroller) float64 {
	if j.axis == Vertical {
		return s.MaxScrollTop()
	}
	return s.MaxScrollLeft()
}

func (j *Joiner) setOffset(s *Scroller, v float64) {
	if j.axis == Vertical {
		s.SetScrollTop(v)
		return
	}
	s.SetScrollLeft(v)
}
