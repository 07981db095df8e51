// Package timeline composes the profile, sizer, coordinate cache and the
// header/body scroll pair into one horizontal timeline view.
package timeline

import (
	"errors"
	"time"

	"timelinecal/internal/coord"
	"timelinecal/internal/layout"
	appLog "timelinecal/internal/log"
	"timelinecal/internal/profile"
	"timelinecal/internal/scroll"
)

var (
	ErrNoProfile = errors.New("timeline: no profile rendered")
	ErrNotSized  = errors.New("timeline: coordinates queried before size pass")
)

// Options configures a View.
type Options struct {
	Layout layout.Options
	RTL    bool

	// LabelRowHeight is the height of the header label row.
	LabelRowHeight float64
	// MiscHeight is vertical space taken by chrome outside both scrollers.
	MiscHeight float64
}

// View is a horizontal timeline: a header scroller showing slot labels
// and a body scroller showing lanes, joined horizontally.
//
// Call order per render pass: SetProfile, then UpdateSize, then any
// coordinate query.
type View struct {
	env   profile.DateEnv
	opts  Options
	sizer *layout.Sizer

	Header *scroll.Scroller
	Body   *scroll.Scroller
	joiner *scroll.Joiner

	profile        *profile.Profile
	labelsRendered bool

	widths  layout.Widths
	columns []float64
	mapper  *coord.Mapper
}

// New builds the skeleton: scrollers and joiner persist for the life of
// the view, only their measured ranges change.
func New(env profile.DateEnv, opts Options) *View {
	if opts.LabelRowHeight <= 0 {
		opts.LabelRowHeight = 30
	}

	v := &View{
		env:    env,
		opts:   opts,
		sizer:  layout.NewSizer(opts.Layout),
		Header: scroll.NewScroller("head", scroll.ClippedScroll, scroll.Hidden),
		Body:   scroll.NewScroller("body", scroll.Auto, scroll.Auto),
	}
	v.joiner = scroll.NewJoiner(scroll.Horizontal, v.Header, v.Body)
	return v
}

// Options returns the view configuration.
func (v *View) Options() Options { return v.opts }

// Env returns the date environment the view computes in.
func (v *View) Env() profile.DateEnv { return v.env }

// SetProfile renders a new date range. The coordinate cache is dropped
// until the next UpdateSize.
func (v *View) SetProfile(p *profile.Profile) {
	if p == nil {
		return
	}
	v.profile = p
	v.labelsRendered = !p.IsEmpty()
	v.mapper = nil
	v.columns = nil

	v.Header.Canvas.Height = v.QueryHeadHeight()
	appLog.Debug("timeline profile set",
		"slots", p.SlotCnt(),
		"snaps", p.SnapCnt,
		"labels", len(p.Labels),
	)
}

// Profile returns the current profile, or nil before SetProfile.
func (v *View) Profile() *profile.Profile { return v.profile }

// SetBodyContentHeight records how tall the lane content is.
func (v *View) SetBodyContentHeight(h float64) {
	v.Body.Canvas.Height = h
	v.Body.UpdateSize()
}

// QueryHeadHeight is the height of the header label table. It is 0 when
// the profile has no visible slot and no label table exists.
func (v *View) QueryHeadHeight() float64 {
	if v.profile.IsEmpty() || len(v.profile.Labels) == 0 {
		return 0
	}
	return v.opts.LabelRowHeight
}

// UpdateSize runs the layout pass: body height, slot width, canvas widths,
// coordinate cache, then scroller ranges and the horizontal join.
// totalHeight is ignored when isAuto is set.
func (v *View) UpdateSize(totalHeight float64, isAuto bool, m layout.Measurer) error {
	if v.profile == nil {
		return ErrNoProfile
	}

	headHeight := v.QueryHeadHeight()
	bodyHeight := 0.0
	if !isAuto {
		bodyHeight = totalHeight - headHeight - v.opts.MiscHeight
		if bodyHeight < 0 {
			bodyHeight = 0
		}
	}
	v.Body.SetHeight(bodyHeight)

	viewport := m.ViewportWidth()
	v.Header.SetClientSize(viewport, headHeight)
	v.Body.SetClientSize(viewport, bodyHeight)
	v.Header.Canvas.NaturalWidth = viewport
	v.Body.Canvas.NaturalWidth = viewport

	ideal := v.sizer.IdealSlotWidth(v.profile, m, v.labelsRendered)
	w := v.ApplyWidths(ideal)

	v.Header.UpdateSize()
	v.Body.UpdateSize()
	v.joiner.Update()

	appLog.Debug("timeline sized",
		"viewport", viewport,
		"slot_width", w.SlotWidth,
		"stretch", w.Stretch,
		"canvas_width", v.Body.Canvas.ResolvedWidth(),
		"body_height", bodyHeight,
	)
	return nil
}

// ComputeDefaultSlotWidth derives the slot width from measured labels.
func (v *View) ComputeDefaultSlotWidth(m layout.Measurer) float64 {
	if v.profile.IsEmpty() {
		return 0
	}
	return v.sizer.DefaultSlotWidth(v.profile, m)
}

// ApplyWidths is the only mutator of column widths and canvas sizes.
// slotWidth 0 means auto. Header and body receive identical values.
func (v *View) ApplyWidths(slotWidth float64) layout.Widths {
	if v.profile == nil {
		return layout.Widths{}
	}
	slotCnt := v.profile.SlotCnt()
	w := layout.PlanWidths(slotWidth, slotCnt, v.Body.ClientWidth())

	for _, c := range []*scroll.Canvas{v.Header.Canvas, v.Body.Canvas} {
		c.SetWidth(w.ContainerWidth)
		c.SetMinWidth(w.ContainerMinWidth)
	}

	canvasWidth := v.Body.Canvas.ResolvedWidth()
	v.widths = w
	v.columns = w.Columns(slotCnt, canvasWidth)
	v.mapper = &coord.Mapper{
		Profile: v.profile,
		Env:     v.env,
		Cache:   coord.BuildCache(v.columns, canvasWidth, v.opts.RTL),
		RTL:     v.opts.RTL,
	}
	return w
}

// Widths returns the outcome of the last ApplyWidths.
func (v *View) Widths() layout.Widths { return v.widths }

// Columns returns the resolved width of every slot column, shared by the
// header and body tables.
func (v *View) Columns() []float64 { return v.columns }

// Mapper returns the coordinate mapper of the current render pass.
func (v *View) Mapper() (*coord.Mapper, error) {
	if v.mapper == nil {
		return nil, ErrNotSized
	}
	return v.mapper, nil
}

// DateToCoord returns the horizontal offset of date. See
// coord.Mapper.DateToCoordinate for the coordinate space.
func (v *View) DateToCoord(date time.Time) (float64, error) {
	m, err := v.Mapper()
	if err != nil {
		return 0, err
	}
	return m.DateToCoordinate(date), nil
}

// ScrollToDate scrolls both surfaces so date sits at the leading edge of
// the viewport.
func (v *View) ScrollToDate(date time.Time) error {
	x, err := v.DateToCoord(date)
	if err != nil {
		return err
	}
	if v.opts.RTL {
		// Offsets count from the left edge of the canvas; date's physical
		// position is x + width and should land on the viewport's right.
		x = x + v.mapper.Cache.OriginWidth - v.Body.ClientWidth()
	}
	v.Body.SetScrollLeft(x)
	return nil
}
