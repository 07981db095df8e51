// Package lane places calendar occurrences on the time axis of a sized
// timeline and stacks overlapping ones into rows.
package lane

import (
	"math"
	"sort"
	"time"

	appLog "timelinecal/internal/log"
	"timelinecal/internal/model"
)

// CoordQuery answers "where on screen is date". timeline.View satisfies it.
type CoordQuery interface {
	DateToCoord(date time.Time) (float64, error)
}

// Segment is an occurrence resolved to pixels. Left <= Right always,
// in the coordinate space of the query (negative in right-to-left mode).
type Segment struct {
	Occurrence model.Occurrence
	Left       float64
	Right      float64
	Level      int
}

// Width is Right - Left.
func (s Segment) Width() float64 { return s.Right - s.Left }

// Place resolves every occurrence and assigns stacking levels so that
// segments sharing a level never overlap. Occurrences that fall entirely
// inside hidden time collapse to zero width and are dropped; zero-length
// occurrences (milestones) are kept.
func Place(occs []model.Occurrence, q CoordQuery) ([]Segment, error) {
	segs := make([]Segment, 0, len(occs))
	for _, o := range occs {
		a, err := q.DateToCoord(o.Start)
		if err != nil {
			return nil, err
		}
		b, err := q.DateToCoord(o.End)
		if err != nil {
			return nil, err
		}
		if a == b && o.End.After(o.Start) {
			appLog.Debug("lane: occurrence hidden", "uid", o.UID, "start", o.Start.Format(time.RFC3339))
			continue
		}
		segs = append(segs, Segment{
			Occurrence: o,
			Left:       math.Min(a, b),
			Right:      math.Max(a, b),
		})
	}

	sort.SliceStable(segs, func(i, j int) bool {
		if segs[i].Left != segs[j].Left {
			return segs[i].Left < segs[j].Left
		}
		return segs[i].Width() > segs[j].Width()
	})

	// levelEnds[k] is the right edge of the last segment placed on level k.
	var levelEnds []float64
	for i := range segs {
		placed := false
		for k, end := range levelEnds {
			if segs[i].Left >= end {
				segs[i].Level = k
				levelEnds[k] = segs[i].Right
				placed = true
				break
			}
		}
		if !placed {
			segs[i].Level = len(levelEnds)
			levelEnds = append(levelEnds, segs[i].Right)
		}
	}
	return segs, nil
}

// LevelCount is the number of rows needed to draw segs.
func LevelCount(segs []Segment) int {
	n := 0
	for _, s := range segs {
		if s.Level+1 > n {
			n = s.Level + 1
		}
	}
	return n
}
