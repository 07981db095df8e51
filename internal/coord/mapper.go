package coord

import (
	"math"
	"time"

	"timelinecal/internal/profile"
)

// Mapper converts between instants and horizontal pixel offsets for one
// profile and one measured cache. It holds no mutable state; rebuild it
// whenever either input changes.
type Mapper struct {
	Profile *profile.Profile
	Env     profile.DateEnv
	Cache   *Cache
	RTL     bool
}

// ComputeSnapCoverage returns the position of date in snaps, between 0 and
// Profile.SnapCnt. Dates inside hidden time collapse to the next visible
// boundary so that range starts and ends agree.
func (m *Mapper) ComputeSnapCoverage(date time.Time) float64 {
	p := m.Profile
	snapDiff := m.Env.CountDurationsBetween(p.NormalizedStart, date, p.SnapDuration)

	if snapDiff < 0 {
		return 0
	}
	if snapDiff >= float64(len(p.SnapDiffToIndex)) {
		return float64(p.SnapCnt)
	}

	snapDiffInt := math.Floor(snapDiff)
	coverage := p.SnapDiffToIndex[int(snapDiffInt)]

	if isInt(coverage) {
		// visible snap: interpolate within it
		coverage += snapDiff - snapDiffInt
	} else {
		// hidden snap: always round up, for start and end dates alike
		coverage = math.Ceil(coverage)
	}
	if coverage < 0 {
		return 0
	}
	return coverage
}

// DateToCoordinate returns the pixel offset of date. Left-to-right results
// range from 0 to the canvas width; right-to-left results range from the
// negative canvas width to 0.
func (m *Mapper) DateToCoordinate(date time.Time) float64 {
	slotCnt := m.Profile.SlotCnt()
	if slotCnt == 0 || m.Cache.Len() == 0 {
		return 0
	}

	slotCoverage := m.ComputeSnapCoverage(date) / float64(m.Profile.SnapsPerSlot)
	slotIndex := int(math.Floor(slotCoverage))
	if slotIndex > slotCnt-1 {
		slotIndex = slotCnt - 1
	}
	if slotIndex > m.Cache.Len()-1 {
		slotIndex = m.Cache.Len() - 1
	}
	if slotIndex < 0 {
		slotIndex = 0
	}
	partial := slotCoverage - float64(slotIndex)
	width := m.Cache.Width(slotIndex)

	if m.RTL {
		return m.Cache.Rights[slotIndex] - width*partial - m.Cache.OriginWidth
	}
	return m.Cache.Lefts[slotIndex] + width*partial
}

// CoordinateToSlot finds the slot under a coordinate produced by
// DateToCoordinate (so negative in right-to-left mode).
func (m *Mapper) CoordinateToSlot(x float64) (int, bool) {
	if m.RTL {
		x += m.Cache.OriginWidth
	}
	return m.Cache.IndexAt(x)
}

// CoordinateToDate is the approximate inverse of DateToCoordinate. It
// resolves the slot under x, then interpolates snaps inside it. Positions
// outside every slot clamp to the range edges.
func (m *Mapper) CoordinateToDate(x float64) time.Time {
	p := m.Profile
	if p.SlotCnt() == 0 || m.Cache.Len() == 0 {
		return p.NormalizedStart
	}

	if m.RTL {
		x += m.Cache.OriginWidth
	}
	i, ok := m.Cache.IndexAt(x)
	if !ok {
		beforeStart := x < m.Cache.Lefts[0]
		if m.RTL {
			beforeStart = x >= m.Cache.Rights[0]
		}
		if beforeStart {
			return p.SnapDate(0)
		}
		return p.End
	}

	w := m.Cache.Width(i)
	partial := 0.0
	if w > 0 {
		if m.RTL {
			partial = (m.Cache.Rights[i] - x) / w
		} else {
			partial = (x - m.Cache.Lefts[i]) / w
		}
	}

	snapCoverage := (float64(i) + partial) * float64(p.SnapsPerSlot)
	snapIndex := int(math.Floor(snapCoverage))
	base := p.SnapDate(snapIndex)
	next := p.SnapDuration.AddTo(base)
	frac := snapCoverage - float64(snapIndex)
	return base.Add(time.Duration(frac * float64(next.Sub(base))))
}

// SlotSpan returns the offsets of slot i's start and end in the same
// space as DateToCoordinate.
func (m *Mapper) SlotSpan(i int) (start, end float64) {
	if m.RTL {
		return m.Cache.Rights[i] - m.Cache.OriginWidth, m.Cache.Lefts[i] - m.Cache.OriginWidth
	}
	return m.Cache.Lefts[i], m.Cache.Rights[i]
}

func isInt(v float64) bool {
	return v == math.Trunc(v)
}
