package coord

// Cache holds the measured horizontal extent of every slot column.
//
// Lefts and Rights are physical offsets from the canvas origin. In
// left-to-right mode slot 0 sits at the origin and Lefts increase; in
// right-to-left mode slot 0 sits at the far edge and Lefts decrease.
// Adjacent slots share an edge.
type Cache struct {
	Lefts       []float64
	Rights      []float64
	OriginWidth float64
}

// BuildCache lays out columns of the given widths edge to edge.
// originWidth is the full canvas width; when it is smaller than the sum of
// the widths the sum is used instead.
func BuildCache(widths []float64, originWidth float64, rtl bool) *Cache {
	total := 0.0
	for _, w := range widths {
		total += w
	}
	if originWidth < total {
		originWidth = total
	}

	c := &Cache{
		Lefts:       make([]float64, len(widths)),
		Rights:      make([]float64, len(widths)),
		OriginWidth: originWidth,
	}

	x := 0.0
	for i, w := range widths {
		if rtl {
			c.Rights[i] = originWidth - x
			c.Lefts[i] = originWidth - x - w
		} else {
			c.Lefts[i] = x
			c.Rights[i] = x + w
		}
		x += w
	}
	return c
}

// Len is the number of cached slots.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Lefts)
}

// Width returns the width of slot i.
func (c *Cache) Width(i int) float64 {
	return c.Rights[i] - c.Lefts[i]
}

// IndexAt returns the slot whose span contains x, measured in the same
// physical space as Lefts and Rights.
func (c *Cache) IndexAt(x float64) (int, bool) {
	for i := range c.Lefts {
		if x >= c.Lefts[i] && x < c.Rights[i] {
			return i, true
		}
	}
	return -1, false
}
