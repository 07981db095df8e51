// Package measure provides layout.Measurer implementations: fixed values,
// font metrics, and a headless Chromium rendering of the label cells.
package measure

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Fixed returns preset measurements.
type Fixed struct {
	Label    float64
	Viewport float64
	MinWidth float64
}

func (f Fixed) WidestLabel() float64   { return f.Label }
func (f Fixed) ViewportWidth() float64 { return f.Viewport }
func (f Fixed) ColumnMinWidth() (float64, bool) {
	return f.MinWidth, f.MinWidth > 0
}

// Font measures label text with a font face instead of a browser.
type Font struct {
	Face     font.Face
	Labels   []string
	Viewport float64
	// Padding is added to each label's advance, matching the cell's
	// horizontal padding in the rendered header.
	Padding  float64
	MinWidth float64

	widest float64
	done   bool
}

// NewFont measures labels with the built-in 7x13 bitmap face.
func NewFont(labels []string, viewport float64) *Font {
	return &Font{
		Face:     basicfont.Face7x13,
		Labels:   labels,
		Viewport: viewport,
	}
}

func (f *Font) WidestLabel() float64 {
	if f.done {
		return f.widest
	}
	face := f.Face
	if face == nil {
		face = basicfont.Face7x13
	}
	for _, l := range f.Labels {
		w := float64(font.MeasureString(face, l).Ceil()) + f.Padding
		if w > f.widest {
			f.widest = w
		}
	}
	f.done = true
	return f.widest
}

func (f *Font) ViewportWidth() float64 { return f.Viewport }

func (f *Font) ColumnMinWidth() (float64, bool) {
	return f.MinWidth, f.MinWidth > 0
}
