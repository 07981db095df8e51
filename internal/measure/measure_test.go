package measure

import (
	"net/url"
	"strings"
	"testing"

	"timelinecal/internal/layout"
)

var (
	_ layout.Measurer = Fixed{}
	_ layout.Measurer = (*Font)(nil)
	_ layout.Measurer = (*Chromium)(nil)
)

func TestFixed(t *testing.T) {
	f := Fixed{Label: 40, Viewport: 800}
	if _, ok := f.ColumnMinWidth(); ok {
		t.Error("zero min width should report no constraint")
	}
	f.MinWidth = 30
	if w, ok := f.ColumnMinWidth(); !ok || w != 30 {
		t.Errorf("ColumnMinWidth = (%v, %v)", w, ok)
	}
}

func TestFontWidestLabel(t *testing.T) {
	// basicfont 7x13 advances 7px per glyph.
	f := NewFont([]string{"09:00", "Mon 1/6", "1"}, 900)
	if got := f.WidestLabel(); got != 49 {
		t.Errorf("WidestLabel = %v, want 49", got)
	}
	f.Padding = 8
	if got := f.WidestLabel(); got != 49 {
		t.Errorf("WidestLabel is cached after first call, got %v", got)
	}
	if f.ViewportWidth() != 900 {
		t.Errorf("ViewportWidth = %v", f.ViewportWidth())
	}

	padded := NewFont([]string{"ab"}, 0)
	padded.Padding = 8
	if got := padded.WidestLabel(); got != 22 {
		t.Errorf("padded WidestLabel = %v, want 22", got)
	}
	if got := NewFont(nil, 0).WidestLabel(); got != 0 {
		t.Errorf("no labels WidestLabel = %v, want 0", got)
	}
}

func TestMeasurePageEscapes(t *testing.T) {
	page := measurePage([]string{"<b>&"}, ".tl-slot-col{min-width:30px}")
	if !strings.Contains(page, "&lt;b&gt;&amp;") {
		t.Errorf("label not escaped: %s", page)
	}
	if !strings.Contains(page, "min-width:30px") {
		t.Error("css not injected")
	}
	u := dataURL(page)
	if !strings.HasPrefix(u, "data:text/html;charset=utf-8,") {
		t.Errorf("unexpected data URL prefix: %s", u[:40])
	}
	if dec, err := url.PathUnescape(strings.TrimPrefix(u, "data:text/html;charset=utf-8,")); err != nil || dec != page {
		t.Errorf("data URL does not round trip: %v", err)
	}
}
