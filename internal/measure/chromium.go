package measure

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Default Chromium measurement parameters.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 800
	DefaultTimeoutSec     = 30
)

// ChromiumOptions defines a headless measurement pass.
type ChromiumOptions struct {
	// Labels are the header label texts to lay out.
	Labels []string

	// CSS is injected into the measurement page, e.g. the stylesheet the
	// timeline is shipped with, so min-width rules and fonts apply.
	CSS string

	// Width and Height are the browser viewport in pixels. If zero,
	// DefaultViewportWidth / DefaultViewportHeight are used.
	Width  int
	Height int

	// Timeout bounds the whole pass. If zero, DefaultTimeoutSec is used.
	Timeout time.Duration
}

// Chromium holds measurements taken from a real browser layout.
type Chromium struct {
	widest   float64
	viewport float64
	minWidth float64
}

func (c *Chromium) WidestLabel() float64   { return c.widest }
func (c *Chromium) ViewportWidth() float64 { return c.viewport }
func (c *Chromium) ColumnMinWidth() (float64, bool) {
	return c.minWidth, c.minWidth > 0
}

type chromiumResult struct {
	Widest   float64 `json:"widest"`
	MinWidth float64 `json:"minWidth"`
	Viewport float64 `json:"viewport"`
}

// measureJS reads the same values the sizer needs: the widest label
// inner element, the computed min-width of a slot column (absent means
// no constraint), and the body client width.
const measureJS = `(() => {
  let widest = 0;
  document.querySelectorAll('.tl-label-inner').forEach(el => {
    widest = Math.max(widest, el.offsetWidth);
  });
  const col = document.querySelector('.tl-slot-col');
  let minWidth = 0;
  if (col) {
    minWidth = parseInt(window.getComputedStyle(col).minWidth, 10) || 0;
  }
  const body = document.querySelector('.tl-body');
  return {widest: widest, minWidth: minWidth, viewport: body ? body.clientWidth : 0};
})()`

// MeasureChromium launches headless Chromium via chromedp, lays out the
// label cells and returns the measurements.
func MeasureChromium(parentCtx context.Context, opts ChromiumOptions) (*Chromium, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultViewportWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultViewportHeight
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var res chromiumResult
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(dataURL(measurePage(opts.Labels, opts.CSS))),
		chromedp.WaitReady(`.tl-body`, chromedp.ByQuery),
		chromedp.Evaluate(measureJS, &res),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("measure: chromedp run failed: %w", err)
	}

	return &Chromium{
		widest:   res.Widest,
		viewport: res.Viewport,
		minWidth: res.MinWidth,
	}, nil
}

func measurePage(labels []string, css string) string {
	var b strings.Builder
	b.WriteString(`<!doctype html><html><head><meta charset="utf-8"><style>`)
	b.WriteString(`body{margin:0}.tl-body{width:100%}.tl-label-inner{display:inline-block;white-space:nowrap}`)
	b.WriteString(css)
	b.WriteString(`</style></head><body><div class="tl-body"><table><tr>`)
	for _, l := range labels {
		b.WriteString(`<td class="tl-slot-col"><span class="tl-label-inner">`)
		b.WriteString(html.EscapeString(l))
		b.WriteString(`</span></td>`)
	}
	b.WriteString(`</tr></table></div></body></html>`)
	return b.String()
}

func dataURL(page string) string {
	return "data:text/html;charset=utf-8," + url.PathEscape(page)
}
