package cloud

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/charts"
	"github.com/go-drift/livehooks/pkg/charts/svgchart"
)

// Renderer implements charts.Renderer for cloud configs.
type Renderer struct{}

// New lays out cfg.Words and mounts the SVG in surface.
func (Renderer) New(surface *html.Node, cfg charts.Config) (charts.Chart, error) {
	if cfg.Type != charts.TypeCloud {
		return nil, fmt.Errorf("cloud cannot draw %q charts", cfg.Type)
	}
	var buf bytes.Buffer
	if err := Draw(&buf, cfg); err != nil {
		return nil, err
	}
	return svgchart.Mount(surface, buf.Bytes())
}

// Draw writes the laid out cloud as an SVG document.
func Draw(w io.Writer, cfg charts.Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", cfg.Width, cfg.Height)
	}
	canvas := svg.New(w)
	canvas.Start(cfg.Width, cfg.Height)
	if cfg.Background != "" {
		canvas.Rect(0, 0, cfg.Width, cfg.Height, "fill:"+cfg.Background)
	}
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", cfg.Width/2, cfg.Height/2))
	for _, p := range Layout(cfg.Words, cfg.Width, cfg.Height, cfg.Padding) {
		// Baseline sits a third of the box below its center.
		x := int(math.Round(p.X))
		y := int(math.Round(p.Y + p.H/3))
		canvas.Text(x, y, p.Text, fmt.Sprintf(
			"font-size:%dpx;font-family:sans-serif;text-anchor:middle;fill:%s",
			int(math.Round(p.Size)), p.Color))
	}
	canvas.Gend()
	canvas.End()
	return nil
}
