// Package matrix rasterizes matrix chart configs (the sentiment heatmap)
// and embeds the image as a PNG data URI.
package matrix

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"io"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/charts"
	"github.com/go-drift/livehooks/pkg/dom"
)

// Cells leave a gap of this many pixels on their right and bottom edges.
const cellGap = 2

// Renderer implements charts.Renderer for matrix configs.
type Renderer struct{}

// New rasterizes cfg and appends an <img> to surface.
func (Renderer) New(surface *html.Node, cfg charts.Config) (charts.Chart, error) {
	if cfg.Type != charts.TypeMatrix {
		return nil, fmt.Errorf("matrix cannot draw %q charts", cfg.Type)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		return nil, err
	}
	img := dom.Element("img",
		"src", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(buf.Bytes()),
		"width", fmt.Sprint(cfg.Width),
		"height", fmt.Sprint(cfg.Height),
		"alt", fmt.Sprintf("%d×%d heatmap", len(cfg.Rows), len(cfg.Columns)),
	)
	surface.AppendChild(img)
	return &Chart{img: img}, nil
}

// Chart is a mounted heatmap image.
type Chart struct {
	img *html.Node
}

// Destroy removes the image.
func (c *Chart) Destroy() {
	dom.Remove(c.img)
}

// Encode draws cfg and writes it as PNG. Cells are laid out on a grid of
// len(Columns) by len(Rows); each shows its fill and its text.
func Encode(w io.Writer, cfg charts.Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", cfg.Width, cfg.Height)
	}
	dc := gg.NewContext(cfg.Width, cfg.Height)
	dc.SetColor(color.White)
	dc.Clear()

	if len(cfg.Rows) > 0 && len(cfg.Columns) > 0 {
		cw := float64(cfg.Width) / float64(len(cfg.Columns))
		ch := float64(cfg.Height) / float64(len(cfg.Rows))
		dc.SetFontFace(basicfont.Face7x13)
		for _, c := range cfg.Cells {
			if c.Row < 0 || c.Row >= len(cfg.Rows) || c.Col < 0 || c.Col >= len(cfg.Columns) {
				return fmt.Errorf("cell (%d,%d) outside %dx%d grid", c.Row, c.Col, len(cfg.Rows), len(cfg.Columns))
			}
			x, y := float64(c.Col)*cw, float64(c.Row)*ch
			dc.SetColor(c.Fill)
			dc.DrawRectangle(x, y, cw-cellGap, ch-cellGap)
			dc.Fill()

			dc.SetColor(color.Black)
			dc.DrawString(c.Text, x+5, y+20)
		}
	}
	return dc.EncodePNG(w)
}
