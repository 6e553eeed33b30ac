// Package svgchart draws line and bar chart configs as inline SVG.
package svgchart

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/charts"
	"github.com/go-drift/livehooks/pkg/dom"
)

const (
	marginTop    = 36
	marginBottom = 40
	marginSide   = 52
	marginInner  = 16
	tickCount    = 5

	colorAxis  = "#94a3b8"
	colorGrid  = "rgba(148, 163, 184, 0.15)"
	colorText  = "#374151"
	colorFocus = "rgba(0, 0, 0, 0)"
	fontStyle  = "font-family:system-ui,sans-serif;font-size:11px"
)

// Renderer implements charts.Renderer for line and bar configs.
type Renderer struct{}

// New draws cfg into surface.
func (Renderer) New(surface *html.Node, cfg charts.Config) (charts.Chart, error) {
	var buf bytes.Buffer
	if err := Draw(&buf, cfg); err != nil {
		return nil, err
	}
	return mount(surface, buf.Bytes())
}

// Chart is an SVG fragment mounted in a surface.
type Chart struct {
	nodes []*html.Node
}

// Destroy removes the fragment from its surface.
func (c *Chart) Destroy() {
	for _, n := range c.nodes {
		dom.Remove(n)
	}
	c.nodes = nil
}

// mount parses SVG output and appends it to surface. The XML prolog is
// dropped since the fragment is embedded in HTML.
func mount(surface *html.Node, out []byte) (*Chart, error) {
	if i := bytes.Index(out, []byte("<svg")); i > 0 {
		out = out[i:]
	}
	nodes, err := dom.ParseFragment(surface, string(out))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	for _, n := range nodes {
		surface.AppendChild(n)
	}
	return &Chart{nodes: nodes}, nil
}

// Mount is mount for renderers in sibling packages that also emit SVG.
func Mount(surface *html.Node, out []byte) (charts.Chart, error) {
	return mount(surface, out)
}

// plot is the resolved geometry of one chart.
type plot struct {
	cfg              charts.Config
	left, top, w, h  int
	axes             map[string][2]float64
	horizontal       bool
	bars, lines      []int
	slot             float64
	indexInteraction bool
}

// Draw writes cfg as a standalone SVG document.
func Draw(w io.Writer, cfg charts.Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Type != charts.TypeLine && cfg.Type != charts.TypeBar {
		return fmt.Errorf("svgchart cannot draw %q charts", cfg.Type)
	}
	for _, d := range cfg.Datasets {
		if len(d.Data) != len(cfg.Labels) {
			return fmt.Errorf("dataset %q has %d values for %d labels", d.Label, len(d.Data), len(cfg.Labels))
		}
	}

	p := layout(cfg)
	canvas := svg.New(w)
	canvas.Start(cfg.Width, cfg.Height)
	p.drawHeader(canvas)
	p.drawAxes(canvas)
	for _, i := range p.bars {
		p.drawBars(canvas, i)
	}
	for _, i := range p.lines {
		p.drawLine(canvas, i)
	}
	if p.indexInteraction {
		p.drawIndexTooltips(canvas)
	}
	canvas.End()
	return nil
}

func layout(cfg charts.Config) *plot {
	p := &plot{
		cfg:              cfg,
		horizontal:       cfg.IndexAxis == "y",
		axes:             map[string][2]float64{},
		indexInteraction: cfg.Interaction.Mode == "index" && !cfg.Interaction.Intersect,
	}
	right := marginInner
	if _, ok := cfg.Scales["y1"]; ok && !p.horizontal {
		right = marginSide
	}
	left := marginSide
	if p.horizontal {
		left = 2 * marginSide
	}
	p.left, p.top = left, marginTop
	p.w = max(cfg.Width-left-right, 1)
	p.h = max(cfg.Height-marginTop-marginBottom, 1)

	byAxis := map[string][][]float64{}
	for i, d := range cfg.Datasets {
		axis := d.Axis()
		if p.horizontal {
			axis = "x"
		}
		byAxis[axis] = append(byAxis[axis], d.Data)
		if datasetType(cfg, d) == charts.TypeBar {
			p.bars = append(p.bars, i)
		} else {
			p.lines = append(p.lines, i)
		}
	}
	for axis, data := range byAxis {
		scale := cfg.Scales[axis]
		if datasetsAreBars(cfg, axis, p.horizontal) && !scale.HasMin {
			scale.BeginAtZero = true
		}
		lo, hi := charts.Extent(scale, data...)
		p.axes[axis] = [2]float64{lo, hi}
	}
	if _, ok := p.axes[p.valueAxis("y")]; !ok {
		lo, hi := charts.Extent(cfg.Scales[p.valueAxis("y")])
		p.axes[p.valueAxis("y")] = [2]float64{lo, hi}
	}

	n := len(cfg.Labels)
	if n == 0 {
		n = 1
	}
	if p.horizontal {
		p.slot = float64(p.h) / float64(n)
	} else {
		p.slot = float64(p.w) / float64(n)
	}
	return p
}

func datasetType(cfg charts.Config, d charts.Dataset) string {
	if d.Type != "" {
		return d.Type
	}
	return cfg.Type
}

func datasetsAreBars(cfg charts.Config, axis string, horizontal bool) bool {
	for _, d := range cfg.Datasets {
		if (horizontal || d.Axis() == axis) && datasetType(cfg, d) == charts.TypeBar {
			return true
		}
	}
	return false
}

func (p *plot) valueAxis(id string) string {
	if p.horizontal {
		return "x"
	}
	return id
}

// pos maps v on axis to a pixel offset along the value direction.
func (p *plot) pos(axis string, v float64) int {
	b := p.axes[p.valueAxis(axis)]
	t := (v - b[0]) / (b[1] - b[0])
	if p.horizontal {
		return p.left + int(math.Round(t*float64(p.w)))
	}
	return p.top + p.h - int(math.Round(t*float64(p.h)))
}

// center returns the pixel center of category i.
func (p *plot) center(i int) int {
	if p.horizontal {
		return p.top + int(math.Round((float64(i)+0.5)*p.slot))
	}
	return p.left + int(math.Round((float64(i)+0.5)*p.slot))
}

func (p *plot) drawHeader(canvas *svg.SVG) {
	if p.cfg.Title != "" && !p.cfg.Legend.Display {
		canvas.Text(p.cfg.Width/2, 20, p.cfg.Title, fontStyle+";font-weight:bold;text-anchor:middle;fill:"+colorText)
	}
	if !p.cfg.Legend.Display {
		return
	}
	x := p.left
	for _, d := range p.cfg.Datasets {
		canvas.Rect(x, 10, 12, 12, "fill:"+swatch(d))
		canvas.Text(x+16, 20, d.Label, fontStyle+";font-weight:bold;fill:"+colorText)
		x += 16 + 7*len([]rune(d.Label)) + 16
	}
}

func swatch(d charts.Dataset) string {
	if d.BorderColor != "" {
		return d.BorderColor
	}
	if d.Background != "" {
		return d.Background
	}
	return colorAxis
}

func (p *plot) drawAxes(canvas *svg.SVG) {
	bottom, right := p.top+p.h, p.left+p.w
	canvas.Line(p.left, bottom, right, bottom, "stroke:"+colorAxis)

	for _, axis := range []string{"y", "y1", "x"} {
		b, ok := p.axes[axis]
		if !ok {
			continue
		}
		scale := p.cfg.Scales[axis]
		for k := 0; k < tickCount; k++ {
			v := b[0] + float64(k)*(b[1]-b[0])/float64(tickCount-1)
			label := tickLabel(v, scale)
			at := p.pos(axis, v)
			switch {
			case p.horizontal:
				canvas.Line(at, p.top, at, bottom, "stroke:"+colorGrid)
				canvas.Text(at, bottom+14, label, fontStyle+";text-anchor:middle;fill:"+colorText)
			case axis == "y1":
				canvas.Text(right+6, at+4, label, fontStyle+";fill:"+colorText)
			default:
				canvas.Line(p.left, at, right, at, "stroke:"+colorGrid)
				canvas.Text(p.left-6, at+4, label, fontStyle+";text-anchor:end;fill:"+colorText)
			}
		}
		if scale.Title != "" {
			x, anchor := p.left, "start"
			if axis == "y1" {
				x, anchor = right, "end"
			}
			canvas.Text(x, p.top-6, scale.Title, fontStyle+";font-weight:bold;text-anchor:"+anchor+";fill:"+colorText)
		}
	}

	for i, label := range p.cfg.Labels {
		c := p.center(i)
		if p.horizontal {
			canvas.Text(p.left-6, c+4, label, fontStyle+";text-anchor:end;fill:"+colorText)
		} else {
			canvas.Text(c, bottom+16, label, fontStyle+";text-anchor:middle;fill:"+colorText)
		}
	}
}

func tickLabel(v float64, s charts.Scale) string {
	if s.StepSize > 0 {
		return strconv.FormatFloat(math.Round(v/s.StepSize)*s.StepSize, 'f', -1, 64)
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func format(d charts.Dataset, v float64) string {
	if d.Format != nil {
		return d.Format(v)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (p *plot) barFill(d charts.Dataset, i int) string {
	if i < len(d.Colors) && d.Colors[i] != "" {
		return d.Colors[i]
	}
	if d.Background != "" {
		return d.Background
	}
	return colorAxis
}

func (p *plot) drawBars(canvas *svg.SVG, index int) {
	d := p.cfg.Datasets[index]
	slotInBars := 0
	for j, b := range p.bars {
		if b == index {
			slotInBars = j
		}
	}
	thickness := p.slot * 0.8 / float64(len(p.bars))
	base := p.pos(d.Axis(), clamp(0, p.axes[p.valueAxis(d.Axis())]))

	for i, v := range d.Data {
		if math.IsNaN(v) {
			continue
		}
		offset := int(math.Round(float64(i)*p.slot + p.slot*0.1 + float64(slotInBars)*thickness))
		size := max(int(math.Round(thickness)), 1)
		at := p.pos(d.Axis(), v)
		style := "fill:" + p.barFill(d, i)
		if d.BorderColor != "" {
			style += ";stroke:" + d.BorderColor + ";stroke-width:1"
		}
		if !p.indexInteraction {
			canvas.Group()
			canvas.Title(p.cfg.Labels[i] + ": " + d.Label + " " + format(d, v))
		}
		if p.horizontal {
			x, w := span(base, at)
			canvas.Rect(x, p.top+offset, w, size, style)
		} else {
			y, h := span(base, at)
			canvas.Rect(p.left+offset, y, size, h, style)
		}
		if !p.indexInteraction {
			canvas.Gend()
		}
	}
}

func span(a, b int) (start, length int) {
	if a > b {
		a, b = b, a
	}
	return a, b - a
}

func clamp(v float64, b [2]float64) float64 {
	return math.Max(b[0], math.Min(b[1], v))
}

func (p *plot) drawLine(canvas *svg.SVG, index int) {
	d := p.cfg.Datasets[index]
	stroke := "fill:none;stroke-width:2;stroke:" + swatch(d)
	if d.Dashed {
		stroke += ";stroke-dasharray:5,5"
	}
	base := p.pos(d.Axis(), clamp(0, p.axes[p.valueAxis(d.Axis())]))

	for _, seg := range segments(d.Data) {
		xs := make([]int, 0, len(seg))
		ys := make([]int, 0, len(seg))
		for _, i := range seg {
			xs = append(xs, p.center(i))
			ys = append(ys, p.pos(d.Axis(), d.Data[i]))
		}
		if d.Fill && d.Background != "" && len(seg) > 1 {
			px := append([]int{xs[0]}, xs...)
			px = append(px, xs[len(xs)-1])
			py := append([]int{base}, ys...)
			py = append(py, base)
			canvas.Polygon(px, py, "stroke:none;fill:"+d.Background)
		}
		canvas.Polyline(xs, ys, stroke)
	}

	radius := d.PointRadius
	if radius <= 0 {
		radius = 3
	}
	for i, v := range d.Data {
		if math.IsNaN(v) {
			continue
		}
		if !p.indexInteraction {
			canvas.Group()
			canvas.Title(p.cfg.Labels[i] + ": " + d.Label + " " + format(d, v))
		}
		canvas.Circle(p.center(i), p.pos(d.Axis(), v), radius, "stroke:#fff;stroke-width:2;fill:"+swatch(d))
		if !p.indexInteraction {
			canvas.Gend()
		}
	}
}

// segments splits indices of data into runs without gaps.
func segments(data []float64) [][]int {
	var out [][]int
	var cur []int
	for i, v := range data {
		if math.IsNaN(v) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, i)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// drawIndexTooltips covers each category with a transparent target whose
// title lists every series at that category, so hovering any axis shows
// all of them together.
func (p *plot) drawIndexTooltips(canvas *svg.SVG) {
	slot := int(math.Round(p.slot))
	for i, label := range p.cfg.Labels {
		lines := []string{label}
		for _, d := range p.cfg.Datasets {
			if v := d.Data[i]; !math.IsNaN(v) {
				lines = append(lines, d.Label+": "+format(d, v))
			}
		}
		canvas.Group()
		canvas.Title(strings.Join(lines, "\n"))
		start := int(math.Round(float64(i) * p.slot))
		if p.horizontal {
			canvas.Rect(p.left, p.top+start, p.w, slot, "fill:"+colorFocus)
		} else {
			canvas.Rect(p.left+start, p.top, slot, p.h, "fill:"+colorFocus)
		}
		canvas.Gend()
	}
}
