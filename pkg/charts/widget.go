// Package charts implements the chart widgets.
//
// Every chart kind shares one render cycle: decode the node's dataset,
// release the chart held from the previous render, replace the node's
// children with a fresh surface and hand the kind's declarative Config to
// a Renderer. Nothing is updated in place; a refresh is always a full
// release and recreate. The kinds differ only in how rows become a Config.
package charts

import (
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/config"
	"github.com/go-drift/livehooks/pkg/dom"
	"github.com/go-drift/livehooks/pkg/errors"
	"github.com/go-drift/livehooks/pkg/lifecycle"
	"github.com/go-drift/livehooks/pkg/resource"
)

// ResourceKind is the tracker kind of chart handles.
const ResourceKind = "chart"

// SurfaceAttr marks the element a renderer draws into.
const SurfaceAttr = "data-chart-surface"

// Env is what a transform may read besides the node.
type Env struct {
	Hook   string
	Charts config.ChartsConfig
	Logger *log.Logger
}

// Plan is the result of a transform: either a Config to render or a
// placeholder to show instead.
type Plan struct {
	Config      *Config
	Placeholder *html.Node
}

// Kind describes one chart hook.
type Kind struct {
	// Hook is the host hook name.
	Hook string
	// Attribute is the data attribute holding the rows.
	Attribute string
	// Transform decodes the node and builds the plan.
	Transform func(n *html.Node, env Env) Plan
}

// Widget is the lifecycle hook shared by every chart kind.
type Widget struct {
	kind     Kind
	renderer Renderer
	chart    resource.Slot[Chart]
}

// NewWidget returns a widget for kind drawing through renderer.
func NewWidget(kind Kind, renderer Renderer) *Widget {
	return &Widget{kind: kind, renderer: renderer}
}

// Factory returns a lifecycle factory for kind.
func Factory(kind Kind, renderer Renderer) lifecycle.Factory {
	return func() lifecycle.Hook { return NewWidget(kind, renderer) }
}

// Attach implements lifecycle.Hook.
func (w *Widget) Attach(ctx *lifecycle.Context) { w.render(ctx) }

// Update implements lifecycle.Hook.
func (w *Widget) Update(ctx *lifecycle.Context) { w.render(ctx) }

// Detach implements lifecycle.Hook.
func (w *Widget) Detach(ctx *lifecycle.Context) { w.chart.Release() }

// Live reports whether the widget holds a chart.
func (w *Widget) Live() bool { return w.chart.Live() }

func (w *Widget) render(ctx *lifecycle.Context) {
	plan := w.kind.Transform(ctx.Node, Env{
		Hook:   ctx.Hook,
		Charts: ctx.Config.Charts,
		Logger: ctx.Logger,
	})

	w.chart.Release()

	if plan.Config == nil {
		if plan.Placeholder != nil {
			dom.ReplaceChildren(ctx.Node, plan.Placeholder)
		} else {
			dom.RemoveChildren(ctx.Node)
		}
		return
	}

	cfg := *plan.Config
	if cfg.Width <= 0 {
		cfg.Width = ctx.Config.Charts.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = ctx.Config.Charts.Height
	}

	surface := dom.Element("div", SurfaceAttr, "")
	dom.ReplaceChildren(ctx.Node, surface)

	chart, err := w.renderer.New(surface, cfg)
	if err != nil {
		dom.RemoveChildren(surface)
		errors.Report(&errors.HookError{
			Op:   "charts.render",
			Kind: errors.KindRender,
			Hook: ctx.Hook,
			Err:  fmt.Errorf("%s chart: %w", cfg.Type, err),
		})
		return
	}
	w.chart.Set(resource.New(ResourceKind, chart, Chart.Destroy, ctx.Tracker))
}

// placeholder builds the empty-state element used by charts that show a
// message instead of an empty plot.
func placeholder(tag, class, text string) *html.Node {
	n := dom.Element(tag, "class", class)
	n.AppendChild(dom.Text(text))
	return n
}
