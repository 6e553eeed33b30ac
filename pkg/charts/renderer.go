package charts

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"
)

// ErrUnknownRenderer is returned when no renderer handles a chart type.
var ErrUnknownRenderer = errors.New("charts: no renderer for chart type")

// Chart is a live chart drawn into a surface.
type Chart interface {
	// Destroy frees the chart and removes its output from the surface.
	Destroy()
}

// Renderer turns a Config into a Chart inside surface.
type Renderer interface {
	New(surface *html.Node, cfg Config) (Chart, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(surface *html.Node, cfg Config) (Chart, error)

// New implements Renderer.
func (f RendererFunc) New(surface *html.Node, cfg Config) (Chart, error) {
	return f(surface, cfg)
}

// Renderers maps chart types to renderers.
type Renderers map[string]Renderer

// New dispatches on cfg.Type.
func (r Renderers) New(surface *html.Node, cfg Config) (Chart, error) {
	renderer, ok := r[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRenderer, cfg.Type)
	}
	return renderer.New(surface, cfg)
}
