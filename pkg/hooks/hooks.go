// Package hooks registers every livehooks widget under the hook name the
// host markup uses.
package hooks

import (
	"context"

	"github.com/go-drift/livehooks/pkg/audio"
	"github.com/go-drift/livehooks/pkg/charts"
	"github.com/go-drift/livehooks/pkg/charts/cloud"
	"github.com/go-drift/livehooks/pkg/charts/matrix"
	"github.com/go-drift/livehooks/pkg/charts/svgchart"
	"github.com/go-drift/livehooks/pkg/lifecycle"
	"github.com/go-drift/livehooks/pkg/nav"
)

// Options selects the backends the widgets run against. Zero values use
// the in-tree defaults.
type Options struct {
	// Renderers draws chart configs by type. Nil uses DefaultRenderers.
	Renderers charts.Renderer
	// MediaDevices grants microphone access. Nil means no capture hardware:
	// every recording attempt fails the way a refused permission does.
	MediaDevices audio.MediaDevices
	// Recorders encodes granted streams.
	Recorders audio.RecorderFactory
}

// DefaultRenderers returns the in-tree renderers: SVG for line and bar
// charts, a PNG raster for matrices and an SVG word cloud.
func DefaultRenderers() charts.Renderers {
	return charts.Renderers{
		charts.TypeLine:   svgchart.Renderer{},
		charts.TypeBar:    svgchart.Renderer{},
		charts.TypeMatrix: matrix.Renderer{},
		charts.TypeCloud:  cloud.Renderer{},
	}
}

// Register adds every widget to reg.
func Register(reg *lifecycle.Registry, opts Options) {
	renderers := opts.Renderers
	if renderers == nil {
		renderers = DefaultRenderers()
	}
	for _, kind := range charts.Kinds() {
		reg.Register(kind.Hook, charts.Factory(kind, renderers))
	}
	reg.Register(charts.SentimentHook, func() lifecycle.Hook { return charts.Sentiment{} })

	devices, recorders := opts.MediaDevices, opts.Recorders
	if devices == nil || recorders == nil {
		devices, recorders = noDevices{}, nil
	}
	reg.Register(audio.HookName, audio.Factory(devices, recorders))

	reg.Register(nav.HookName, nav.Factory())
}

// NewRegistry returns a registry with every widget registered.
func NewRegistry(opts Options) *lifecycle.Registry {
	reg := lifecycle.NewRegistry()
	Register(reg, opts)
	return reg
}

type noDevices struct{}

func (noDevices) GetUserMedia(context.Context, audio.Constraints) (audio.Stream, error) {
	return nil, audio.ErrNoDevice
}
