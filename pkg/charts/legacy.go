package charts

import (
	"github.com/goccy/go-json"

	"github.com/go-drift/livehooks/pkg/dataset"
	"github.com/go-drift/livehooks/pkg/lifecycle"
)

// SentimentHook is the hook name of the legacy sentiment widget.
const SentimentHook = "SentimentChart"

// Sentiment is the legacy widget kept for pages that still declare it. It
// decodes its dataset and logs the row count; it draws nothing and owns
// no resource.
type Sentiment struct{}

func (Sentiment) inspect(ctx *lifecycle.Context) {
	rows := dataset.Decode[json.RawMessage](ctx.Node, "data-chart-data", ctx.Hook)
	ctx.Logger.Info("sentiment chart data", "rows", len(rows))
}

// Attach implements lifecycle.Hook.
func (s Sentiment) Attach(ctx *lifecycle.Context) { s.inspect(ctx) }

// Update implements lifecycle.Hook.
func (s Sentiment) Update(ctx *lifecycle.Context) { s.inspect(ctx) }

// Detach implements lifecycle.Hook.
func (Sentiment) Detach(*lifecycle.Context) {}

// Kinds returns every rendering chart kind.
func Kinds() []Kind {
	return []Kind{Heatmap, Trend, SentimentTrend, Comparison, VolumeSentiment, Distribution, TopicBar, WordCloud}
}
