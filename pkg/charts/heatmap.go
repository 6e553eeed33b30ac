package charts

import (
	"fmt"
	"image/color"
	"math"

	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/dataset"
)

type heatmapRow struct {
	EmployeeName string         `json:"employee_name"`
	Period       string         `json:"period"`
	AvgSentiment dataset.Number `json:"avg_sentiment"`
}

// BandColor returns the heatmap fill for score.
func BandColor(score float64) color.NRGBA {
	switch BandOf(score) {
	case Positive:
		return color.NRGBA{R: 34, G: 197, B: 94, A: alpha(score)}
	case Negative:
		return color.NRGBA{R: 239, G: 68, B: 68, A: alpha(score)}
	default:
		return color.NRGBA{R: 156, G: 163, B: 175, A: 128}
	}
}

func alpha(score float64) uint8 {
	return uint8(math.Round(math.Min(math.Abs(score), 1) * 255))
}

// indexer assigns first-seen positions to distinct strings.
type indexer struct {
	pos   map[string]int
	order []string
}

func (x *indexer) index(s string) int {
	if x.pos == nil {
		x.pos = map[string]int{}
	}
	if i, ok := x.pos[s]; ok {
		return i
	}
	x.pos[s] = len(x.order)
	x.order = append(x.order, s)
	return len(x.order) - 1
}

// Heatmap is the participant by period sentiment matrix.
var Heatmap = Kind{
	Hook:      "HeatmapChart",
	Attribute: "data-heatmap",
	Transform: func(n *html.Node, env Env) Plan {
		rows := dataset.Decode[heatmapRow](n, "data-heatmap", env.Hook)
		var people, periods indexer
		cells := make([]Cell, 0, len(rows))
		for _, r := range rows {
			score := r.AvgSentiment.Or(0)
			cells = append(cells, Cell{
				Row:   people.index(r.EmployeeName),
				Col:   periods.index(isoDate(r.Period)),
				Value: score,
				Fill:  BandColor(score),
				Text:  fmt.Sprintf("%.2f", score),
			})
		}
		return Plan{Config: &Config{
			Type:    TypeMatrix,
			Rows:    people.order,
			Columns: periods.order,
			Cells:   cells,
		}}
	},
}
