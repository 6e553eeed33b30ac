package charts

import (
	"fmt"
	"math"

	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/dataset"
	"github.com/go-drift/livehooks/pkg/dom"
)

// Series colors.
const (
	blueLine   = "rgb(59, 130, 246)"
	blueFill   = "rgba(59, 130, 246, 0.1)"
	redLine    = "rgb(239, 68, 68)"
	redFill    = "rgba(239, 68, 68, 0.1)"
	greenLine  = "rgb(34, 197, 94)"
	greenFill  = "rgba(34, 197, 94, 0.1)"
	violetLine = "rgb(139, 92, 246)"
	violetFill = "rgba(139, 92, 246, 0.1)"
	amberLine  = "rgb(234, 179, 8)"
	amberFill  = "rgba(234, 179, 8, 0.05)"
	indigoFill = "rgba(99, 102, 241, 0.6)"
	indigoLine = "rgba(99, 102, 241, 0.9)"
	pinkFill   = "rgba(244, 114, 182, 0.7)"
	pinkLine   = "rgba(244, 114, 182, 0.9)"
)

var topLegend = Legend{Display: true, Position: "top"}

// trendRow accepts both the dashboard field names and the generic
// category/score_* shape.
type trendRow struct {
	Date     string `json:"date"`
	Category string `json:"category"`

	AvgSentiment dataset.Number `json:"avg_sentiment"`
	AvgUrgency   dataset.Number `json:"avg_urgency"`
	AvgImpact    dataset.Number `json:"avg_impact"`

	ScoreA dataset.Number `json:"score_a"`
	ScoreB dataset.Number `json:"score_b"`
	ScoreC dataset.Number `json:"score_c"`
}

func (r trendRow) label() string {
	if r.Category != "" {
		return r.Category
	}
	return dateLabel(r.Date)
}

func pick(a, b dataset.Number) float64 {
	if a.Valid {
		return a.Value
	}
	return b.Or(math.NaN())
}

// Trend is the multi-series line chart over categories or dates.
var Trend = Kind{
	Hook:      "TrendChart",
	Attribute: "data-trend",
	Transform: func(n *html.Node, env Env) Plan {
		rows := dataset.Decode[trendRow](n, "data-trend", env.Hook)
		labels := make([]string, len(rows))
		a := make([]float64, len(rows))
		b := make([]float64, len(rows))
		c := make([]float64, len(rows))
		for i, r := range rows {
			labels[i] = r.label()
			a[i] = pick(r.AvgSentiment, r.ScoreA)
			b[i] = pick(r.AvgUrgency, r.ScoreB)
			c[i] = pick(r.AvgImpact, r.ScoreC)
		}

		var sets []Dataset
		for _, s := range []Dataset{
			{Label: "Sentiment", Data: a, BorderColor: blueLine, Background: blueFill, Tension: 0.4},
			{Label: "Urgency", Data: b, BorderColor: redLine, Background: redFill, Tension: 0.4},
			{Label: "Impact", Data: c, BorderColor: greenLine, Background: greenFill, Tension: 0.4},
		} {
			if hasValue(s.Data) {
				sets = append(sets, s)
			}
		}
		return Plan{Config: &Config{
			Type:     TypeLine,
			Labels:   labels,
			Datasets: sets,
			Scales:   map[string]Scale{"y": unitScale(a, b, c)},
			Legend:   topLegend,
		}}
	},
}

type comparisonRow struct {
	EmployeeName string         `json:"employee_name"`
	AvgSentiment dataset.Number `json:"avg_sentiment"`
	AvgUrgency   dataset.Number `json:"avg_urgency"`
	AvgImpact    dataset.Number `json:"avg_impact"`
}

// Comparison is the grouped bar chart of per-participant averages.
var Comparison = Kind{
	Hook:      "ComparisonChart",
	Attribute: "data-comparison",
	Transform: func(n *html.Node, env Env) Plan {
		rows := dataset.Decode[comparisonRow](n, "data-comparison", env.Hook)
		labels := make([]string, len(rows))
		s := make([]float64, len(rows))
		u := make([]float64, len(rows))
		im := make([]float64, len(rows))
		for i, r := range rows {
			labels[i] = r.EmployeeName
			s[i] = r.AvgSentiment.Or(0)
			u[i] = r.AvgUrgency.Or(0)
			im[i] = r.AvgImpact.Or(0)
		}
		return Plan{Config: &Config{
			Type:   TypeBar,
			Labels: labels,
			Datasets: []Dataset{
				{Label: "Avg Sentiment", Data: s, Background: "rgba(59, 130, 246, 0.7)"},
				{Label: "Avg Urgency", Data: u, Background: "rgba(239, 68, 68, 0.7)"},
				{Label: "Avg Impact", Data: im, Background: "rgba(34, 197, 94, 0.7)"},
			},
			Scales: map[string]Scale{"y": unitScale(s, u, im)},
			Legend: topLegend,
		}}
	},
}

type sentimentTrendRow struct {
	Date           string         `json:"date"`
	AvgSentiment   dataset.Number `json:"avg_sentiment"`
	TotalFeedbacks dataset.Number `json:"total_feedbacks"`
}

func sentimentFormat(v float64) string {
	return fmt.Sprintf("%.2f (%s)", v, BandOf(v).Label())
}

func feedbackFormat(v float64) string {
	return fmt.Sprintf("%g фідбеків", v)
}

// SentimentTrend is the dashboard chart pairing sentiment with feedback
// volume on independent axes.
var SentimentTrend = Kind{
	Hook:      "SentimentTrendChart",
	Attribute: "data-sentiment-trend",
	Transform: func(n *html.Node, env Env) Plan {
		rows := dataset.Decode[sentimentTrendRow](n, "data-sentiment-trend", env.Hook)
		if len(rows) == 0 {
			return Plan{Placeholder: placeholder("div",
				"flex items-center justify-center h-full text-gray-500 text-sm font-bold",
				env.Charts.EmptyText)}
		}
		labels := make([]string, len(rows))
		sentiment := make([]float64, len(rows))
		counts := make([]float64, len(rows))
		for i, r := range rows {
			labels[i] = shortDateLabel(r.Date)
			sentiment[i] = r.AvgSentiment.Or(0)
			counts[i] = r.TotalFeedbacks.Or(0)
		}

		y := Bounded(-1, 1)
		y.Position, y.Title = "left", "Тональність"
		y1 := Scale{Min: 0, HasMin: true, Position: "right", Title: "Кількість", StepSize: 1}

		return Plan{Config: &Config{
			Type:   TypeLine,
			Labels: labels,
			Datasets: []Dataset{
				{
					Label: "Тональність", Data: sentiment,
					BorderColor: violetLine, Background: violetFill,
					Fill: true, Tension: 0.4, PointRadius: 5,
					Format: sentimentFormat,
				},
				{
					Label: "Кількість фідбеків", Data: counts, AxisID: "y1",
					BorderColor: amberLine, Background: amberFill,
					Dashed: true, Tension: 0.4, PointRadius: 4,
					Format: feedbackFormat,
				},
			},
			Scales:      map[string]Scale{"y": y, "y1": y1},
			Interaction: Interaction{Mode: "index"},
			Legend:      topLegend,
		}}
	},
}

type volumeRow struct {
	Date         string         `json:"date"`
	Count        dataset.Number `json:"count"`
	AvgSentiment dataset.Number `json:"avg_sentiment"`
}

// VolumeSentiment overlays daily volume bars with a sentiment line.
var VolumeSentiment = Kind{
	Hook:      "VolumeSentimentChart",
	Attribute: "data-volume-sentiment",
	Transform: func(n *html.Node, env Env) Plan {
		rows := dataset.Decode[volumeRow](n, "data-volume-sentiment", env.Hook)
		labels := make([]string, len(rows))
		counts := make([]float64, len(rows))
		sentiment := make([]float64, len(rows))
		for i, r := range rows {
			labels[i] = dateLabel(r.Date)
			counts[i] = r.Count.Or(0)
			sentiment[i] = r.AvgSentiment.Or(0)
		}
		y1 := Bounded(-1, 1)
		y1.Position = "right"
		return Plan{Config: &Config{
			Type:   TypeBar,
			Labels: labels,
			Datasets: []Dataset{
				{
					Type: TypeBar, Label: "Кількість", Data: counts,
					Background: "rgba(16, 185, 129, 0.5)", BorderColor: "rgba(16, 185, 129, 0.9)",
				},
				{
					Type: TypeLine, Label: "Sentiment", Data: sentiment, AxisID: "y1",
					BorderColor: "rgba(59, 130, 246, 0.9)", Background: "rgba(59, 130, 246, 0.15)",
					Fill: true, Tension: 0.35,
				},
			},
			Scales: map[string]Scale{
				"y":  {BeginAtZero: true, Position: "left"},
				"y1": y1,
			},
			Interaction: Interaction{Mode: "index"},
			Legend:      topLegend,
		}}
	},
}

type labelRow struct {
	Label string         `json:"label"`
	Value dataset.Number `json:"value"`
	Color string         `json:"color"`
}

// Distribution is a horizontal bar chart with a color per category.
var Distribution = Kind{
	Hook:      "DistributionChart",
	Attribute: "data-distribution",
	Transform: func(n *html.Node, env Env) Plan {
		rows := dataset.Decode[labelRow](n, "data-distribution", env.Hook)
		title, _ := dom.Attr(n, "data-title")
		labels := make([]string, len(rows))
		values := make([]float64, len(rows))
		colors := make([]string, len(rows))
		for i, r := range rows {
			labels[i] = r.Label
			values[i] = r.Value.Or(0)
			colors[i] = r.Color
			if colors[i] == "" {
				colors[i] = indigoFill
			}
		}
		return Plan{Config: &Config{
			Type:      TypeBar,
			IndexAxis: "y",
			Labels:    labels,
			Datasets: []Dataset{{
				Label: title, Data: values, Colors: colors,
				Background: indigoFill, BorderColor: indigoLine,
			}},
			Scales: map[string]Scale{"x": {BeginAtZero: true}},
			Title:  title,
		}}
	},
}

// TopicBar is a horizontal bar chart of topic mentions.
var TopicBar = Kind{
	Hook:      "TopicBarChart",
	Attribute: "data-topics",
	Transform: func(n *html.Node, env Env) Plan {
		rows := dataset.Decode[labelRow](n, "data-topics", env.Hook)
		labels := make([]string, len(rows))
		values := make([]float64, len(rows))
		for i, r := range rows {
			labels[i] = r.Label
			values[i] = r.Value.Or(0)
		}
		return Plan{Config: &Config{
			Type:      TypeBar,
			IndexAxis: "y",
			Labels:    labels,
			Datasets: []Dataset{{
				Label: "Згадувань", Data: values,
				Background: pinkFill, BorderColor: pinkLine,
			}},
			Scales: map[string]Scale{"x": {BeginAtZero: true}},
		}}
	},
}
