package charts

import (
	"image/color"
	"math"
)

// Chart types understood by the bundled renderers.
const (
	TypeLine   = "line"
	TypeBar    = "bar"
	TypeMatrix = "matrix"
	TypeCloud  = "cloud"
)

// Config is the declarative description handed to a Renderer. Renderers
// must treat it as read-only.
type Config struct {
	Type   string
	Width  int
	Height int

	// Labels is the shared category axis.
	Labels   []string
	Datasets []Dataset
	// Scales is keyed by axis ID ("x", "y", "y1").
	Scales map[string]Scale
	// IndexAxis is "y" for horizontal bars, otherwise "x".
	IndexAxis   string
	Interaction Interaction
	Legend      Legend
	Title       string

	// Matrix charts.
	Rows    []string
	Columns []string
	Cells   []Cell

	// Word clouds.
	Words      []Word
	Padding    float64
	Background string
}

// Dataset is one named series over Labels.
type Dataset struct {
	Label string
	// Type overrides Config.Type for mixed charts.
	Type string
	// Data holds one value per label; NaN marks a gap.
	Data []float64
	// Colors binds a fill color to each category. Empty uses Background.
	Colors      []string
	BorderColor string
	Background  string
	Fill        bool
	Dashed      bool
	Tension     float64
	PointRadius int
	// AxisID names the value axis, "y" by default.
	AxisID string
	// Format renders a value for tooltips. Nil uses %g.
	Format func(v float64) string
}

// Axis returns the dataset's value axis ID.
func (d Dataset) Axis() string {
	if d.AxisID == "" {
		return "y"
	}
	return d.AxisID
}

// Scale bounds one value axis. Unset bounds are derived from the data.
type Scale struct {
	Min, Max       float64
	HasMin, HasMax bool
	BeginAtZero    bool
	// Position is "left" or "right".
	Position string
	Title    string
	// StepSize forces integer-style ticks when non-zero.
	StepSize float64
}

// Bounded returns a scale fixed to [min, max].
func Bounded(min, max float64) Scale {
	return Scale{Min: min, Max: max, HasMin: true, HasMax: true}
}

// Interaction controls hover behavior. Mode "index" with Intersect false
// shows every series at the hovered category in one tooltip.
type Interaction struct {
	Mode      string
	Intersect bool
}

// Legend controls the series legend.
type Legend struct {
	Display  bool
	Position string
}

// Cell is one matrix cell.
type Cell struct {
	Row, Col int
	Value    float64
	Fill     color.NRGBA
	Text     string
}

// Word is one word cloud entry.
type Word struct {
	Text  string
	Count float64
	Size  float64
	Color string
}

// NaN is the gap marker for Dataset.Data.
var NaN = math.NaN()
