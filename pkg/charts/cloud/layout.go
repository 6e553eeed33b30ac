// Package cloud places word cloud entries without overlap and draws them
// as SVG text.
package cloud

import (
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/go-drift/livehooks/pkg/charts"
)

const (
	spiralStep  = 0.1
	maxSpiral   = 20000
	faceHeight  = 13
	fallbackPad = 5
)

// Placed is a word positioned relative to the cloud center.
type Placed struct {
	charts.Word
	// X and Y locate the center of the word's box.
	X, Y float64
	// W and H are the measured box size.
	W, H float64
}

type box struct {
	x0, y0, x1, y1 float64
}

func (a box) overlaps(b box) bool {
	return a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1
}

// Measure returns the box of text set at size pixels.
func Measure(text string, size float64) (w, h float64) {
	adv := font.MeasureString(basicfont.Face7x13, text)
	scale := size / faceHeight
	return float64(adv) / 64 * scale, size
}

// Layout places words in order along an Archimedean spiral from the
// center of a width by height area. Each word takes the first spiral
// position where its padded box stays inside the area and clears every
// word placed before it. Words that fit nowhere are dropped. The result
// depends only on the input.
func Layout(words []charts.Word, width, height int, padding float64) []Placed {
	if padding < 0 {
		padding = fallbackPad
	}
	half := box{-float64(width) / 2, -float64(height) / 2, float64(width) / 2, float64(height) / 2}
	aspect := float64(width) / math.Max(float64(height), 1)

	var placed []Placed
	var taken []box
	for _, word := range words {
		w, h := Measure(word.Text, word.Size)
		for i := 0; i < maxSpiral; i++ {
			t := float64(i) * spiralStep
			x := aspect * t * math.Cos(t)
			y := t * math.Sin(t)
			b := box{x - w/2 - padding, y - h/2 - padding, x + w/2 + padding, y + h/2 + padding}
			if b.x0 < half.x0 || b.y0 < half.y0 || b.x1 > half.x1 || b.y1 > half.y1 {
				if t*math.Min(aspect, 1) > math.Hypot(half.x1, half.y1) {
					break
				}
				continue
			}
			if collides(b, taken) {
				continue
			}
			taken = append(taken, b)
			placed = append(placed, Placed{Word: word, X: x, Y: y, W: w, H: h})
			break
		}
	}
	return placed
}

func collides(b box, taken []box) bool {
	for _, o := range taken {
		if b.overlaps(o) {
			return true
		}
	}
	return false
}
