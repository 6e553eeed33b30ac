package cloud

import (
	"bytes"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/go-drift/livehooks/pkg/charts"
	"github.com/go-drift/livehooks/pkg/dom"
)

func words(n int) []charts.Word {
	entries := make([]charts.WordEntry, n)
	for i := range entries {
		entries[i] = charts.WordEntry{Text: fmt.Sprintf("word%d", i), Count: float64(n - i)}
	}
	return charts.TopWords(entries, 50, 10, 50)
}

func TestFirstWordAtCenter(t *testing.T) {
	placed := Layout(words(3), 640, 400, 5)
	if len(placed) == 0 {
		t.Fatal("nothing placed")
	}
	if placed[0].X != 0 || placed[0].Y != 0 {
		t.Errorf("first word at (%v,%v), want center", placed[0].X, placed[0].Y)
	}
}

func TestMeasureScalesWithSize(t *testing.T) {
	w1, h1 := Measure("abc", 13)
	w2, h2 := Measure("abc", 26)
	if w1 != 21 || h1 != 13 {
		t.Errorf("Measure(13) = %v x %v, want 21 x 13", w1, h1)
	}
	if w2 != 2*w1 || h2 != 2*h1 {
		t.Errorf("Measure(26) = %v x %v", w2, h2)
	}
}

// Placed boxes never overlap and stay inside the area.
func TestLayoutNoOverlap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 15).Draw(t, "n")
		width := rapid.IntRange(200, 800).Draw(t, "width")
		height := rapid.IntRange(150, 500).Draw(t, "height")
		ws := make([]charts.Word, n)
		for i := range ws {
			ws[i] = charts.Word{
				Text: rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "text"),
				Size: rapid.Float64Range(10, 60).Draw(t, "size"),
			}
		}

		placed := Layout(ws, width, height, 2)
		for i, a := range placed {
			if a.X-a.W/2 < -float64(width)/2 || a.X+a.W/2 > float64(width)/2 ||
				a.Y-a.H/2 < -float64(height)/2 || a.Y+a.H/2 > float64(height)/2 {
				t.Fatalf("%q outside area", a.Text)
			}
			for _, b := range placed[i+1:] {
				if a.X-a.W/2 < b.X+b.W/2 && b.X-b.W/2 < a.X+a.W/2 &&
					a.Y-a.H/2 < b.Y+b.H/2 && b.Y-b.H/2 < a.Y+a.H/2 {
					t.Fatalf("%q overlaps %q", a.Text, b.Text)
				}
			}
		}
	})
}

func TestRendererIsDeterministic(t *testing.T) {
	cfg := charts.Config{Type: charts.TypeCloud, Width: 640, Height: 400, Words: words(20), Padding: 5, Background: "#f9fafb"}

	var a, b bytes.Buffer
	if err := Draw(&a, cfg); err != nil {
		t.Fatal(err)
	}
	if err := Draw(&b, cfg); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("same words should draw the same SVG")
	}

	surface := dom.Element("div")
	chart, err := Renderer{}.New(surface, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(dom.QueryAll(surface, "text")); got == 0 || got > 20 {
		t.Errorf("text nodes = %d", got)
	}
	chart.Destroy()
	if surface.FirstChild != nil {
		t.Error("Destroy should empty the surface")
	}
}

func TestRendererRejectsOtherTypes(t *testing.T) {
	if _, err := (Renderer{}).New(dom.Element("div"), charts.Config{Type: charts.TypeLine, Width: 1, Height: 1}); err == nil {
		t.Error("expected an error")
	}
}
