package charts

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Band is the qualitative reading of a sentiment score.
type Band int

const (
	Neutral Band = iota
	Positive
	Negative
)

// BandThreshold separates neutral scores from positive and negative ones.
const BandThreshold = 0.3

// BandOf classifies score. Scores at the threshold count as polar.
func BandOf(score float64) Band {
	switch {
	case score >= BandThreshold:
		return Positive
	case score <= -BandThreshold:
		return Negative
	default:
		return Neutral
	}
}

// Label returns the Ukrainian adjective shown in tooltips.
func (b Band) Label() string {
	switch b {
	case Positive:
		return "позитивна"
	case Negative:
		return "негативна"
	default:
		return "нейтральна"
	}
}

// present returns the non-NaN values of every series.
func present(series ...[]float64) []float64 {
	var out []float64
	for _, s := range series {
		for _, v := range s {
			if !math.IsNaN(v) {
				out = append(out, v)
			}
		}
	}
	return out
}

// hasValue reports whether s has at least one non-NaN value.
func hasValue(s []float64) bool {
	for _, v := range s {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

// unitScale returns [0,1] widened to include every present value.
func unitScale(series ...[]float64) Scale {
	s := Bounded(0, 1)
	s.BeginAtZero = true
	vals := present(series...)
	if len(vals) == 0 {
		return s
	}
	if lo := floats.Min(vals); lo < s.Min {
		s.Min = lo
	}
	if hi := floats.Max(vals); hi > s.Max {
		s.Max = hi
	}
	return s
}

// Extent returns the bounds of s over data. Unset bounds come from the
// data; BeginAtZero pins the lower bound at or below zero. An empty or
// flat range is widened to one unit so callers can always divide by it.
func Extent(s Scale, data ...[]float64) (lo, hi float64) {
	vals := present(data...)
	if len(vals) > 0 {
		lo, hi = floats.Min(vals), floats.Max(vals)
	}
	if s.BeginAtZero && lo > 0 {
		lo = 0
	}
	if s.HasMin {
		lo = s.Min
	}
	if s.HasMax {
		hi = s.Max
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

var ukMonths = [...]string{
	"січ.", "лют.", "бер.", "квіт.", "трав.", "черв.",
	"лип.", "серп.", "вер.", "жовт.", "лист.", "груд.",
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateLabel renders a date in the Ukrainian numeric form (02.01.2006).
// Unparseable input is returned as is.
func dateLabel(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return t.Format("02.01.2006")
}

// shortDateLabel renders day and abbreviated Ukrainian month ("05 бер.").
func shortDateLabel(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return fmt.Sprintf("%02d %s", t.Day(), ukMonths[t.Month()-1])
}

// isoDate normalises a period to YYYY-MM-DD when parseable.
func isoDate(s string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02")
}

// wordColor derives a stable hue from the token.
func wordColor(token string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", h.Sum32()%360)
}
