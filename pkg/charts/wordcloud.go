package charts

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/dataset"
)

// WordEntry is one [token, frequency] pair.
type WordEntry struct {
	Text  string
	Count float64
}

// UnmarshalJSON decodes the two-element array form.
func (w *WordEntry) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*w = WordEntry{}
		return nil
	}
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) < 2 {
		return fmt.Errorf("word entry has %d elements, want 2", len(pair))
	}
	var text string
	if err := json.Unmarshal(pair[0], &text); err != nil {
		return fmt.Errorf("word entry token: %w", err)
	}
	var count dataset.Number
	if err := count.UnmarshalJSON(pair[1]); err != nil {
		return err
	}
	*w = WordEntry{Text: text, Count: count.Or(0)}
	return nil
}

// TopWords returns at most limit entries ordered by descending frequency,
// ties kept in input order, sized between minFont and minFont+span
// relative to the most frequent token.
func TopWords(entries []WordEntry, limit int, minFont, span float64) []Word {
	kept := make([]WordEntry, 0, len(entries))
	for _, e := range entries {
		if e.Text != "" {
			kept = append(kept, e)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Count > kept[j].Count })
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	var max float64
	for _, e := range kept {
		if e.Count > max {
			max = e.Count
		}
	}
	words := make([]Word, len(kept))
	for i, e := range kept {
		size := minFont
		if max > 0 {
			size += e.Count / max * span
		}
		words[i] = Word{Text: e.Text, Count: e.Count, Size: size, Color: wordColor(e.Text)}
	}
	return words
}

// WordCloud lays out the most frequent tokens.
var WordCloud = Kind{
	Hook:      "WordCloud",
	Attribute: "data-words",
	Transform: func(n *html.Node, env Env) Plan {
		entries := dataset.Decode[WordEntry](n, "data-words", env.Hook)
		words := TopWords(entries, env.Charts.CloudLimit, env.Charts.CloudMinFont, env.Charts.CloudFontSpan)
		if len(words) == 0 {
			return Plan{Placeholder: placeholder("p",
				"text-gray-500 text-center py-8",
				env.Charts.CloudEmptyText)}
		}
		return Plan{Config: &Config{
			Type:       TypeCloud,
			Words:      words,
			Padding:    5,
			Background: "#f9fafb",
		}}
	},
}
