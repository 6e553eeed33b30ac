package testing

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/dom"
)

// Finder locates elements in the document.
type Finder interface {
	// Evaluate returns all matching elements under root in document order.
	Evaluate(root *html.Node) []*html.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*html.Node
	finder Finder
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *html.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no elements: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *html.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *html.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in document order.
func (r FinderResult) All() []*html.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Text returns the text of the first match. Panics if no matches.
func (r FinderResult) Text() string {
	return dom.TextContent(r.First())
}

// Attr returns an attribute of the first match. Panics if no matches.
func (r FinderResult) Attr(key string) string {
	v, _ := dom.Attr(r.First(), key)
	return v
}

// HasClass reports whether the first match has cls. Panics if no matches.
func (r FinderResult) HasClass(cls string) bool {
	return dom.HasClass(r.First(), cls)
}

// --- Concrete finders ---

func selection(root *html.Node, sel string) *goquery.Selection {
	return goquery.NewDocumentFromNode(root).Find(sel)
}

// selectorFinder matches elements by CSS selector.
type selectorFinder struct {
	sel string
}

func (f *selectorFinder) Evaluate(root *html.Node) []*html.Node {
	return selection(root, f.sel).Nodes
}

func (f *selectorFinder) Description() string {
	return fmt.Sprintf("BySelector(%q)", f.sel)
}

// BySelector returns a finder that matches elements by CSS selector.
func BySelector(sel string) Finder {
	return &selectorFinder{sel: sel}
}

// ByAttr returns a finder that matches elements whose attribute key equals
// val.
func ByAttr(key, val string) Finder {
	return &selectorFinder{sel: fmt.Sprintf("[%s=%q]", key, val)}
}

// textFinder matches the innermost elements whose trimmed text satisfies
// a predicate.
type textFinder struct {
	match func(string) bool
	desc  string
}

func (f *textFinder) Evaluate(root *html.Node) []*html.Node {
	return selection(root, "*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		if !f.match(strings.TrimSpace(s.Text())) {
			return false
		}
		// Leave the match to a child that satisfies it on its own.
		return s.Children().FilterFunction(func(_ int, c *goquery.Selection) bool {
			return f.match(strings.TrimSpace(c.Text()))
		}).Length() == 0
	}).Nodes
}

func (f *textFinder) Description() string {
	return f.desc
}

// ByText returns a finder that matches elements with exact trimmed text.
func ByText(text string) Finder {
	return &textFinder{
		match: func(s string) bool { return s == text },
		desc:  fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches elements whose text
// contains substring.
func ByTextContaining(substring string) Finder {
	return &textFinder{
		match: func(s string) bool { return strings.Contains(s, substring) },
		desc:  fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// descendantFinder finds elements matching 'matching' that are descendants
// of elements matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *html.Node) []*html.Node {
	var results []*html.Node
	seen := make(map[*html.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, match := range f.matching.Evaluate(ancestor) {
			if match != ancestor && !seen[match] {
				seen[match] = true
				results = append(results, match)
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches elements satisfying 'matching'
// that are descendants of elements matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}
