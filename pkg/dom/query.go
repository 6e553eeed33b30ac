package dom

import (
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	selectorCache   = map[string]cascadia.Selector{}
	selectorCacheMu sync.Mutex
)

func compile(sel string) cascadia.Selector {
	selectorCacheMu.Lock()
	defer selectorCacheMu.Unlock()
	if s, ok := selectorCache[sel]; ok {
		return s
	}
	s, err := cascadia.Compile(sel)
	if err != nil {
		// An invalid selector matches nothing.
		s = func(*html.Node) bool { return false }
	}
	selectorCache[sel] = s
	return s
}

// Query returns the first descendant of n matching sel, or nil.
// n itself is never matched.
func Query(n *html.Node, sel string) *html.Node {
	if n == nil {
		return nil
	}
	return cascadia.Query(n, compile(sel))
}

// QueryAll returns every descendant of n matching sel in document order.
func QueryAll(n *html.Node, sel string) []*html.Node {
	if n == nil {
		return nil
	}
	return cascadia.QueryAll(n, compile(sel))
}

// Matches reports whether n itself matches sel.
func Matches(n *html.Node, sel string) bool {
	return n != nil && compile(sel).Match(n)
}
