package nav

import (
	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/dom"
)

// portalEntry is a node lifted into the page portal. It remembers where
// the node came from so it can be put back.
type portalEntry struct {
	node   *html.Node
	parent *html.Node
	next   *html.Node
	lifted bool
}

// lift moves n to the end of portal.
func lift(n, portal *html.Node) *portalEntry {
	e := &portalEntry{node: n, parent: n.Parent, next: n.NextSibling}
	dom.Move(n, portal)
	e.lifted = true
	return e
}

// Restore puts the node back at its original position.
// Safe to call more than once (no-op after the first).
func (e *portalEntry) Restore() {
	if e == nil || !e.lifted {
		return
	}
	e.lifted = false
	if e.parent == nil {
		dom.Remove(e.node)
		return
	}
	dom.InsertBefore(e.parent, e.node, e.next)
}
