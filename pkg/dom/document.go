package dom

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PortalSelector identifies the page-level portal container.
const PortalSelector = "[data-portal]"

// Document is a parsed page plus the page-level state widgets share:
// event listeners, the scroll lock, page markers and the portal container.
//
// A Document is confined to the UI loop; none of its methods are safe for
// concurrent use except Portal, which is init-once.
type Document struct {
	root *html.Node
	body *html.Node

	listeners map[*html.Node][]*registration

	scrollOwners map[any]struct{}
	markerOwners map[string]map[any]struct{}
	savedOverflow string

	portal     *html.Node
	portalOnce sync.Once

	alert  func(msg string)
	alerts []string
}

// Parse reads an HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return newDocument(root), nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// NewDocument returns an empty page.
func NewDocument() *Document {
	doc, _ := ParseString("<!DOCTYPE html><html><head></head><body></body></html>")
	return doc
}

func newDocument(root *html.Node) *Document {
	d := &Document{
		root:         root,
		listeners:    map[*html.Node][]*registration{},
		scrollOwners: map[any]struct{}{},
		markerOwners: map[string]map[any]struct{}{},
	}
	d.body = findBody(root)
	if d.body == nil {
		d.body = Element("body")
		root.AppendChild(d.body)
	}
	return d
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the body element.
func (d *Document) Body() *html.Node { return d.body }

// Contains reports whether n is attached to this document.
func (d *Document) Contains(n *html.Node) bool {
	return n != nil && Contains(d.root, n)
}

// Render writes the page markup to w.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the page markup.
func (d *Document) String() string {
	return OuterHTML(d.root)
}

// Portal returns the page-level portal container, creating it on first use.
// Markup that already contains a [data-portal] element is reused. The
// container ignores pointer events so it never intercepts clicks over the
// page; children opt back in individually. It is never removed or reset.
func (d *Document) Portal() *html.Node {
	d.portalOnce.Do(func() {
		if existing := Query(d.root, PortalSelector); existing != nil {
			d.portal = existing
			AddClass(d.portal, "pointer-events-none")
			return
		}
		d.portal = Element("div",
			"data-portal", "",
			"class", "pointer-events-none fixed inset-0 z-50",
		)
		d.body.AppendChild(d.portal)
	})
	return d.portal
}

// LockScroll suppresses page scrolling on behalf of owner. Locking twice
// with the same owner counts once.
func (d *Document) LockScroll(owner any) {
	if len(d.scrollOwners) == 0 {
		d.savedOverflow = Style(d.body, "overflow")
	}
	d.scrollOwners[owner] = struct{}{}
	SetStyle(d.body, "overflow", "hidden")
}

// UnlockScroll releases owner's lock. Scrolling is restored once no owner
// holds a lock. Unlocking without a lock is a no-op.
func (d *Document) UnlockScroll(owner any) {
	if _, ok := d.scrollOwners[owner]; !ok {
		return
	}
	delete(d.scrollOwners, owner)
	if len(d.scrollOwners) == 0 {
		SetStyle(d.body, "overflow", d.savedOverflow)
		d.savedOverflow = ""
	}
}

// ScrollLocked reports whether any owner holds the scroll lock.
func (d *Document) ScrollLocked() bool {
	return len(d.scrollOwners) > 0
}

// SetMarker sets the page marker attribute data-<name> on the body on
// behalf of owner. Setting twice with the same owner counts once.
func (d *Document) SetMarker(name string, owner any) {
	owners := d.markerOwners[name]
	if owners == nil {
		owners = map[any]struct{}{}
		d.markerOwners[name] = owners
	}
	owners[owner] = struct{}{}
	SetAttr(d.body, "data-"+name, "")
}

// ClearMarker releases owner's claim on data-<name>. The attribute is
// removed once no owner holds it. Clearing without a claim is a no-op.
func (d *Document) ClearMarker(name string, owner any) {
	owners := d.markerOwners[name]
	if _, ok := owners[owner]; !ok {
		return
	}
	delete(owners, owner)
	if len(owners) == 0 {
		delete(d.markerOwners, name)
		RemoveAttr(d.body, "data-"+name)
	}
}

// HasMarker reports whether page marker data-<name> is set.
func (d *Document) HasMarker(name string) bool {
	return HasAttr(d.body, "data-"+name)
}

// SetAlertFunc replaces the user-visible alert sink. Nil restores the
// default, which records messages for Alerts.
func (d *Document) SetAlertFunc(fn func(msg string)) {
	d.alert = fn
}

// Alert surfaces msg to the user.
func (d *Document) Alert(msg string) {
	if d.alert != nil {
		d.alert(msg)
		return
	}
	d.alerts = append(d.alerts, msg)
}

// Alerts returns the messages recorded by the default alert sink.
func (d *Document) Alerts() []string {
	return append([]string(nil), d.alerts...)
}
