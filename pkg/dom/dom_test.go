package dom

import (
	"strings"
	"testing"
)

const page = `<!DOCTYPE html><html><body style="color: red">
<div id="nav" phx-hook="MobileNav">
  <button data-burger><span></span><span></span><span></span></button>
  <aside data-mobile-menu class="translate-x-full"><a data-mobile-link href="/a">A</a></aside>
  <div data-backdrop class="opacity-0 pointer-events-none"></div>
</div>
<div id="chart" data-trend='[{"category":"Q1"}]'></div>
</body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	return doc
}

func TestAttributes(t *testing.T) {
	doc := mustParse(t)
	chart := Query(doc.Root(), "#chart")
	if chart == nil {
		t.Fatal("chart node not found")
	}
	if v, ok := Attr(chart, "data-trend"); !ok || !strings.Contains(v, "Q1") {
		t.Errorf("data-trend = %q, %v", v, ok)
	}
	SetAttr(chart, "data-trend", "[]")
	if v, _ := Attr(chart, "data-trend"); v != "[]" {
		t.Errorf("after SetAttr data-trend = %q", v)
	}
	RemoveAttr(chart, "data-trend")
	if HasAttr(chart, "data-trend") {
		t.Error("attribute should be removed")
	}
}

func TestClassList(t *testing.T) {
	n := Element("div", "class", "a b")
	AddClass(n, "b", "c")
	if got, _ := Attr(n, "class"); got != "a b c" {
		t.Errorf("class = %q, want %q", got, "a b c")
	}
	RemoveClass(n, "a", "c")
	if got, _ := Attr(n, "class"); got != "b" {
		t.Errorf("class = %q, want %q", got, "b")
	}
	if !HasClass(n, "b") || HasClass(n, "a") {
		t.Error("HasClass mismatch")
	}
}

func TestStyle(t *testing.T) {
	n := Element("span")
	SetStyle(n, "transform", "rotate(45deg)")
	SetStyle(n, "opacity", "0")
	if got := Style(n, "transform"); got != "rotate(45deg)" {
		t.Errorf("transform = %q", got)
	}
	SetStyle(n, "transform", "")
	if got, _ := Attr(n, "style"); got != "opacity: 0" {
		t.Errorf("style = %q, want %q", got, "opacity: 0")
	}
	SetStyle(n, "opacity", "")
	if HasAttr(n, "style") {
		t.Error("empty style attribute should be removed")
	}
}

func TestQueryExcludesSelf(t *testing.T) {
	doc := mustParse(t)
	nav := Query(doc.Root(), "[phx-hook]")
	if nav == nil {
		t.Fatal("hook node not found")
	}
	if got := Query(nav, "[phx-hook]"); got != nil {
		t.Error("Query should not match the node itself")
	}
	if !Matches(nav, "#nav") {
		t.Error("Matches should match the node itself")
	}
	if spans := QueryAll(nav, "[data-burger] span"); len(spans) != 3 {
		t.Errorf("got %d spans, want 3", len(spans))
	}
	if got := Query(nav, "[[invalid"); got != nil {
		t.Error("invalid selector should match nothing")
	}
}

func TestEventBubbling(t *testing.T) {
	doc := mustParse(t)
	burger := Query(doc.Root(), "[data-burger]")
	span := Query(burger, "span")

	var order []string
	doc.AddEventListener(burger, EventClick, func(e *Event) { order = append(order, "burger") })
	removeDoc := doc.AddDocumentListener(EventClick, func(e *Event) {
		order = append(order, "document")
		if e.Target != span {
			t.Error("target should be the span")
		}
	})

	doc.Click(span)
	if strings.Join(order, ",") != "burger,document" {
		t.Errorf("order = %v", order)
	}

	removeDoc()
	removeDoc()
	order = nil
	doc.Click(span)
	if strings.Join(order, ",") != "burger" {
		t.Errorf("after removal order = %v", order)
	}
}

func TestStopPropagation(t *testing.T) {
	doc := mustParse(t)
	burger := Query(doc.Root(), "[data-burger]")
	reached := false
	doc.AddEventListener(burger, EventClick, func(e *Event) { e.StopPropagation() })
	doc.AddDocumentListener(EventClick, func(e *Event) { reached = true })
	doc.Click(burger)
	if reached {
		t.Error("stopped event should not reach the document")
	}
}

func TestKeyDownReachesDocument(t *testing.T) {
	doc := mustParse(t)
	var key string
	doc.AddDocumentListener(EventKeyDown, func(e *Event) { key = e.Key })
	doc.KeyDown("Escape")
	if key != "Escape" {
		t.Errorf("key = %q, want Escape", key)
	}
}

func TestPortalIsSingleton(t *testing.T) {
	doc := mustParse(t)
	p1 := doc.Portal()
	p2 := doc.Portal()
	if p1 != p2 {
		t.Fatal("Portal should return the same node")
	}
	if !HasClass(p1, "pointer-events-none") {
		t.Error("portal should ignore pointer events")
	}
	if got := QueryAll(doc.Root(), PortalSelector); len(got) != 1 {
		t.Errorf("got %d portals, want 1", len(got))
	}
}

func TestPortalReusesMarkup(t *testing.T) {
	doc, err := ParseString(`<html><body><div id="p" data-portal></div></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := Attr(doc.Portal(), "id"); got != "p" {
		t.Errorf("portal id = %q, want existing node", got)
	}
}

func TestScrollLockCounting(t *testing.T) {
	doc := mustParse(t)
	a, b := new(int), new(int)

	doc.LockScroll(a)
	doc.LockScroll(a)
	doc.LockScroll(b)
	if Style(doc.Body(), "overflow") != "hidden" {
		t.Fatal("body should not scroll while locked")
	}
	doc.UnlockScroll(a)
	if !doc.ScrollLocked() {
		t.Error("b still holds the lock")
	}
	doc.UnlockScroll(b)
	doc.UnlockScroll(b)
	if doc.ScrollLocked() || Style(doc.Body(), "overflow") != "" {
		t.Error("scroll should be restored")
	}
	if Style(doc.Body(), "color") != "red" {
		t.Error("unrelated body styles must survive")
	}
}

func TestMarkersAndAlerts(t *testing.T) {
	doc := NewDocument()
	a, b := new(int), new(int)
	doc.SetMarker("menu-open", a)
	doc.SetMarker("menu-open", b)
	if !doc.HasMarker("menu-open") {
		t.Error("marker should be set")
	}
	doc.ClearMarker("menu-open", a)
	doc.ClearMarker("menu-open", a)
	if !doc.HasMarker("menu-open") {
		t.Error("marker cleared while another owner holds it")
	}
	doc.ClearMarker("menu-open", new(int))
	if !doc.HasMarker("menu-open") {
		t.Error("clearing without a claim removed the marker")
	}
	doc.ClearMarker("menu-open", b)
	if doc.HasMarker("menu-open") {
		t.Error("marker should be cleared")
	}

	doc.Alert("denied")
	if got := doc.Alerts(); len(got) != 1 || got[0] != "denied" {
		t.Errorf("alerts = %v", got)
	}
	var custom string
	doc.SetAlertFunc(func(msg string) { custom = msg })
	doc.Alert("x")
	if custom != "x" || len(doc.Alerts()) != 1 {
		t.Error("custom alert sink not used")
	}
}

func TestReplaceChildrenAndMove(t *testing.T) {
	doc := mustParse(t)
	chart := Query(doc.Root(), "#chart")
	ReplaceChildren(chart, Text("one"))
	ReplaceChildren(chart, Element("canvas"))
	if got := InnerHTML(chart); got != "<canvas></canvas>" {
		t.Errorf("inner = %q", got)
	}

	menu := Query(doc.Root(), "[data-mobile-menu]")
	parent, next := menu.Parent, menu.NextSibling
	Move(menu, doc.Portal())
	if menu.Parent != doc.Portal() {
		t.Fatal("menu should be in the portal")
	}
	InsertBefore(parent, menu, next)
	if menu.Parent != parent || menu.NextSibling != next {
		t.Error("menu should be restored to its original position")
	}
}

func TestParseFragment(t *testing.T) {
	nodes, err := ParseFragment(nil, `<svg width="10"><text>hi</text></svg>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 || TextContent(nodes[0]) != "hi" {
		t.Errorf("unexpected fragment %v", nodes)
	}
}
