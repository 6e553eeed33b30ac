package nav

import (
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/dom"
	"github.com/go-drift/livehooks/pkg/errors"
	"github.com/go-drift/livehooks/pkg/lifecycle"
	hooktest "github.com/go-drift/livehooks/pkg/testing"
)

const navPage = `<header>
<nav id="nav" phx-hook="MobileNav">
  <button data-burger><span></span><span></span><span></span></button>
  <div data-backdrop class="fixed inset-0 opacity-0 pointer-events-none"></div>
  <aside data-mobile-menu class="fixed translate-x-full">
    <a data-mobile-link href="/a">A</a>
    <a data-mobile-link href="/b">B</a>
  </aside>
</nav>
</header>`

func mount(t *testing.T, markup string) *hooktest.HookTester {
	reg := lifecycle.NewRegistry()
	reg.Register(HookName, Factory())
	tester := hooktest.NewHookTesterWithT(t, reg)
	tester.MustMount(markup)
	return tester
}

func widget(t *testing.T, tester *hooktest.HookTester, sel string) *MobileNav {
	inst := tester.Controller().Instance(tester.Node(sel))
	if inst == nil {
		t.Fatalf("no instance on %s", sel)
	}
	return inst.Hook().(*MobileNav)
}

func glyph(tester *hooktest.HookTester) []*html.Node {
	return tester.Find(hooktest.BySelector("[data-burger] span")).All()
}

func TestAttachLiftsIntoPortal(t *testing.T) {
	tester := mount(t, navPage)

	inPortal := func(sel string) bool {
		return tester.Find(hooktest.Descendant(
			hooktest.BySelector("[data-portal]"),
			hooktest.BySelector(sel),
		)).Exists()
	}
	if !inPortal(PanelSelector) || !inPortal(BackdropSelector) {
		t.Fatal("expected panel and backdrop in the portal")
	}
	if dom.Query(tester.Node("#nav"), PanelSelector) != nil {
		t.Error("panel still inside the nav")
	}
	if !tester.Find(hooktest.BySelector("[data-portal]")).HasClass("pointer-events-none") {
		t.Error("portal should ignore pointer events")
	}
}

func TestOpen(t *testing.T) {
	tester := mount(t, navPage)
	doc := tester.Document()

	tester.Click("[data-burger]")

	panel := tester.Find(hooktest.BySelector(PanelSelector))
	if !panel.HasClass("translate-x-0") || panel.HasClass("translate-x-full") {
		t.Errorf("panel classes: %q", panel.Attr("class"))
	}
	backdrop := tester.Find(hooktest.BySelector(BackdropSelector))
	if !backdrop.HasClass("opacity-100") || backdrop.HasClass("pointer-events-none") {
		t.Errorf("backdrop classes: %q", backdrop.Attr("class"))
	}
	if !doc.ScrollLocked() {
		t.Error("expected scroll locked")
	}
	if !doc.HasMarker(MenuOpenMarker) {
		t.Error("expected menu-open marker")
	}
	lines := glyph(tester)
	if got := dom.Style(lines[0], "transform"); got != "rotate(45deg) translateY(8px)" {
		t.Errorf("line 0 transform = %q", got)
	}
	if got := dom.Style(lines[1], "opacity"); got != "0" {
		t.Errorf("line 1 opacity = %q", got)
	}
	if got := dom.Style(lines[2], "transform"); got != "rotate(-45deg) translateY(-8px)" {
		t.Errorf("line 2 transform = %q", got)
	}
}

func TestCloseDefersPageState(t *testing.T) {
	tester := mount(t, navPage)
	doc := tester.Document()
	tester.Click("[data-burger]")

	tester.Click("[data-burger]")

	if widget(t, tester, "#nav").IsOpen() {
		t.Fatal("expected closed")
	}
	if !tester.Find(hooktest.BySelector(PanelSelector)).HasClass("translate-x-full") {
		t.Error("panel should hide immediately")
	}
	if !tester.Find(hooktest.BySelector(BackdropSelector)).HasClass("pointer-events-none") {
		t.Error("backdrop should stop intercepting clicks immediately")
	}

	tester.Advance(299 * time.Millisecond)
	if !doc.ScrollLocked() || !doc.HasMarker(MenuOpenMarker) {
		t.Fatal("page state released before the transition ended")
	}

	tester.Advance(time.Millisecond)
	if doc.ScrollLocked() {
		t.Error("expected scroll unlocked")
	}
	if doc.HasMarker(MenuOpenMarker) {
		t.Error("expected marker removed")
	}
	lines := glyph(tester)
	if dom.Style(lines[0], "transform") != "" || dom.Style(lines[1], "opacity") != "1" {
		t.Error("expected glyph reset")
	}
}

func TestCloseWhenClosedIsNoop(t *testing.T) {
	tester := mount(t, navPage)
	before := tester.CaptureSnapshot("body")

	widget(t, tester, "#nav").Close()

	if tester.Clock().Pending() != 0 {
		t.Error("close on a closed menu scheduled a timer")
	}
	if diff := tester.CaptureSnapshot("body").Diff(before); diff != "" {
		t.Errorf("close on a closed menu changed the page:\n%s", diff)
	}
}

func TestDetachWithinCloseWindow(t *testing.T) {
	tester := mount(t, navPage)
	doc := tester.Document()
	nav := tester.Node("#nav")

	tester.Click("[data-burger]")
	tester.Click("[data-burger]")
	tester.Advance(100 * time.Millisecond)
	tester.Remove("#nav")

	if doc.ScrollLocked() {
		t.Error("expected scroll unlocked after detach")
	}
	if doc.HasMarker(MenuOpenMarker) {
		t.Error("expected marker removed after detach")
	}
	if tester.Clock().Pending() != 0 {
		t.Errorf("expected timer canceled, %d pending", tester.Clock().Pending())
	}

	var tags []string
	for _, c := range dom.Children(nav) {
		tags = append(tags, c.Data)
	}
	want := []string{"button", "div", "aside"}
	if len(tags) != len(want) {
		t.Fatalf("children after restore = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Fatalf("children after restore = %v, want %v", tags, want)
		}
	}
	if !tester.Find(hooktest.BySelector("[data-portal]")).Exists() {
		t.Error("portal should stay")
	}
}

func TestDetachWhileOpen(t *testing.T) {
	tester := mount(t, navPage)
	doc := tester.Document()
	tester.Click("[data-burger]")

	tester.Remove("#nav")

	if doc.ScrollLocked() || doc.HasMarker(MenuOpenMarker) {
		t.Error("expected page state released")
	}
	if n := doc.ListenerCount(doc.Root()); n != 0 {
		t.Errorf("expected document keydown listener removed, %d left", n)
	}
}

func TestDismissal(t *testing.T) {
	tests := []struct {
		name    string
		dismiss func(*hooktest.HookTester)
	}{
		{"escape", func(h *hooktest.HookTester) { h.KeyDown("Escape") }},
		{"backdrop", func(h *hooktest.HookTester) { h.Click(BackdropSelector) }},
		{"link", func(h *hooktest.HookTester) { h.Click(`[href="/b"]`) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := mount(t, navPage)
			tester.Click("[data-burger]")

			tt.dismiss(tester)

			if widget(t, tester, "#nav").IsOpen() {
				t.Error("expected closed")
			}
		})
	}
}

func TestOtherKeysIgnored(t *testing.T) {
	tester := mount(t, navPage)
	tester.Click("[data-burger]")

	tester.KeyDown("Enter")

	if !widget(t, tester, "#nav").IsOpen() {
		t.Error("expected open")
	}
}

func TestEscapeWhenClosedIsNoop(t *testing.T) {
	tester := mount(t, navPage)

	tester.KeyDown("Escape")

	if tester.Clock().Pending() != 0 {
		t.Error("escape on a closed menu scheduled a timer")
	}
}

func TestReopenCancelsPendingClose(t *testing.T) {
	tester := mount(t, navPage)
	doc := tester.Document()
	tester.Click("[data-burger]")
	tester.Click("[data-burger]")
	tester.Advance(100 * time.Millisecond)

	tester.Click("[data-burger]")
	tester.Advance(time.Second)

	if !doc.ScrollLocked() || !doc.HasMarker(MenuOpenMarker) {
		t.Error("stale close released the page state of an open menu")
	}
}

func TestMissingRolesInert(t *testing.T) {
	tester := mount(t, `<nav id="nav" phx-hook="MobileNav">
  <button data-burger><span></span><span></span><span></span></button>
  <aside data-mobile-menu class="translate-x-full"></aside>
</nav>`)

	if got := tester.Errors().Count(errors.KindStructure); got != 1 {
		t.Fatalf("expected 1 structure error, got %d", got)
	}

	tester.Click("[data-burger]")

	if widget(t, tester, "#nav").IsOpen() {
		t.Error("inert widget opened")
	}
	if tester.Document().ScrollLocked() {
		t.Error("inert widget locked scrolling")
	}
	if tester.Find(hooktest.BySelector("[data-portal] " + PanelSelector)).Exists() {
		t.Error("inert widget lifted the panel")
	}
}

func TestInstancesShareThePortal(t *testing.T) {
	tester := mount(t, `<nav id="one" phx-hook="MobileNav">
  <button data-burger></button><div data-backdrop></div><aside data-mobile-menu></aside>
</nav>
<nav id="two" phx-hook="MobileNav">
  <button data-burger></button><div data-backdrop></div><aside data-mobile-menu></aside>
</nav>`)
	doc := tester.Document()

	if got := tester.Find(hooktest.BySelector("[data-portal]")).Count(); got != 1 {
		t.Fatalf("expected one portal, got %d", got)
	}
	if got := tester.Find(hooktest.BySelector("[data-portal] " + PanelSelector)).Count(); got != 2 {
		t.Fatalf("expected both panels in the portal, got %d", got)
	}

	tester.Click("#one [data-burger]")
	tester.Click("#two [data-burger]")
	widget(t, tester, "#one").Close()
	tester.Advance(time.Second)

	if !doc.ScrollLocked() {
		t.Error("closing one menu released the other's scroll lock")
	}
}

func TestEveryTriggerToggles(t *testing.T) {
	tester := mount(t, `<nav id="nav" phx-hook="MobileNav">
  <button id="t1" data-burger><span></span><span></span><span></span></button>
  <button id="t2" data-burger><span></span><span></span><span></span></button>
  <div data-backdrop class="opacity-0 pointer-events-none"></div>
  <aside data-mobile-menu class="translate-x-full"></aside>
</nav>`)
	nav := widget(t, tester, "#nav")

	tester.Click("#t2")
	if !nav.IsOpen() {
		t.Fatal("second trigger did not open the menu")
	}
	for _, sel := range []string{"#t1 span", "#t2 span"} {
		line := tester.Find(hooktest.BySelector(sel)).First()
		if got := dom.Style(line, "transform"); got != "rotate(45deg) translateY(8px)" {
			t.Errorf("%s transform = %q", sel, got)
		}
	}

	tester.Click("#t1")
	if nav.IsOpen() {
		t.Fatal("first trigger did not close the menu")
	}
	tester.Advance(300 * time.Millisecond)
	for _, sel := range []string{"#t1 span", "#t2 span"} {
		line := tester.Find(hooktest.BySelector(sel)).First()
		if got := dom.Style(line, "transform"); got != "" {
			t.Errorf("%s transform after close = %q", sel, got)
		}
	}
}

func TestDetachKeepsOtherInstancePageState(t *testing.T) {
	tester := mount(t, `<nav id="one" phx-hook="MobileNav">
  <button data-burger></button><div data-backdrop></div><aside data-mobile-menu></aside>
</nav>
<nav id="two" phx-hook="MobileNav">
  <button data-burger></button><div data-backdrop></div><aside data-mobile-menu></aside>
</nav>`)
	doc := tester.Document()
	tester.Click("#one [data-burger]")

	tester.Remove("#two")

	if !widget(t, tester, "#one").IsOpen() {
		t.Fatal("expected first menu still open")
	}
	if !doc.ScrollLocked() || !doc.HasMarker(MenuOpenMarker) {
		t.Errorf("page state released while a menu is open: locked=%v marker=%v",
			doc.ScrollLocked(), doc.HasMarker(MenuOpenMarker))
	}

	widget(t, tester, "#one").Close()
	tester.Advance(300 * time.Millisecond)
	if doc.ScrollLocked() || doc.HasMarker(MenuOpenMarker) {
		t.Error("expected page state released after the last menu closed")
	}
}

func TestCloseDuringTransitionKeepsDeadline(t *testing.T) {
	tester := mount(t, navPage)
	doc := tester.Document()
	nav := widget(t, tester, "#nav")
	tester.Click("[data-burger]")
	nav.Close()
	tester.Advance(200 * time.Millisecond)
	before := tester.CaptureSnapshot("body")

	nav.Close()

	if diff := tester.CaptureSnapshot("body").Diff(before); diff != "" {
		t.Errorf("second close changed the page:\n%s", diff)
	}
	tester.Advance(100 * time.Millisecond)
	if doc.ScrollLocked() || doc.HasMarker(MenuOpenMarker) {
		t.Error("page state still held after the first close transition")
	}
	if tester.Clock().Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", tester.Clock().Pending())
	}
}
