// Package nav implements the slide-in mobile navigation overlay.
//
// The menu panel and its backdrop are lifted into the page portal on
// attach so fixed positioning is never clipped by the host layout. The
// widget owns the page scroll lock and the menu-open marker while the
// menu is visible.
package nav

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/dom"
	hookerrors "github.com/go-drift/livehooks/pkg/errors"
	"github.com/go-drift/livehooks/pkg/lifecycle"
	"github.com/go-drift/livehooks/pkg/loop"
)

// HookName is the host hook name of the navigation widget.
const HookName = "MobileNav"

// Role selectors inside the hook node.
const (
	TriggerSelector  = "[data-burger]"
	PanelSelector    = "[data-mobile-menu]"
	BackdropSelector = "[data-backdrop]"
	LinkSelector     = "[data-mobile-link]"
)

// MenuOpenMarker is the page marker set while the menu is open.
const MenuOpenMarker = "menu-open"

// ErrMissingRole is reported when the panel or the backdrop is absent.
var ErrMissingRole = errors.New("nav: required element missing")

// Glyph line styles of each trigger while open. A trigger's three <span>
// lines morph into an X.
var openGlyph = [3][2]string{
	{"transform", "rotate(45deg) translateY(8px)"},
	{"opacity", "0"},
	{"transform", "rotate(-45deg) translateY(-8px)"},
}

// MobileNav toggles an off-canvas menu.
type MobileNav struct {
	ctx *lifecycle.Context

	triggers []*html.Node
	panel    *html.Node
	backdrop *html.Node
	entries  []*portalEntry

	open    bool
	pending loop.Timer
	removes []func()
}

// New returns an unattached navigation widget.
func New() *MobileNav {
	return &MobileNav{}
}

// Factory returns a lifecycle factory for MobileNav.
func Factory() lifecycle.Factory {
	return func() lifecycle.Hook { return New() }
}

// IsOpen reports whether the menu is open.
func (m *MobileNav) IsOpen() bool { return m.open }

// Attach implements lifecycle.Hook.
func (m *MobileNav) Attach(ctx *lifecycle.Context) {
	m.ctx = ctx
	m.triggers = dom.QueryAll(ctx.Node, TriggerSelector)
	m.panel = dom.Query(ctx.Node, PanelSelector)
	m.backdrop = dom.Query(ctx.Node, BackdropSelector)
	links := dom.QueryAll(ctx.Node, LinkSelector)

	for _, trigger := range m.triggers {
		m.listen(trigger, dom.EventClick, func(*dom.Event) { m.Toggle() })
	}

	var missing []string
	if m.panel == nil {
		missing = append(missing, PanelSelector)
	}
	if m.backdrop == nil {
		missing = append(missing, BackdropSelector)
	}
	if len(missing) > 0 {
		m.panel, m.backdrop = nil, nil
		hookerrors.Report(&hookerrors.HookError{
			Op:   "nav.attach",
			Kind: hookerrors.KindStructure,
			Hook: ctx.Hook,
			Err:  fmt.Errorf("%w: %v", ErrMissingRole, missing),
		})
		return
	}

	m.listen(m.backdrop, dom.EventClick, func(*dom.Event) { m.Close() })
	for _, link := range links {
		m.listen(link, dom.EventClick, func(*dom.Event) { m.Close() })
	}
	m.removes = append(m.removes, ctx.Doc.AddDocumentListener(dom.EventKeyDown, func(e *dom.Event) {
		if e.Key == "Escape" && m.open {
			m.Close()
		}
	}))

	portal := ctx.Doc.Portal()
	dom.AddClass(m.panel, "pointer-events-auto")
	m.entries = []*portalEntry{lift(m.backdrop, portal), lift(m.panel, portal)}
}

func (m *MobileNav) listen(n *html.Node, typ string, fn dom.Listener) {
	m.removes = append(m.removes, m.ctx.Doc.AddEventListener(n, typ, fn))
}

// Update implements lifecycle.Hook. The lifted nodes are owned by the
// widget until detach.
func (m *MobileNav) Update(*lifecycle.Context) {}

// Detach implements lifecycle.Hook.
func (m *MobileNav) Detach(ctx *lifecycle.Context) {
	m.cancelPending()
	for _, remove := range m.removes {
		remove()
	}
	m.removes = nil
	for i := len(m.entries) - 1; i >= 0; i-- {
		m.entries[i].Restore()
	}
	m.entries = nil
	m.open = false
	ctx.Doc.UnlockScroll(m)
	ctx.Doc.ClearMarker(MenuOpenMarker, m)
}

// Toggle opens a closed menu and closes an open one.
func (m *MobileNav) Toggle() {
	if m.open {
		m.Close()
	} else {
		m.Open()
	}
}

// Open shows the menu. An inert widget ignores it.
func (m *MobileNav) Open() {
	if m.panel == nil {
		return
	}
	m.open = true
	m.cancelPending()

	dom.RemoveClass(m.panel, "translate-x-full")
	dom.AddClass(m.panel, "translate-x-0")
	dom.RemoveClass(m.backdrop, "opacity-0", "pointer-events-none")
	dom.AddClass(m.backdrop, "opacity-100", "pointer-events-auto")
	m.ctx.Doc.LockScroll(m)
	m.ctx.Doc.SetMarker(MenuOpenMarker, m)

	for _, lines := range m.glyphs() {
		for i, line := range lines {
			dom.SetStyle(line, openGlyph[i][0], openGlyph[i][1])
		}
	}
}

// Close hides an open menu. The scroll lock, marker and glyph follow once
// the close transition has run. Closing a closed menu does nothing, even
// while its transition is still running.
func (m *MobileNav) Close() {
	if m.panel == nil || !m.open {
		return
	}
	m.open = false

	dom.RemoveClass(m.panel, "translate-x-0")
	dom.AddClass(m.panel, "translate-x-full")
	dom.RemoveClass(m.backdrop, "opacity-100", "pointer-events-auto")
	dom.AddClass(m.backdrop, "opacity-0", "pointer-events-none")

	m.cancelPending()
	var t loop.Timer
	t = m.ctx.Clock.AfterFunc(m.ctx.Config.Nav.CloseTransitionDuration(), func() {
		if m.pending != t || m.ctx.Detached() {
			return
		}
		m.pending = nil
		m.settleClosed()
	})
	m.pending = t
}

func (m *MobileNav) settleClosed() {
	m.ctx.Doc.UnlockScroll(m)
	m.ctx.Doc.ClearMarker(MenuOpenMarker, m)
	for _, lines := range m.glyphs() {
		dom.SetStyle(lines[0], "transform", "")
		dom.SetStyle(lines[1], "opacity", "1")
		dom.SetStyle(lines[2], "transform", "")
	}
}

func (m *MobileNav) cancelPending() {
	if m.pending != nil {
		m.pending.Stop()
		m.pending = nil
	}
}

// glyphs returns the three lines of every trigger drawn that way.
func (m *MobileNav) glyphs() [][]*html.Node {
	var out [][]*html.Node
	for _, trigger := range m.triggers {
		if lines := dom.QueryAll(trigger, "span"); len(lines) == 3 {
			out = append(out, lines)
		}
	}
	return out
}
