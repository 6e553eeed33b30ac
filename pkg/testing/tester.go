package testing

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/bridge"
	"github.com/go-drift/livehooks/pkg/config"
	"github.com/go-drift/livehooks/pkg/dom"
	"github.com/go-drift/livehooks/pkg/errors"
	"github.com/go-drift/livehooks/pkg/lifecycle"
	"github.com/go-drift/livehooks/pkg/loop"
	"github.com/go-drift/livehooks/pkg/resource"
)

// HookTester drives hooks against an in-memory document without a host.
// It wires a controller to a fake clock, a UI loop owned by the test and
// a bridge whose events are recorded. Errors reported while it is active
// are captured instead of logged.
type HookTester struct {
	registry *lifecycle.Registry
	config   *config.Config
	logger   *log.Logger

	doc      *dom.Document
	loop     *loop.Loop
	clock    *FakeClock
	channel  *bridge.Channel
	events   *bridge.Recorder
	tracker  *resource.Tracker
	ctrl     *lifecycle.Controller
	errs     *ErrorRecorder
	previous errors.ErrorHandler
}

// NewHookTester creates a tester for the hooks in reg.
// Call Cleanup() when done, or use NewHookTesterWithT() instead.
func NewHookTester(reg *lifecycle.Registry) *HookTester {
	t := &HookTester{
		registry: reg,
		config:   config.Default(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		loop:     loop.New(),
		clock:    NewFakeClock(),
		channel:  bridge.NewChannel(),
		events:   &bridge.Recorder{},
		tracker:  resource.NewTracker(),
		errs:     &ErrorRecorder{},
		previous: errors.DefaultHandler,
	}
	t.channel.Listen(t.events.Record)
	errors.SetHandler(t.errs)
	return t
}

// NewHookTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewHookTesterWithT(t *testing.T, reg *lifecycle.Registry) *HookTester {
	tester := NewHookTester(reg)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup detaches every hook, stops the loop and restores the global
// error handler.
func (t *HookTester) Cleanup() {
	if t.ctrl != nil {
		t.ctrl.Close()
		t.ctrl = nil
	}
	t.loop.Settle()
	t.loop.Close()
	t.channel.Close()
	errors.SetHandler(t.previous)
}

// SetConfig replaces the configuration. Must be called before Mount.
func (t *HookTester) SetConfig(cfg *config.Config) {
	t.config = cfg
}

// SetLogger replaces the discarding logger. Must be called before Mount.
func (t *HookTester) SetLogger(l *log.Logger) {
	t.logger = l
}

// Mount parses markup as the page and attaches every hook node. A
// previously mounted page is detached first.
func (t *HookTester) Mount(markup string) error {
	doc, err := dom.ParseString(markup)
	if err != nil {
		return err
	}
	if t.ctrl != nil {
		t.ctrl.Close()
	}
	t.doc = doc
	t.ctrl = lifecycle.NewController(lifecycle.Options{
		Doc:      doc,
		Registry: t.registry,
		Config:   t.config,
		Bridge:   t.channel,
		Loop:     t.loop,
		Clock:    t.clock,
		Logger:   t.logger,
		Tracker:  t.tracker,
	})
	t.ctrl.Sync()
	t.Pump()
	return nil
}

// MustMount is Mount that panics on a parse error.
func (t *HookTester) MustMount(markup string) {
	if err := t.Mount(markup); err != nil {
		panic(err)
	}
}

// Node returns the first element matching sel. Panics if none.
func (t *HookTester) Node(sel string) *html.Node {
	n := dom.Query(t.doc.Root(), sel)
	if n == nil {
		panic(fmt.Sprintf("no element matches %q", sel))
	}
	return n
}

// Sync reconciles hooks with the current markup.
func (t *HookTester) Sync() {
	t.ctrl.Sync()
	t.Pump()
}

// Attach attaches the hook on the node matching sel.
func (t *HookTester) Attach(sel string) *lifecycle.Instance {
	inst := t.ctrl.Attach(t.Node(sel))
	t.Pump()
	return inst
}

// Update notifies the hook on the node matching sel.
func (t *HookTester) Update(sel string) bool {
	ok := t.ctrl.Update(t.Node(sel))
	t.Pump()
	return ok
}

// Detach detaches the hook on the node matching sel.
func (t *HookTester) Detach(sel string) bool {
	ok := t.ctrl.Detach(t.Node(sel))
	t.Pump()
	return ok
}

// SetAttr changes an attribute on the node matching sel and updates its
// hook, the way a server patch would.
func (t *HookTester) SetAttr(sel, key, val string) {
	n := t.Node(sel)
	dom.SetAttr(n, key, val)
	t.ctrl.Update(n)
	t.Pump()
}

// Remove takes the node matching sel out of the page and syncs, so its
// hook and any hooks below it are detached.
func (t *HookTester) Remove(sel string) {
	dom.Remove(t.Node(sel))
	t.Sync()
}

// Click dispatches a click at the node matching sel.
func (t *HookTester) Click(sel string) {
	t.doc.Click(t.Node(sel))
	t.Pump()
}

// KeyDown dispatches a keydown for key.
func (t *HookTester) KeyDown(key string) {
	t.doc.KeyDown(key)
	t.Pump()
}

// Pump runs queued loop callbacks and returns how many ran.
func (t *HookTester) Pump() int {
	return t.loop.Drain()
}

// Settle waits for background work and runs every continuation.
func (t *HookTester) Settle() {
	t.loop.Settle()
}

// Advance moves the fake clock forward and pumps the loop.
func (t *HookTester) Advance(d time.Duration) {
	t.clock.Advance(d)
	t.Pump()
}

// Find evaluates a finder against the current document.
func (t *HookTester) Find(finder Finder) FinderResult {
	if t.doc == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{nodes: finder.Evaluate(t.doc.Root()), finder: finder}
}

// Document returns the mounted document.
func (t *HookTester) Document() *dom.Document { return t.doc }

// Controller returns the controller of the mounted document.
func (t *HookTester) Controller() *lifecycle.Controller { return t.ctrl }

// Clock returns the fake clock.
func (t *HookTester) Clock() *FakeClock { return t.clock }

// Loop returns the UI loop.
func (t *HookTester) Loop() *loop.Loop { return t.loop }

// Tracker returns the live-resource tracker.
func (t *HookTester) Tracker() *resource.Tracker { return t.tracker }

// Events returns the recorder of outbound events.
func (t *HookTester) Events() *bridge.Recorder { return t.events }

// Errors returns the recorder of reported errors.
func (t *HookTester) Errors() *ErrorRecorder { return t.errs }

// Alerts returns the user-visible messages shown so far.
func (t *HookTester) Alerts() []string {
	if t.doc == nil {
		return nil
	}
	return t.doc.Alerts()
}

// Config returns the configuration hooks see.
func (t *HookTester) Config() *config.Config { return t.config }
