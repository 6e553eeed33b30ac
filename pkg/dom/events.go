package dom

import "golang.org/x/net/html"

// Common event types.
const (
	EventClick   = "click"
	EventKeyDown = "keydown"
)

// Event is a DOM event delivered to listeners.
type Event struct {
	// Type is the event type, e.g. "click".
	Type string
	// Key is the key name for keyboard events, e.g. "Escape".
	Key string
	// Target is the node the event was dispatched on.
	Target *html.Node
	// CurrentTarget is the node whose listener is running.
	CurrentTarget *html.Node

	stopped bool
}

// StopPropagation prevents the event from reaching ancestor listeners.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles an event.
type Listener func(e *Event)

type registration struct {
	typ     string
	fn      Listener
	removed bool
}

// AddEventListener registers fn for events of typ on n and returns a
// function that removes the registration. Removing twice is a no-op.
func (d *Document) AddEventListener(n *html.Node, typ string, fn Listener) (remove func()) {
	if n == nil || fn == nil {
		return func() {}
	}
	reg := &registration{typ: typ, fn: fn}
	d.listeners[n] = append(d.listeners[n], reg)
	return func() {
		if reg.removed {
			return
		}
		reg.removed = true
		regs := d.listeners[n]
		for i, r := range regs {
			if r == reg {
				d.listeners[n] = append(regs[:i], regs[i+1:]...)
				break
			}
		}
		if len(d.listeners[n]) == 0 {
			delete(d.listeners, n)
		}
	}
}

// AddDocumentListener registers fn on the document itself. Every dispatched
// event bubbles there last.
func (d *Document) AddDocumentListener(typ string, fn Listener) (remove func()) {
	return d.AddEventListener(d.root, typ, fn)
}

// Dispatch delivers e to target and then bubbles it through the ancestors
// of target up to the document. Nodes outside the document only reach their
// own ancestors.
func (d *Document) Dispatch(target *html.Node, e *Event) {
	if target == nil || e == nil {
		return
	}
	e.Target = target
	for n := target; n != nil && !e.stopped; n = n.Parent {
		regs := append([]*registration(nil), d.listeners[n]...)
		for _, r := range regs {
			if r.removed || r.typ != e.Type {
				continue
			}
			e.CurrentTarget = n
			r.fn(e)
		}
	}
}

// Click dispatches a click event on n.
func (d *Document) Click(n *html.Node) {
	d.Dispatch(n, &Event{Type: EventClick})
}

// KeyDown dispatches a keydown event for key at the document body.
func (d *Document) KeyDown(key string) {
	d.Dispatch(d.body, &Event{Type: EventKeyDown, Key: key})
}

// ListenerCount returns the number of live registrations on n.
func (d *Document) ListenerCount(n *html.Node) int {
	return len(d.listeners[n])
}
