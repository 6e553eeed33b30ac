// Package lifecycle drives widgets through the host's attach, update and
// detach notifications.
//
// The Controller is the only caller of widget entry points. It owns one
// Instance per DOM node, keyed by node identity, and enforces the host's
// ordering guarantees: Attach comes first, Update only between Attach and
// Detach, and nothing after Detach.
package lifecycle

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/bridge"
	"github.com/go-drift/livehooks/pkg/config"
	"github.com/go-drift/livehooks/pkg/dom"
	"github.com/go-drift/livehooks/pkg/loop"
	"github.com/go-drift/livehooks/pkg/resource"
)

// Hook is a widget bound to one DOM node.
type Hook interface {
	// Attach runs once when the node enters the page.
	Attach(ctx *Context)
	// Update runs when the server refreshed the node's markup or data.
	Update(ctx *Context)
	// Detach runs once when the node leaves the page. It must release every
	// resource the widget holds.
	Detach(ctx *Context)
}

// Factory creates a fresh widget for one node.
type Factory func() Hook

// Context is the environment passed to every widget call.
type Context struct {
	// ID uniquely identifies the instance for logs and outbound events.
	ID string
	// Hook is the host hook name the node declared.
	Hook string
	// Node is the element the widget is bound to.
	Node *html.Node

	Doc     *dom.Document
	Pusher  bridge.Pusher
	Loop    loop.Dispatcher
	Clock   loop.Clock
	Config  *config.Config
	Logger  *log.Logger
	Tracker *resource.Tracker

	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns a context canceled when the instance detaches. Blocking
// work started by the widget should use it.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Detached reports whether the instance has been detached.
func (c *Context) Detached() bool {
	return c.ctx.Err() != nil
}

// Registry maps host hook names to widget factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register binds name to factory. Registering a name twice panics.
func (r *Registry) Register(name string, factory Factory) {
	if factory == nil {
		panic("lifecycle: nil factory for " + name)
	}
	if _, dup := r.factories[name]; dup {
		panic("lifecycle: hook registered twice: " + name)
	}
	r.factories[name] = factory
}

// Lookup returns the factory for name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered hook names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
