package lifecycle

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/go-drift/livehooks/pkg/bridge"
	"github.com/go-drift/livehooks/pkg/config"
	"github.com/go-drift/livehooks/pkg/dom"
	"github.com/go-drift/livehooks/pkg/errors"
	"github.com/go-drift/livehooks/pkg/loop"
	"github.com/go-drift/livehooks/pkg/resource"
)

type phase int

const (
	phaseAttached phase = iota
	phaseDetached
)

// Instance is the record of one widget bound to one node.
type Instance struct {
	ID   string
	Node *html.Node
	Kind string

	hook  Hook
	ctx   *Context
	phase phase
}

// Hook returns the widget driven by this instance.
func (i *Instance) Hook() Hook { return i.hook }

// Detached reports whether the instance has been detached.
func (i *Instance) Detached() bool { return i.phase == phaseDetached }

// Options configures a Controller. Doc and Registry are required.
type Options struct {
	Doc      *dom.Document
	Registry *Registry
	Config   *config.Config
	Bridge   *bridge.Channel
	Loop     loop.Dispatcher
	Clock    loop.Clock
	Logger   *log.Logger
	Tracker  *resource.Tracker
}

// Controller owns the widget instances of one document.
type Controller struct {
	opts      Options
	instances map[*html.Node]*Instance
	order     []*Instance
}

// NewController returns a controller with defaults filled in for every
// optional field.
func NewController(opts Options) *Controller {
	if opts.Doc == nil || opts.Registry == nil {
		panic("lifecycle: Doc and Registry are required")
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Bridge == nil {
		opts.Bridge = bridge.NewChannel()
	}
	if opts.Loop == nil || opts.Clock == nil {
		l := loop.New()
		if opts.Loop == nil {
			opts.Loop = l
		}
		if opts.Clock == nil {
			opts.Clock = l.Clock()
		}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Tracker == nil {
		opts.Tracker = resource.NewTracker()
	}
	return &Controller{
		opts:      opts,
		instances: map[*html.Node]*Instance{},
	}
}

// Tracker returns the live-resource tracker shared by every instance.
func (c *Controller) Tracker() *resource.Tracker { return c.opts.Tracker }

// Instance returns the live instance bound to n, or nil.
func (c *Controller) Instance(n *html.Node) *Instance {
	return c.instances[n]
}

// Instances returns the live instances in attach order.
func (c *Controller) Instances() []*Instance {
	return append([]*Instance(nil), c.order...)
}

// Attach binds a widget to n using the hook name in n's hook attribute.
// It returns nil when n declares no known hook or is already attached.
func (c *Controller) Attach(n *html.Node) *Instance {
	if n == nil {
		return nil
	}
	if existing := c.instances[n]; existing != nil {
		c.opts.Logger.Debug("attach ignored, node already attached", "hook", existing.Kind, "id", existing.ID)
		return nil
	}
	name, _ := dom.Attr(n, c.opts.Config.Hooks.Attribute)
	factory, ok := c.opts.Registry.Lookup(name)
	if !ok {
		errors.Report(&errors.HookError{
			Op:   "lifecycle.Attach",
			Kind: errors.KindStructure,
			Hook: name,
			Err:  fmt.Errorf("no widget registered for hook %q", name),
		})
		return nil
	}

	id := uuid.NewString()
	goctx, cancel := context.WithCancel(context.Background())
	inst := &Instance{
		ID:   id,
		Node: n,
		Kind: name,
		hook: factory(),
		ctx: &Context{
			ID:      id,
			Hook:    name,
			Node:    n,
			Doc:     c.opts.Doc,
			Pusher:  c.opts.Bridge.Scoped(name, id),
			Loop:    c.opts.Loop,
			Clock:   c.opts.Clock,
			Config:  c.opts.Config,
			Logger:  c.opts.Logger.With("hook", name, "id", id),
			Tracker: c.opts.Tracker,
			ctx:     goctx,
			cancel:  cancel,
		},
	}
	c.instances[n] = inst
	c.order = append(c.order, inst)

	c.opts.Logger.Debug("attach", "hook", name, "id", id)
	c.call(inst, "Attach", inst.hook.Attach)
	return inst
}

// Update notifies the widget bound to n that its data changed. It returns
// false when n has no live instance.
func (c *Controller) Update(n *html.Node) bool {
	inst := c.instances[n]
	if inst == nil {
		c.opts.Logger.Debug("update ignored, node not attached")
		return false
	}
	c.opts.Logger.Debug("update", "hook", inst.Kind, "id", inst.ID)
	c.call(inst, "Update", inst.hook.Update)
	return true
}

// Detach unbinds the widget from n. It returns false when n has no live
// instance.
func (c *Controller) Detach(n *html.Node) bool {
	inst := c.instances[n]
	if inst == nil {
		return false
	}
	delete(c.instances, n)
	for i, o := range c.order {
		if o == inst {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	inst.phase = phaseDetached
	inst.ctx.cancel()

	c.opts.Logger.Debug("detach", "hook", inst.Kind, "id", inst.ID)
	c.call(inst, "Detach", inst.hook.Detach)
	return true
}

// Sync reconciles instances with the document: hook nodes that left the
// page are detached, new hook nodes are attached and the rest are updated.
func (c *Controller) Sync() {
	attr := c.opts.Config.Hooks.Attribute
	nodes := dom.QueryAll(c.opts.Doc.Root(), "["+attr+"]")
	present := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		present[n] = true
	}

	for _, inst := range c.Instances() {
		if !present[inst.Node] {
			c.Detach(inst.Node)
		}
	}
	for _, n := range nodes {
		if c.instances[n] != nil {
			c.Update(n)
		} else {
			c.Attach(n)
		}
	}
}

// Close detaches every instance in reverse attach order.
func (c *Controller) Close() {
	insts := c.Instances()
	for i := len(insts) - 1; i >= 0; i-- {
		c.Detach(insts[i].Node)
	}
}

func (c *Controller) call(inst *Instance, op string, fn func(*Context)) {
	defer errors.Recover(inst.Kind + "." + op)
	fn(inst.ctx)
}
