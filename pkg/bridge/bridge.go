// Package bridge is the outbound event channel from widgets to the host.
//
// The host transport is opaque: a widget pushes a named event with a JSON
// payload and the channel fans it out to whatever subscribed (a socket
// writer in production, a recorder in tests).
package bridge

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
)

// Outbound event names.
const (
	EventStartRecording = "start_recording"
	EventStopRecording  = "stop_recording"
	EventAudioUploaded  = "audio_uploaded"
)

// ErrClosed is returned when pushing on a closed channel.
var ErrClosed = errors.New("bridge: channel closed")

// Pusher sends a named event to the host.
type Pusher interface {
	PushEvent(event string, payload any) error
}

// Message is one encoded outbound event.
type Message struct {
	Hook     string          `json:"hook,omitempty"`
	Instance string          `json:"instance,omitempty"`
	Event    string          `json:"event"`
	Payload  json.RawMessage `json:"payload"`
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	return json.Unmarshal(m.Payload, v)
}

// Handler receives messages from a Channel.
type Handler func(msg Message)

// Subscription represents an active subscription.
type Subscription struct {
	channel  *Channel
	handler  Handler
	canceled atomic.Bool
}

// Cancel stops delivery to this subscription.
func (s *Subscription) Cancel() {
	if s.canceled.CompareAndSwap(false, true) {
		s.channel.removeSubscription(s)
	}
}

// Channel fans encoded messages out to subscribers.
type Channel struct {
	mu            sync.Mutex
	subscriptions []*Subscription
	closed        bool
}

// NewChannel returns an open channel with no subscribers.
func NewChannel() *Channel {
	return &Channel{}
}

// Listen subscribes handler to every message pushed after the call.
func (c *Channel) Listen(handler Handler) *Subscription {
	sub := &Subscription{channel: c, handler: handler}
	c.mu.Lock()
	c.subscriptions = append(c.subscriptions, sub)
	c.mu.Unlock()
	return sub
}

func (c *Channel) removeSubscription(sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.subscriptions {
		if s == sub {
			c.subscriptions = append(c.subscriptions[:i], c.subscriptions[i+1:]...)
			return
		}
	}
}

// PushEvent implements Pusher with no hook attribution.
func (c *Channel) PushEvent(event string, payload any) error {
	return c.push("", "", event, payload)
}

// Scoped returns a Pusher that tags every message with hook and instance.
func (c *Channel) Scoped(hook, instance string) Pusher {
	return scoped{c: c, hook: hook, instance: instance}
}

// Close drops all subscribers; later pushes fail with ErrClosed.
func (c *Channel) Close() {
	c.mu.Lock()
	c.closed = true
	subs := c.subscriptions
	c.subscriptions = nil
	c.mu.Unlock()
	for _, s := range subs {
		s.canceled.Store(true)
	}
}

func (c *Channel) push(hook, instance, event string, payload any) error {
	if payload == nil {
		payload = struct{}{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := Message{Hook: hook, Instance: instance, Event: event, Payload: raw}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	subs := make([]*Subscription, len(c.subscriptions))
	copy(subs, c.subscriptions)
	c.mu.Unlock()

	for _, sub := range subs {
		if !sub.canceled.Load() && sub.handler != nil {
			sub.handler(msg)
		}
	}
	return nil
}

type scoped struct {
	c        *Channel
	hook     string
	instance string
}

func (s scoped) PushEvent(event string, payload any) error {
	return s.c.push(s.hook, s.instance, event, payload)
}

// Recorder is a Pusher target that keeps every message, for tests and the
// CLI's event log.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Record is a Handler that appends msg.
func (r *Recorder) Record(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Events returns the recorded event names in order.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	for i, m := range r.messages {
		out[i] = m.Event
	}
	return out
}

// Count returns how many messages named event were recorded.
func (r *Recorder) Count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.messages {
		if m.Event == event {
			n++
		}
	}
	return n
}
