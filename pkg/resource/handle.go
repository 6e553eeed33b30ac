// Package resource wraps externally allocated resources (chart instances,
// rendering contexts, media streams) behind a single idempotent release.
package resource

import (
	"sync"
	"sync/atomic"
)

// Handle owns one resource and releases it at most once.
//
// Release is safe to call from any exit path: the first call runs the
// release function, later calls are no-ops.
type Handle[T any] struct {
	value    T
	kind     string
	release  func(T)
	released atomic.Bool
	tracker  *Tracker
}

// New wraps value. release runs exactly once, on the first Release call.
// tracker may be nil.
func New[T any](kind string, value T, release func(T), tracker *Tracker) *Handle[T] {
	h := &Handle[T]{
		value:   value,
		kind:    kind,
		release: release,
		tracker: tracker,
	}
	tracker.acquire(kind)
	return h
}

// Value returns the wrapped resource. It remains readable after release
// but must not be used.
func (h *Handle[T]) Value() T {
	return h.value
}

// Kind returns the resource kind the handle was created with.
func (h *Handle[T]) Kind() string {
	return h.kind
}

// Released reports whether Release has run.
func (h *Handle[T]) Released() bool {
	return h.released.Load()
}

// Release frees the resource. Releasing an already released handle is a
// no-op and never an error.
func (h *Handle[T]) Release() {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return
	}
	h.tracker.release(h.kind)
	if h.release != nil {
		h.release(h.value)
	}
}

// Slot holds at most one live handle of a kind.
type Slot[T any] struct {
	h *Handle[T]
}

// Set stores h, releasing the previously held handle first.
func (s *Slot[T]) Set(h *Handle[T]) {
	if s.h != nil && s.h != h {
		s.h.Release()
	}
	s.h = h
}

// Get returns the held handle, or nil.
func (s *Slot[T]) Get() *Handle[T] {
	return s.h
}

// Live reports whether the slot holds an unreleased handle.
func (s *Slot[T]) Live() bool {
	return s.h != nil && !s.h.Released()
}

// Release releases the held handle, if any, and empties the slot.
func (s *Slot[T]) Release() {
	if s.h != nil {
		s.h.Release()
		s.h = nil
	}
}

// Take empties the slot and returns the handle without releasing it.
func (s *Slot[T]) Take() *Handle[T] {
	h := s.h
	s.h = nil
	return h
}

// Tracker counts live handles per kind. The zero value is ready to use and
// a nil *Tracker ignores all calls.
type Tracker struct {
	mu   sync.Mutex
	live map[string]int
	peak map[string]int
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) acquire(kind string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.live == nil {
		t.live = map[string]int{}
		t.peak = map[string]int{}
	}
	t.live[kind]++
	if t.live[kind] > t.peak[kind] {
		t.peak[kind] = t.live[kind]
	}
}

func (t *Tracker) release(kind string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.live[kind]--
}

// Live returns the number of unreleased handles of kind.
func (t *Tracker) Live(kind string) int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.live[kind]
}

// Total returns the number of unreleased handles of every kind.
func (t *Tracker) Total() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, v := range t.live {
		n += v
	}
	return n
}

// Peak returns the highest simultaneous live count seen for kind.
func (t *Tracker) Peak(kind string) int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.peak[kind]
}
