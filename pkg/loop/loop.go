// Package loop provides the single-threaded UI loop widgets run on.
//
// Every widget entry point runs to completion on the loop. Blocking work
// (hardware access, blob encoding) runs on a background goroutine through
// [Await], and its continuation is posted back to the loop, so widget state
// is only ever touched from one goroutine.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-drift/livehooks/pkg/errors"
)

// Dispatcher schedules callbacks on the UI loop and starts background work
// whose completion the loop can wait for.
type Dispatcher interface {
	// Dispatch schedules callback on the UI loop. It returns false if the
	// callback is nil or the loop no longer accepts work.
	Dispatch(callback func()) bool
	// Go runs fn on a background goroutine.
	Go(fn func())
}

// Timer is a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or was already stopped.
	Stop() bool
}

// Clock provides time and deferred callbacks on the UI loop.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Loop is a FIFO callback queue drained by one goroutine.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}

	inflight sync.WaitGroup
}

// New returns an open loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Dispatch implements Dispatcher.
func (l *Loop) Dispatch(callback func()) bool {
	if callback == nil {
		return false
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, callback)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Go implements Dispatcher.
func (l *Loop) Go(fn func()) {
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		defer errors.Recover("loop.Go")
		fn()
	}()
}

func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fns := l.queue
	l.queue = nil
	return fns
}

func run(fn func()) {
	defer errors.Recover("loop.callback")
	fn()
}

// Drain runs queued callbacks, including ones they enqueue, until the queue
// is empty. It returns the number of callbacks run. The caller acts as the
// UI goroutine for the duration.
func (l *Loop) Drain() int {
	n := 0
	for {
		fns := l.take()
		if len(fns) == 0 {
			return n
		}
		for _, fn := range fns {
			run(fn)
			n++
		}
	}
}

// Settle waits for background work started with Go and drains the queue,
// repeating until neither produces anything.
func (l *Loop) Settle() {
	for {
		l.inflight.Wait()
		if l.Drain() == 0 {
			return
		}
	}
}

// Run drains the queue as callbacks arrive until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Close stops accepting callbacks. Queued callbacks are dropped.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.queue = nil
	l.mu.Unlock()
}

// Clock returns a wall clock whose AfterFunc callbacks run on l.
func (l *Loop) Clock() Clock {
	return loopClock{l: l}
}

type loopClock struct {
	l *Loop
}

func (c loopClock) Now() time.Time { return time.Now() }

func (c loopClock) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		c.l.Dispatch(func() {
			if lt.stopped.CompareAndSwap(false, true) {
				f()
			}
		})
	})
	return lt
}

type loopTimer struct {
	t       *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if !t.stopped.CompareAndSwap(false, true) {
		return false
	}
	t.t.Stop()
	return true
}
