package loop

import "context"

// Task is one suspension point: a blocking call made off the loop and the
// single continuation that resumes on the loop with its result.
type Task[T any] struct {
	// Call runs on a background goroutine.
	Call func(ctx context.Context) (T, error)
	// Resume runs on the loop exactly once with Call's result, unless the
	// loop stopped accepting work.
	Resume func(v T, err error)
	// Discard receives a successful result whose continuation could not be
	// scheduled, so resources it carries can still be released. Optional.
	Discard func(v T)
}

// Await starts t.Call on d and posts t.Resume back to the loop.
func Await[T any](ctx context.Context, d Dispatcher, t Task[T]) {
	d.Go(func() {
		v, err := t.Call(ctx)
		scheduled := d.Dispatch(func() {
			t.Resume(v, err)
		})
		if !scheduled && err == nil && t.Discard != nil {
			t.Discard(v)
		}
	})
}
