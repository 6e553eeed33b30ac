package testing

import (
	"sync"

	"github.com/go-drift/livehooks/pkg/errors"
)

// ErrorRecorder is an errors.ErrorHandler that keeps everything reported.
type ErrorRecorder struct {
	mu     sync.Mutex
	errs   []*errors.HookError
	panics []*errors.PanicError
}

// HandleError implements errors.ErrorHandler.
func (r *ErrorRecorder) HandleError(err *errors.HookError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// HandlePanic implements errors.ErrorHandler.
func (r *ErrorRecorder) HandlePanic(err *errors.PanicError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panics = append(r.panics, err)
}

// Errors returns the reported errors in order.
func (r *ErrorRecorder) Errors() []*errors.HookError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.HookError(nil), r.errs...)
}

// Panics returns the recovered panics in order.
func (r *ErrorRecorder) Panics() []*errors.PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*errors.PanicError(nil), r.panics...)
}

// Count returns how many errors of kind were reported.
func (r *ErrorRecorder) Count(kind errors.ErrorKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.errs {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets everything recorded so far.
func (r *ErrorRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs, r.panics = nil, nil
}
