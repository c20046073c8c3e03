// Package future provides the single-assignment, channel-backed promise
// primitive named in the Design Notes ("the platform's standard async
// primitive") that every Connection.Submit call returns. A Future is
// completed exactly once, by whichever of success or failure happens
// first; later completion attempts are no-ops.
package future

import (
	"context"
	"sync"
)

// Future is a single-assignment promise for a value of type T.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	closed    bool
	val       T
	err       error
	callbacks []func(T, error)
}

// New returns an incomplete Future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Complete resolves the future with a value. Reports whether this call
// was the one that completed it.
func (f *Future[T]) Complete(val T) bool {
	return f.resolve(val, nil)
}

// Fail resolves the future with an error. Reports whether this call was
// the one that completed it.
func (f *Future[T]) Fail(err error) bool {
	var zero T
	return f.resolve(zero, err)
}

func (f *Future[T]) resolve(val T, err error) bool {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return false
	}
	f.val, f.err, f.closed = val, err, true
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(val, err)
	}
	return true
}

// Await blocks until the future completes or ctx is done, whichever
// comes first.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		val, err := f.val, f.err
		f.mu.Unlock()
		return val, err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Get is a non-blocking peek: it returns (val, err, true) if the future
// has completed, or (zero, nil, false) otherwise.
func (f *Future[T]) Get() (T, error, bool) {
	select {
	case <-f.done:
		f.mu.Lock()
		val, err := f.val, f.err
		f.mu.Unlock()
		return val, err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Then registers a callback to run on completion. If the future is
// already complete, cb runs synchronously before Then returns. Otherwise
// cb runs on whichever goroutine calls Complete/Fail — the connection's
// read loop, per §5, unless the caller reschedules inside cb itself.
func (f *Future[T]) Then(cb func(T, error)) {
	f.mu.Lock()
	if f.closed {
		val, err := f.val, f.err
		f.mu.Unlock()
		cb(val, err)
		return
	}
	f.callbacks = append(f.callbacks, cb)
	f.mu.Unlock()
}

// Done returns a channel closed when the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}
