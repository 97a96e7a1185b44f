package deferred

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("deferred")

// ErrNilFailure is used as the outcome when Fail is called with a nil error.
var ErrNilFailure = errors.New("deferred: failed with nil error")

type state uint8

const (
	stateUnset state = iota
	stateValue
	stateError
)

// Deferred is a single-assignment completion handle for a value of type T.
// The zero value is not usable, create handles with New, FromResult or FromError.
type Deferred[T any] struct {
	mu         sync.Mutex
	state      state
	delivering bool // outcome set, queued callbacks are still being invoked
	value      T
	err        error
	callbacks  []func(T, error)
	done       chan struct{} // closed once every queued callback has been invoked
}

// New returns an unset Deferred.
func New[T any]() *Deferred[T] {
	return &Deferred[T]{done: make(chan struct{})}
}

// FromResult returns a Deferred that is already completed with v.
func FromResult[T any](v T) *Deferred[T] {
	d := New[T]()
	d.Callback(v)
	return d
}

// FromError returns a Deferred that is already failed with err.
func FromError[T any](err error) *Deferred[T] {
	d := New[T]()
	d.Fail(err)
	return d
}

// --------------------------------------------------------------------------
// Completion
// --------------------------------------------------------------------------

// Callback completes the handle with v. It returns false if the handle was already completed.
func (d *Deferred[T]) Callback(v T) bool {
	return d.complete(v, nil)
}

// Fail completes the handle with err. It returns false if the handle was already completed.
func (d *Deferred[T]) Fail(err error) bool {
	if err == nil {
		err = ErrNilFailure
	}
	var zero T
	return d.complete(zero, err)
}

func (d *Deferred[T]) complete(v T, err error) bool {
	d.mu.Lock()
	if d.state != stateUnset {
		d.mu.Unlock()
		return false
	}
	if err != nil {
		d.state, d.err = stateError, err
	} else {
		d.state, d.value = stateValue, v
	}
	d.delivering = true

	// callbacks registered while we deliver are appended to d.callbacks and picked up
	// by the next round, which keeps the registration order intact.
	for len(d.callbacks) > 0 {
		callbacks := d.callbacks
		d.callbacks = nil
		d.mu.Unlock()
		for _, cb := range callbacks {
			invoke(cb, v, err)
		}
		d.mu.Lock()
	}
	d.delivering = false
	close(d.done)
	d.mu.Unlock()
	return true
}

// --------------------------------------------------------------------------
// Observation
// --------------------------------------------------------------------------

// AddCallback registers fn to be invoked exactly once with the outcome of the handle.
// If the handle is already completed, fn is invoked immediately on the calling goroutine.
func (d *Deferred[T]) AddCallback(fn func(T, error)) *Deferred[T] {
	d.mu.Lock()
	if d.state == stateUnset || d.delivering {
		d.callbacks = append(d.callbacks, fn)
		d.mu.Unlock()
		return d
	}
	v, err := d.value, d.err
	d.mu.Unlock()
	invoke(fn, v, err)
	return d
}

// invoke runs one callback. A panicking callback is logged and does not keep the
// remaining callbacks from running.
func invoke[T any](fn func(T, error), v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("callback panicked: %v", r)
		}
	}()
	fn(v, err)
}

// Chain forwards the outcome of d to dep. dep receives it exactly once, regardless of
// whether d completed before or after the call.
func (d *Deferred[T]) Chain(dep *Deferred[T]) *Deferred[T] {
	return d.AddCallback(func(v T, err error) {
		if err != nil {
			dep.Fail(err)
			return
		}
		dep.Callback(v)
	})
}

// Done returns a channel that is closed once the handle is completed and all callbacks
// registered before the completion have been invoked. A callback must therefore not
// wait on Done of the handle that invokes it, nor of a handle whose delivery it is
// nested in.
func (d *Deferred[T]) Done() <-chan struct{} {
	return d.done
}

// Poll returns the outcome without blocking. ok is false if the handle is still unset.
func (d *Deferred[T]) Poll() (v T, err error, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == stateUnset {
		return v, nil, false
	}
	return d.value, d.err, true
}

// Join blocks until the handle is completed and its callbacks have run, or ctx is done.
// Calling Join from a callback of the same handle, or of a handle whose delivery the
// callback is nested in, deadlocks until ctx is done. Use Poll there instead.
func (d *Deferred[T]) Join(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		v, err, _ := d.Poll()
		return v, err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// String implements fmt.Stringer.
func (d *Deferred[T]) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case stateValue:
		return fmt.Sprintf("Deferred(value=%v, callbacks=%d)", d.value, len(d.callbacks))
	case stateError:
		return fmt.Sprintf("Deferred(error=%v, callbacks=%d)", d.err, len(d.callbacks))
	default:
		return fmt.Sprintf("Deferred(pending, callbacks=%d)", len(d.callbacks))
	}
}

// --------------------------------------------------------------------------
// Grouping
// --------------------------------------------------------------------------

// Group returns a handle that completes once every member has completed. On success it
// carries the member values in argument order; if any member failed it fails with the
// errors.Join of all member errors. An empty group completes immediately.
func Group[T any](members ...*Deferred[T]) *Deferred[[]T] {
	out := New[[]T]()
	if len(members) == 0 {
		out.Callback(nil)
		return out
	}

	values := make([]T, len(members))
	errs := make([]error, len(members))
	var remaining atomic.Int64
	remaining.Store(int64(len(members)))

	for i, m := range members {
		m.AddCallback(func(v T, err error) {
			values[i], errs[i] = v, err
			if remaining.Add(-1) != 0 {
				return
			}
			if err := errors.Join(errs...); err != nil {
				out.Fail(err)
				return
			}
			out.Callback(values)
		})
	}
	return out
}
