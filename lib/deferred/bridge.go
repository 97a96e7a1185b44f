package deferred

import "fmt"

// causer is implemented by errors that wrap a failure reported by a remote peer,
// e.g. common.RPCError.
type causer interface {
	Cause() error
}

// unwrapCause strips exactly one level of remote wrapping from err.
func unwrapCause(err error) error {
	if c, ok := err.(causer); ok {
		if cause := c.Cause(); cause != nil {
			return cause
		}
	}
	return err
}

// Go runs fn on a new goroutine and returns a Deferred completed with its outcome.
// A panic inside fn fails the handle instead of crashing the process.
func Go[T any](fn func() (T, error)) *Deferred[T] {
	d := New[T]()
	go func() {
		v, err := call(fn)
		Settle(d, v, err)
	}()
	return d
}

// call runs fn and turns a panic into an error. Only fn is guarded, callbacks run by
// Settle are isolated by the Deferred itself.
func call[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("deferred: operation panicked: %v", r)
		}
	}()
	return fn()
}

// Settle completes d with v, or with the unwrapped err if err is not nil.
func Settle[T any](d *Deferred[T], v T, err error) bool {
	if err != nil {
		return d.Fail(unwrapCause(err))
	}
	return d.Callback(v)
}
