// Package deferred provides a single-assignment completion handle (Deferred) used to
// report the outcome of asynchronous key-value operations without blocking the caller.
//
// A Deferred[T] starts unset and is completed exactly once, either with a value
// (Callback) or with an error (Fail). The first completion wins, every later attempt
// is a no-op that reports false. Observers register callbacks (AddCallback) or chain
// another Deferred (Chain). Both are invoked exactly once with the final outcome, no
// matter whether they were registered before or after the completion happened.
//
// Key Components:
//
//   - Deferred: The handle itself. Callbacks run on the goroutine that completes the
//     handle, in registration order. Callbacks added while the handle is delivering its
//     outcome are queued behind the already registered ones, so a chained dependent is
//     always notified before a later registered callback observes the same outcome.
//
//   - Group: Combines several handles into one that completes once every member has
//     completed. Failures are combined with errors.Join.
//
//   - Go: Bridges a blocking call into a Deferred by running it on its own goroutine.
//     Errors that carry a remote cause (Cause() error) are unwrapped one level, so
//     observers see the failure reported by the peer instead of the transport wrapper.
//
// Blocking observation is available through Join, which honors a context.Context. It is
// intended for callers at the edge of the system (CLI, tests, shutdown) and must not be
// used from inside a callback of the same handle.
package deferred
