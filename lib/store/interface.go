package store

import (
	"fmt"
	"io"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the generic interface for interacting with a key–value store.
// All methods are safe for concurrent use. Failures reported by the store itself are
// returned as *Error, transport or replication failures may be wrapped in other types.
type IStore interface {
	// Set inserts or updates a key–value pair.
	Set(key string, value []byte) (err error)
	// Delete deletes a key–value pair. Deleting a missing key is not an error.
	Delete(key string) (err error)
	// Get return the value for a key. The boolean return value indicates whether a value for the key was found.
	Get(key string) (value []byte, loaded bool, err error)
	// Has returns whether a key exists in the store.
	Has(key string) (loaded bool, err error)
	// SetIfUnset stores value only if key is absent and reports whether it was stored.
	SetIfUnset(key string, value []byte) (stored bool, err error)
	// CompareAndSet replaces the value of key with value if the current value equals
	// expected and reports whether it was replaced. An empty expected value matches a
	// missing key only, so CompareAndSet(key, nil, value) behaves like SetIfUnset.
	CompareAndSet(key string, expected, value []byte) (swapped bool, err error)
	// Append atomically appends value to the value stored at key. A missing key is
	// created with value.
	Append(key string, value []byte) (err error)
	// Increment atomically adds delta to the counter stored at key and returns the new value.
	// A missing key counts as zero. The durable flag asks the store to persist the write
	// before acknowledging it, stores that always (or never) persist may ignore it.
	// Incrementing a value that is not a counter, or overflowing int64, fails with RetCInvalidOperation.
	Increment(key string, delta int64, durable bool) (value int64, err error)
	// Close releases the resources held by the store.
	Close() error
}

// IPersistentStore is a store whose complete state can be written to and restored from a stream.
// It is used as the data layer of replicated stores.
type IPersistentStore interface {
	IStore
	// Save writes a snapshot of the store to w.
	Save(w io.Writer) error
	// Load replaces the content of the store with the snapshot read from r.
	Load(r io.Reader) error
}

// StoreFactory is a function type that creates a new persistent store.
// This is used to abstract the creation of the data layer from replicated store implementations.
type StoreFactory func() IPersistentStore

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("KVStoreError (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is a *Error with the same code, so errors.Is can match on codes.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code && (t.Msg == "" || t.Msg == e.Msg)
}

// NewError creates a new KVStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by underlying store.
	RetCInvalidOperation                    // 3: Invalid operation.
)

// String implements fmt.Stringer.
func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	default:
		return fmt.Sprintf("Unknown(%d)", uint64(c))
	}
}

// Sentinels usable with errors.Is to match on a return code only.
var (
	ErrInternal             = &Error{Code: RetCInternalError}
	ErrUnsupportedOperation = &Error{Code: RetCUnsupportedOperation}
	ErrInvalidOperation     = &Error{Code: RetCInvalidOperation}
)
