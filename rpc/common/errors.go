package common

import "fmt"

// RPCError wraps a failure of a remote call with the shard and operation it belongs to.
// Cause returns the error reported by the remote store (or the transport error).
type RPCError struct {
	Shard uint64
	Op    MessageType
	Err   error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc %s on shard %d: %v", e.Op, e.Shard, e.Err)
}

func (e *RPCError) Unwrap() error { return e.Err }

// Cause returns the wrapped error.
func (e *RPCError) Cause() error { return e.Err }
