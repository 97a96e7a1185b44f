package serializer

import "github.com/ValentinKolb/aKV/rpc/common"

// IRPCSerializer converts messages to and from their wire representation. Client and
// server must use the same implementation.
type IRPCSerializer interface {
	// Serialize encodes msg. The returned slice is owned by the caller.
	Serialize(msg common.Message) ([]byte, error)
	// Deserialize decodes b into msg. Implementations may reuse the slices already
	// held by msg, but never keep a reference to b.
	Deserialize(b []byte, msg *common.Message) error
}
