package transport

import (
	"github.com/ValentinKolb/aKV/rpc/common"
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc processes one serialized request for a shard and returns the
// serialized response. It is called concurrently.
type ServerHandleFunc func(shardId uint64, req []byte) (resp []byte)

// IRPCServerTransport accepts requests from clients and passes them to a handler.
type IRPCServerTransport interface {
	// RegisterHandler sets the handler. It must be called before Listen.
	RegisterHandler(handler ServerHandleFunc)
	// Listen serves on config.Transport.Endpoint until Close is called, then returns nil.
	Listen(config common.ServerConfig) error
	// Close stops accepting requests and closes the listener
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport sends requests to the servers listed in the client config.
// Implementations are safe for concurrent use.
type IRPCClientTransport interface {
	// Connect dials the configured endpoints
	Connect(config common.ClientConfig) error
	// Send delivers req to the server hosting shardId and waits for the response
	Send(shardId uint64, req []byte) (resp []byte, err error)
	// Close releases all connections. Pending and later calls to Send fail.
	Close() error
}
