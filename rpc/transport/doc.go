// Package transport holds the contracts between the RPC layer and the network.
//
// A transport moves opaque byte slices tagged with a shard id. It does not know
// about messages or serializers: the client passes an already serialized request to
// IRPCClientTransport.Send, and the server hands the raw request to the registered
// ServerHandleFunc and writes back whatever it returns.
//
// Implementations live in the subpackages: tcp and unix build on the framed
// connections of base, http posts one request per call.
package transport
