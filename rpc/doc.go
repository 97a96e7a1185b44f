// Package rpc connects aKV clients to the shards that hold their counters.
//
// A request travels as a common.Message. A serializer turns it into bytes and a
// transport moves the bytes to the server that owns the shard. On the server an
// adapter applies the message to the shard's store and sends the result back the
// same way.
//
// Subpackages:
//
//   - common: the Message protocol, RPCError, client and server configuration and
//     the logger setup shared by all aKV packages.
//
//   - serializer: binary, JSON and gob codecs for Message.
//
//   - transport: the client and server transport contracts, with framed TCP and Unix
//     socket implementations (base, tcp, unix) and an HTTP implementation.
//
//   - client: a store.IStore that forwards every call, increments included, to a
//     remote shard.
//
//   - server: RPCServer, which hosts local and raft replicated shards behind a
//     transport.
package rpc
