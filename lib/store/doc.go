// Package store provides the interface of the key-value backends that the client
// library talks to, together with unified error handling and the counter encoding.
//
// Key Components:
//
//   - IStore Interface: The core abstraction defining operations for interacting with
//     a key-value store (Set, Get, Has, Delete and the atomic Increment). Local,
//     replicated and remote stores share this interface, so the client does not need
//     to know where a table lives.
//
//   - Error System: A structured error reporting mechanism using typed return codes
//     (RetCode) and descriptive messages. Errors survive the RPC layer: the remote client
//     rebuilds the *Error from the code carried in the response message.
//
//   - Counters: A counter is stored as an 8 byte big-endian int64 (EncodeCounter,
//     DecodeCounter). A missing key counts as zero. Increments that overflow int64 or hit
//     a value of a different length fail with RetCInvalidOperation.
//
// Implementations:
//
//	- Local Store (lstore): An in-memory store for a single node, backed by a concurrent
//	  hash map. It supports snapshots (Save/Load) and is used as the data layer of the
//	  distributed store. Available in the "github.com/ValentinKolb/aKV/lib/store/lstore" package.
//
//	- Distributed Store (dstore): A store built on the Dragonboat RAFT consensus library.
//	  Every increment is a replicated command whose result is the new counter value.
//	  Available in the "github.com/ValentinKolb/aKV/lib/store/dstore" package.
//
//	- Remote Store: The RPC client in "github.com/ValentinKolb/aKV/rpc/client" implements
//	  IStore on top of a transport and a serializer.
package store
