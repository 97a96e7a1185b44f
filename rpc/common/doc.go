// Package common provides core data structures and utilities shared across
// the RPC client and server. It defines the message protocol, the configuration
// structures and the logging setup.
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication, with a flexible
//     structure that adapts to different operation types. Includes factory methods for
//     every request and response. Store errors travel as message plus return code and are
//     restored as *store.Error on the client (Message.Error).
//
//   - MessageType: Enumeration of the supported operations (set, get, has, delete,
//     increment) and control messages.
//
//   - RPCError: Error wrapper carrying the shard and operation of a failed call. Its
//     Cause method exposes the remote error, which the deferred package unwraps before
//     handing failures to callers.
//
//   - ServerConfig / ClientConfig: Configuration for servers (RAFT parameters, storage,
//     transport) and clients (endpoints, timeouts, retries).
//
//   - Logger: Custom logging implementation that integrates with Dragonboat's
//     logging system while providing consistent formatting across the application.
package common
