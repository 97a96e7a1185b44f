// Package base provides a foundation for stream based transport layers (TCP, Unix
// sockets), implementing the RPC framing, connection handling and request correlation
// independent of the specific network protocol. Protocol specific behaviour is plugged
// in through connectors.
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Interfaces for protocol-specific operations
//     (dialing, listening, socket tuning).
//
//   - clientTransport: Core client implementation that manages multiple connections
//     per endpoint with round-robin load balancing. Requests are correlated with their
//     responses by a request ID, so many requests can be in flight on one connection.
//     A broken connection fails its pending requests and is re-established by its reader.
//
//   - serverTransport: Core server implementation that accepts connections and hands
//     every frame to the registered handler. A counting semaphore bounds the number of
//     concurrent requests per connection, read buffers are pooled.
//
// Frame Format:
//
//	- 8 bytes: shard ID (uint64, big endian)
//	- 8 bytes: request ID (uint64, big endian)
//	- 4 bytes: payload length (uint32, big endian)
//	- N bytes: payload (a serialized common.Message)
//
// Thread Safety:
//
//	All public methods are thread-safe. Writes on a connection are serialized by a
//	mutex, reads are done by a single goroutine per connection.
package base
