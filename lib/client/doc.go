// Package client provides the asynchronous aKV client. Every operation returns a
// deferred.Deferred that completes once the store answered, callers never block on
// network I/O.
//
// Increment Coalescing:
//
//	BufferIncrement holds increments in memory for up to FlushInterval and merges the
//	increments of the same counter, so many logical "add N" operations are sent as one
//	physical increment. Each caller still receives the counter value after the merged
//	increment (or its error). The buffer is bounded by IncrementBufferSize counters:
//	when it is full the least recently used counter is sent right away.
//
//	The buffer and its flush scheduler are created on the first buffered increment.
//	SetIncrementBufferSize replaces an existing buffer and drains the old one,
//	SetFlushInterval takes effect with the next tick. Setting either to zero makes
//	BufferIncrement behave like AtomicIncrement.
//
// Key Components:
//
//   - Client: The coordinator owning the buffer, the scheduler and the resolver.
//
//   - Resolver: Maps a table to the store.IStore holding it. StaticResolver is a fixed
//     mapping, typically to RPC stores (rpc/client) or local stores (lstore).
//
//   - Stats: A snapshot of the client counters, also exported in Prometheus text format
//     by WriteMetrics.
//
// Usage Example:
//
//	s, _ := rpcclient.NewRPCStore(1, config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//	c, _ := client.New(client.NewStaticResolver(s), client.DefaultOptions())
//	defer c.Shutdown(context.Background())
//
//	cell := client.NewCell("pages", "index.html", "stats", "views")
//	c.BufferIncrement(client.NewIncrementRequest(cell, 1)).AddCallback(func(views int64, err error) {
//	  ...
//	})
//
// Shutdown drains every buffered increment before the stores are closed, no increment
// accepted by BufferIncrement is lost.
package client
