// Package lstore implements a local, in-memory, single-node key-value store based on the
// store.IStore interface. Data is kept in a concurrent hash map and is not persisted
// between process restarts unless a snapshot is written with Save.
//
// Key Features:
//   - Pure in-memory storage, safe for concurrent use
//   - Atomic counter increments without a global lock
//   - Fuzzy snapshots (Save/Load), which makes the store usable as the data layer of the
//     distributed store (dstore)
//
// Implementation Details:
//
//   - Atomic Increments: Increment uses the compute operation of the hash map, the
//     read-modify-write of a counter runs while the bucket of its key is locked. Counters
//     on different keys never contend.
//
//   - Value Ownership: Values are copied on Set and on Get, callers may reuse their
//     buffers.
//
// Usage Example:
//
//	s := lstore.NewLocalStore()
//	v, err := s.Increment("visits", 1, false)
package lstore
