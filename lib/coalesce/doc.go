// Package coalesce implements the write-back accumulation cache that merges many
// logical "add N to counter C" operations into a single physical increment.
//
// Every buffered increment lands in the entry of its counter Identity. The entry keeps
// the pending (not yet applied) delta and a broadcast Deferred. Each caller receives its
// own Deferred chained onto that broadcast handle, so when the entry is drained the one
// physical increment issued for the merged delta completes every waiter with the same
// post-increment value (or the same error).
//
// Key Components:
//
//   - Identity: The (table, row, family, qualifier) tuple that names a counter cell.
//     Identity.Key() is a length-prefixed encoding that is used both as the cache key
//     and as the storage key of the counter.
//
//   - Cache: A bounded map from identity to entry, backed by an LRU list. Inserting
//     past capacity evicts the least recently used entry and drains it. Flush drains
//     every live entry, Close does the same and rejects further merges with ErrClosed.
//     Lookup, creation and merge happen atomically under the cache mutex, drains are
//     started after the mutex is released.
//
//   - Scheduler: A self re-arming timer that periodically runs a flush pass. A failing
//     pass is recovered and logged, the next tick is always armed.
//
// Invariants:
//
//   - A merged delta is applied by exactly one physical increment.
//   - After an entry is detached (drained) it accepts no further merges. Callers racing
//     with a drain either merged before the detach or create a fresh entry afterwards.
//   - A merge that would overflow int64 is rejected with ErrOverflow and leaves the
//     entry untouched. The caller is expected to apply the delta directly.
package coalesce
