// Package dstore implements a distributed, fault-tolerant key-value store using
// the Dragonboat RAFT consensus library. It provides a linearizable implementation
// of the store.IStore interface, counters included.
//
// Architecture:
//
//   - Store Client: Implements the store.IStore interface. It serializes operations into
//     commands, proposes them to the RAFT cluster and decodes the results.
//
//   - State Machine: A Dragonboat IConcurrentStateMachine that applies commands and
//     answers queries on each node. Its data layer is a store.IPersistentStore created by
//     a store.StoreFactory (usually lstore.NewLocalStore).
//
//   - Communication Protocol: Defined in the internal package (Command and Query).
//
// Counters:
//
//	An increment is a single replicated command. The state machine applies it to its
//	data layer and returns the new counter value as the result data of the entry. Since
//	every node applies the committed log in the same order, all replicas agree on the
//	value, and the client receives exactly the value produced by its own increment.
//	Committed entries are always durable, the durable flag of Increment is ignored.
//
// Read Operations:
//
//	Get and Has use SyncRead, which waits until the node has applied all committed log
//	entries before answering the query.
//
// Error Handling and Retries:
//
//	- System Busy: When Dragonboat returns ErrSystemBusy, the operation is retried
//	  after a short delay, up to 5 attempts.
//
//	- Timeouts: All operations have a timeout. If consensus cannot be reached within
//	  this period, the operation fails with RetCInternalError.
//
// Snapshotting and Recovery:
//
//	Snapshots are fuzzy: SaveSnapshot streams the data layer without pausing updates.
//	A recovering node loads the latest snapshot and then replays the log entries that
//	were committed after it.
//
// Example:
//
//	nh, err := dragonboat.NewNodeHost(nodeHostConfig)
//	if err != nil { ... }
//
//	err = nh.StartConcurrentReplica(
//	    clusterMembers,
//	    false,
//	    dstore.CreateStateMachineFactory(lstore.NewLocalStore),
//	    shardConfig)
//	if err != nil { ... }
//
//	s := dstore.NewDistributedStore(nh, shardID, 5*time.Second)
//	v, err := s.Increment("visits", 1, true)
package dstore
