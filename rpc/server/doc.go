// Package server implements the RPC server of the aKV store. It manages the
// configured shards and routes every request to the adapter of its shard.
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a store.IStore.
//
//   - NewIStoreServerAdapter: Factory function creating an adapter for key-value
//     and counter operations, translating RPC requests to store.IStore method calls.
//     Store errors are sent back with their return code.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Shards: []common.ServerShard{
//	    {ShardID: 100, Type: common.ShardTypeLocalIStore},
//	  },
//	  TimeoutSecond: 5,
//	  Transport: common.ServerTransportConfig{Endpoint: "0.0.0.0:8080"},
//	  LogLevel: "info",
//	}
//
//	s := server.NewRPCServer(config, tcp.NewTCPServerTransport(), serializer.NewBinarySerializer())
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// The server supports two types of shards, which can be mixed within a single server:
//
//   - ShardTypeLocalIStore: An in-memory store, suitable for single-node deployments
//     or development environments.
//
//   - ShardTypeRemoteIStore: A replicated store using Raft consensus, providing strong
//     consistency across multiple nodes. When using this type, the RAFT configuration
//     (RTTMillisecond, SnapshotEntries, CompactionOverhead, DataDir, ReplicaID and
//     ClusterMembers) must be set.
//
// Thread Safety:
//
//	Requests are handled concurrently. Serve should be called only once, Close may be
//	called from any goroutine and makes Serve return.
package server
