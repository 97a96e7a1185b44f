// Package client implements the RPC client of the aKV store. NewRPCStore returns a
// store.IStore that forwards every operation, including counter increments, to one
// shard of a remote server.
//
// Errors:
//
//	Every failed call returns a *common.RPCError naming the shard and operation. Its
//	Cause is the *store.Error reported by the remote store (restored from the error
//	code on the wire) or the transport failure, so callers can match with errors.Is
//	against the store sentinels.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:8080"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	s, _ := client.NewRPCStore(1, config, tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//	defer s.Close()
//
//	value, _ := s.Increment("visits", 1, false)
//
// Thread Safety:
//
//	All client implementations are safe for concurrent use.
package client
