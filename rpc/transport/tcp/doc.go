// Package tcp implements TCP socket based transport for the aKV RPC system.
// It provides the TCP connectors for the base package, which does the framing,
// connection pooling and request routing (see the base package documentation).
//
// Key Components:
//
//   - clientConnector: TCP implementation of base.IClientConnector
//
//   - serverConnector: TCP implementation of base.IServerConnector
//
// Both sides apply the TCPConf and SocketConf settings of their config
// (no-delay, keep-alive, linger, socket buffer sizes) to every connection.
package tcp
