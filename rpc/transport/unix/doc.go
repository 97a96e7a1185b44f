// Package unix implements a transport layer for the aKV RPC system using Unix
// domain sockets, for clients running on the same machine as the server.
//
// This package extends the base transport layer with Unix socket connectors
// while inheriting connection pooling, request routing and error handling
// from the base package.
//
// Key Components:
//
//   - clientConnector: Establishes connections using Unix domain sockets
//
//   - serverConnector: Creates Unix socket listeners, removing stale socket files first
package unix
