// Package http carries RPC requests as HTTP POST bodies.
//
// Every request is posted to <endpoint>/<shardId> with the serialized message as body
// and the serialized response as reply. The client picks an endpoint round-robin per
// call and tries it up to RetryCount times, building a fresh request for every
// attempt. The server wraps an http.Server, so Close makes
// Listen return nil.
//
// Compared to the framed tcp and unix transports there is no connection multiplexing.
// The transport is mainly useful behind HTTP proxies and for debugging with curl.
package http
