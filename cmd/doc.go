// Package cmd implements the command-line interface of aKV. It provides a
// hierarchical command structure with operations for running the server and
// interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - counter: Commands for counter and cell operations (incr, bincr, get, set, del, perf)
//   - serve: Commands for starting and configuring the aKV server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set as environment variable with the AKV_ prefix, .env and
// .env.local files are loaded on startup.
//
// See akv -help for a list of all commands.
package cmd
