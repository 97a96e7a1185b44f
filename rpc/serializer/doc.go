// Package serializer encodes common.Message values for the wire. Client and server
// select the same implementation by name ("binary", "json" or "gob").
//
// Implementations:
//
//   - binary (NewBinarySerializer): the default. A message starts with its type and a
//     flags byte telling which fields follow. Only those fields are written, strings
//     and byte slices with a 4 byte length prefix, Delta and ErrCode as 8 byte big-endian
//     integers. The durable flag of an increment lives in the flags byte alone, so an
//     increment request costs 2 bytes plus key and delta.
//
//   - json (NewJSONSerializer): readable payloads, handy when debugging the http
//     transport. Message types are written by name.
//
//   - gob (NewGOBSerializer): Go's gob encoding. Each message carries its own type
//     description, which makes it the largest and slowest format (see benchmark_test.go).
//
// All implementations are stateless and safe for concurrent use:
//
//	s := serializer.NewBinarySerializer()
//	data, err := s.Serialize(*common.NewIncrementRequest(key, 5, true))
//	// ... send data ...
//	var resp common.Message
//	err = s.Deserialize(reply, &resp)
package serializer
