// Package internal provides the communication protocol structures and serialization
// logic for the dstore package. It defines the wire format used to transmit operations
// between the store client and the distributed state machine.
//
// This package is intended for internal use by the dstore implementation and should
// not be imported directly by external code.
//
//   - Command System: Write operations (Set, Delete, Increment). Commands are serialized,
//     proposed to the RAFT cluster and applied by the state machine. The result of an
//     increment is the new counter value.
//
//   - Query System: Read operations (Get, Has). Queries are executed locally on the
//     state machine and therefore do not require serialization.
//
// Command Format:
//
//	- 1 byte: Command type (Set, Delete, Increment)
//	- 8 bytes: Delta (int64, two's complement, big endian), zero for non increments
//	- 4 bytes: Key length (uint32, big endian)
//	- N bytes: Key data
//	- M bytes: Value data (optional, only present for Set)
package internal
