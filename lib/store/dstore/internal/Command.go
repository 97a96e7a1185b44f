package internal

import (
	"encoding/binary"
	"fmt"
)

// CommandType defines the possible operations for the state machine.
type CommandType uint8

const (
	CommandTSet           CommandType = iota // Insert or update an entry.
	CommandTDelete                           // Delete an entry.
	CommandTIncrement                        // Add Delta to the counter stored at Key.
	CommandTSetIfUnset                       // Insert an entry only if Key is absent.
	CommandTCompareAndSet                    // Replace the entry if it equals Expected.
	CommandTAppend                           // Append Value to the entry.
)

func (ct CommandType) String() string {
	switch ct {
	case CommandTSet:
		return "Set"
	case CommandTDelete:
		return "Delete"
	case CommandTIncrement:
		return "Increment"
	case CommandTSetIfUnset:
		return "SetIfUnset"
	case CommandTCompareAndSet:
		return "CompareAndSet"
	case CommandTAppend:
		return "Append"
	default:
		return fmt.Sprintf("Unknown(%d)", ct)
	}
}

// headerSize is Type + Delta + KeyLen + ExpectedLen
const headerSize = 1 + 8 + 4 + 4

// Command represents a command to be executed by the state machine (a single entry in the raft log)
type Command struct {
	Type     CommandType
	Key      string
	Delta    int64
	Expected []byte // only used by CommandTCompareAndSet
	Value    []byte
}

// SizeBytes returns the exact number of bytes needed to serialize this command
func (command *Command) SizeBytes() int {
	return headerSize + len(command.Key) + len(command.Expected) + len(command.Value)
}

// Serialize serializes a command into a byte array with the format:
// 1 byte for operation type,
// 8 bytes for delta (two's complement, big endian),
// 4 bytes for key length (big endian),
// 4 bytes for expected value length (big endian),
// N bytes for key data,
// N bytes for expected value data (optional),
// N bytes for value data (optional)
func (command *Command) Serialize() []byte {
	result := make([]byte, command.SizeBytes())

	result[0] = byte(command.Type)
	binary.BigEndian.PutUint64(result[1:9], uint64(command.Delta))
	binary.BigEndian.PutUint32(result[9:13], uint32(len(command.Key)))
	binary.BigEndian.PutUint32(result[13:headerSize], uint32(len(command.Expected)))

	n := headerSize
	n += copy(result[n:], command.Key)
	n += copy(result[n:], command.Expected)
	copy(result[n:], command.Value)
	return result
}

// Deserialize extracts all Command fields from a byte array.
func (command *Command) Deserialize(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("data too short for command")
	}

	command.Type = CommandType(data[0])
	command.Delta = int64(binary.BigEndian.Uint64(data[1:9]))
	keyLen := int(binary.BigEndian.Uint32(data[9:13]))
	expectedLen := int(binary.BigEndian.Uint32(data[13:headerSize]))

	if len(data) < headerSize+keyLen {
		return fmt.Errorf("data too short for key of length %d", keyLen)
	}
	command.Key = string(data[headerSize : headerSize+keyLen])
	pos := headerSize + keyLen

	if len(data) < pos+expectedLen {
		return fmt.Errorf("data too short for expected value of length %d", expectedLen)
	}
	command.Expected = reuse(command.Expected, data[pos:pos+expectedLen])
	pos += expectedLen

	command.Value = reuse(command.Value, data[pos:])
	return nil
}

// reuse copies src into the buffer of dst if it is large enough. An empty src yields nil.
func reuse(dst, src []byte) []byte {
	if len(src) == 0 {
		return nil
	}
	if cap(dst) < len(src) {
		dst = make([]byte, len(src))
	} else {
		dst = dst[:len(src)]
	}
	copy(dst, src)
	return dst
}
