package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ValentinKolb/aKV/lib/store"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the type of message.
type Message struct {
	// Type of message
	MsgType MessageType `json:"msg_type"`

	// General fields
	Key     string `json:"key,omitempty"`     // Used for: every store operation
	Value   []byte `json:"value,omitempty"`   // Used for: Set, SetIfUnset, CompareAndSet, Append (request), Get (response)
	Delta   int64  `json:"delta,omitempty"`   // Used for: Increment (amount in the request, new value in the response)
	Durable bool   `json:"durable,omitempty"` // Used for: Increment requests

	// Response only fields
	Ok      bool   `json:"ok,omitempty"`       // Used for: Get, Has, SetIfUnset, CompareAndSet responses
	Err     string `json:"err,omitempty"`      // Empty if no error, otherwise contains the error message
	ErrCode uint64 `json:"err_code,omitempty"` // store.RetCode of the error, zero if the error is not a store error

	// Meta information
	Meta []byte `json:"meta,omitempty"` // Used for: CompareAndSet (expected value), Custom
}

// withErr fills the error fields of a response.
func (m *Message) withErr(err error) *Message {
	if err == nil {
		return m
	}
	m.Err = err.Error()
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		m.Err = storeErr.Msg
		m.ErrCode = uint64(storeErr.Code)
	}
	return m
}

// Error returns the error carried by a response, or nil. Store errors are restored as *store.Error.
func (m *Message) Error() error {
	if m.Err == "" && m.ErrCode == 0 {
		return nil
	}
	if m.ErrCode != 0 {
		return store.NewError(store.RetCode(m.ErrCode), m.Err)
	}
	return errors.New(m.Err)
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewSetRequest creates a new Set request
func NewSetRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTKVSet,
		Key:     key,
		Value:   value,
	}
}

// NewSetResponse creates a new Set response
func NewSetResponse(err error) *Message {
	return (&Message{MsgType: MsgTKVSet}).withErr(err)
}

// NewDeleteRequest creates a new Delete request
func NewDeleteRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVDelete,
		Key:     key,
	}
}

// NewDeleteResponse creates a new Delete response
func NewDeleteResponse(err error) *Message {
	return (&Message{MsgType: MsgTKVDelete}).withErr(err)
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVGet,
		Key:     key,
	}
}

// NewGetResponse creates a new Get response
func NewGetResponse(value []byte, ok bool, err error) *Message {
	return (&Message{
		MsgType: MsgTKVGet,
		Ok:      ok,
		Value:   value,
	}).withErr(err)
}

// NewHasRequest creates a new Has request
func NewHasRequest(key string) *Message {
	return &Message{
		MsgType: MsgTKVHas,
		Key:     key,
	}
}

// NewHasResponse creates a new Has response
func NewHasResponse(ok bool, err error) *Message {
	return (&Message{
		MsgType: MsgTKVHas,
		Ok:      ok,
	}).withErr(err)
}

// NewIncrementRequest creates a new Increment request
func NewIncrementRequest(key string, delta int64, durable bool) *Message {
	return &Message{
		MsgType: MsgTKVIncrement,
		Key:     key,
		Delta:   delta,
		Durable: durable,
	}
}

// NewIncrementResponse creates a new Increment response carrying the new counter value
func NewIncrementResponse(value int64, err error) *Message {
	return (&Message{
		MsgType: MsgTKVIncrement,
		Delta:   value,
	}).withErr(err)
}

// NewSetIfUnsetRequest creates a new SetIfUnset request
func NewSetIfUnsetRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTKVSetIfUnset,
		Key:     key,
		Value:   value,
	}
}

// NewSetIfUnsetResponse creates a new SetIfUnset response, ok tells whether the value was stored
func NewSetIfUnsetResponse(ok bool, err error) *Message {
	return (&Message{
		MsgType: MsgTKVSetIfUnset,
		Ok:      ok,
	}).withErr(err)
}

// NewCompareAndSetRequest creates a new CompareAndSet request. The expected value
// travels in Meta, an empty one means the key must be absent.
func NewCompareAndSetRequest(key string, expected, value []byte) *Message {
	return &Message{
		MsgType: MsgTKVCompareAndSet,
		Key:     key,
		Value:   value,
		Meta:    expected,
	}
}

// NewCompareAndSetResponse creates a new CompareAndSet response, ok tells whether the value was replaced
func NewCompareAndSetResponse(ok bool, err error) *Message {
	return (&Message{
		MsgType: MsgTKVCompareAndSet,
		Ok:      ok,
	}).withErr(err)
}

// NewAppendRequest creates a new Append request
func NewAppendRequest(key string, value []byte) *Message {
	return &Message{
		MsgType: MsgTKVAppend,
		Key:     key,
		Value:   value,
	}
}

// NewAppendResponse creates a new Append response
func NewAppendResponse(err error) *Message {
	return (&Message{MsgType: MsgTKVAppend}).withErr(err)
}

// NewCustomRequest creates a new Custom request
func NewCustomRequest(meta []byte) *Message {
	return &Message{
		MsgType: MsgTCustom,
		Meta:    meta,
	}
}

// NewCustomResponse creates a new Custom response
func NewCustomResponse(meta []byte, err error) *Message {
	return (&Message{
		MsgType: MsgTCustom,
		Meta:    meta,
	}).withErr(err)
}

// NewErrorResponse creates a new Error response
func NewErrorResponse(err string) *Message {
	return &Message{
		MsgType: MsgTError,
		Err:     err,
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the type of message used in RPC communication.
type MessageType uint8

var messageTypeNames = map[MessageType]string{
	MsgTSuccess:         "success",
	MsgTError:           "error",
	MsgTKVSet:           "set",
	MsgTKVDelete:        "delete",
	MsgTKVGet:           "get",
	MsgTKVHas:           "has",
	MsgTKVIncrement:     "increment",
	MsgTKVSetIfUnset:    "set_if_unset",
	MsgTKVCompareAndSet: "compare_and_set",
	MsgTKVAppend:        "append",
	MsgTCustom:          "custom",
}

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON implements the json.Marshaller interface for MessageType.
// This allows MessageType to be serialized as a string in JSON.
func (t MessageType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for MessageType.
// This allows MessageType to be deserialized from a string in JSON.
func (t *MessageType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for msgType, name := range messageTypeNames {
		if name == s {
			*t = msgType
			return nil
		}
	}
	return fmt.Errorf("unknown message type: %s", s)
}

// --------------------------------------------------------------------------
// Message Type Constants
// --------------------------------------------------------------------------

const (
	// General message types

	MsgTUnknown MessageType = iota
	MsgTSuccess             // Indicates a successful operation
	MsgTError               // Indicates an error occurred

	// IStore operations

	MsgTKVSet           // Set a key-value pair
	MsgTKVDelete        // Delete a key-value pair
	MsgTKVGet           // Get a value by key
	MsgTKVHas           // Check if a key exists
	MsgTKVIncrement     // Add a delta to a counter
	MsgTKVSetIfUnset    // Set a key-value pair if the key is absent
	MsgTKVCompareAndSet // Replace a value if it matches the expected one
	MsgTKVAppend        // Append to a value

	// Custom operations

	MsgTCustom // Custom operation type
)
