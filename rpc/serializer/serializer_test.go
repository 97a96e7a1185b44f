package serializer

import (
	"bytes"
	"math"
	"reflect"
	"testing"

	"github.com/ValentinKolb/aKV/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":   NewJSONSerializer,
	"GOB":    NewGOBSerializer,
	"Binary": NewBinarySerializer,
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	return []common.Message{
		// Basic message with just a type
		{MsgType: common.MsgTSuccess},

		// Set request
		{
			MsgType: common.MsgTKVSet,
			Key:     "test-key",
			Value:   []byte("test-value"),
		},

		// Get response
		{
			MsgType: common.MsgTKVGet,
			Key:     "test-key",
			Value:   []byte("test-value"),
			Ok:      true,
		},

		// Increment request with negative delta
		{
			MsgType: common.MsgTKVIncrement,
			Key:     "\x01t\x03row\x01f\x01q",
			Delta:   -42,
			Durable: true,
		},

		// Increment response with extreme value
		{
			MsgType: common.MsgTKVIncrement,
			Delta:   math.MinInt64,
		},

		// CompareAndSet request, the expected value travels in Meta
		*common.NewCompareAndSetRequest("test-key", []byte("old"), []byte("new")),

		// SetIfUnset response
		*common.NewSetIfUnsetResponse(true, nil),

		// Store error response
		{
			MsgType: common.MsgTKVIncrement,
			Err:     "value of 5 bytes is not a counter",
			ErrCode: 3,
		},

		// Error response
		{
			MsgType: common.MsgTError,
			Err:     "test error message",
		},

		// Message with all fields filled
		{
			MsgType: common.MsgTCustom,
			Key:     "test-key",
			Value:   []byte("test-value"),
			Delta:   math.MaxInt64,
			Durable: true,
			Ok:      true,
			Err:     "partial failure",
			ErrCode: 1,
			Meta:    []byte("test-meta-data"),
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				var result common.Message
				if err := serializer.Deserialize(data, &result); err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestMessageTypes tests each message type with each serializer
func TestMessageTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for msgType := common.MsgTSuccess; msgType <= common.MsgTCustom; msgType++ {
				data, err := serializer.Serialize(common.Message{MsgType: msgType})
				if err != nil {
					t.Errorf("Failed to serialize message type %s: %v", msgType, err)
					continue
				}

				var result common.Message
				if err := serializer.Deserialize(data, &result); err != nil {
					t.Errorf("Failed to deserialize message type %s: %v", msgType, err)
					continue
				}
				if result.MsgType != msgType {
					t.Errorf("Message type doesn't match after round trip: Expected %s, got %s", msgType, result.MsgType)
				}
			}
		})
	}
}

// TestBinarySerializerSpecific tests specific edge cases for the binary serializer
func TestBinarySerializerSpecific(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name string
		msg  common.Message
	}{
		{
			name: "Empty message",
			msg:  common.Message{},
		},
		{
			name: "Empty value slice but not nil",
			msg:  common.Message{MsgType: common.MsgTKVSet, Key: "test", Value: []byte{}},
		},
		{
			name: "Empty meta slice but not nil",
			msg:  common.Message{MsgType: common.MsgTCustom, Meta: []byte{}},
		},
		{
			name: "Durable flag without payload",
			msg:  common.Message{MsgType: common.MsgTKVIncrement, Key: "c", Durable: true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := serializer.Serialize(tc.msg)
			if err != nil {
				t.Fatalf("Failed to serialize: %v", err)
			}

			// reuse a message with stale content to check that every field is reset
			result := common.Message{Key: "stale", Delta: 9, Value: []byte("stale"), Ok: true, ErrCode: 2}
			if err := serializer.Deserialize(data, &result); err != nil {
				t.Fatalf("Failed to deserialize: %v", err)
			}

			if tc.msg.MsgType != result.MsgType || tc.msg.Key != result.Key || tc.msg.Delta != result.Delta ||
				tc.msg.Durable != result.Durable || tc.msg.Ok != result.Ok || tc.msg.ErrCode != result.ErrCode {
				t.Errorf("Scalar mismatch: expected %+v, got %+v", tc.msg, result)
			}
			if (tc.msg.Value == nil) != (result.Value == nil) || !bytes.Equal(tc.msg.Value, result.Value) {
				t.Errorf("Value mismatch: expected %#v, got %#v", tc.msg.Value, result.Value)
			}
			if (tc.msg.Meta == nil) != (result.Meta == nil) || !bytes.Equal(tc.msg.Meta, result.Meta) {
				t.Errorf("Meta mismatch: expected %#v, got %#v", tc.msg.Meta, result.Meta)
			}
		})
	}
}

// TestInvalidBinaryData tests how the binary serializer handles corrupt or invalid data
func TestInvalidBinaryData(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{name: "Empty data", data: []byte{}, expectError: true},
		{name: "Too short header", data: []byte{1}, expectError: true},
		{name: "Valid header only", data: []byte{1, 0}},
		{name: "Invalid length for key", data: []byte{1, hasKey, 0, 0, 0, 5, 'a', 'b', 'c'}, expectError: true},
		{name: "Truncated delta", data: []byte{1, hasDelta, 0, 0, 0}, expectError: true},
		{name: "Invalid length for value", data: []byte{1, hasValue, 0, 0, 0, 10}, expectError: true},
		{name: "Missing error code", data: []byte{1, hasErrCode}, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var msg common.Message
			err := serializer.Deserialize(tc.data, &msg)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}
