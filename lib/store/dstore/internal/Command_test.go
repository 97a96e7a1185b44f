package internal

import (
	"bytes"
	"math"
	"testing"
)

// TestSizeBytes tests the SizeBytes method
func TestSizeBytes(t *testing.T) {
	tests := []struct {
		name     string
		command  Command
		expected int
	}{
		{
			name:     "Set with key and value",
			command:  Command{Type: CommandTSet, Key: "testkey", Value: []byte("testvalue")},
			expected: 1 + 8 + 4 + 4 + 7 + 9, // Type + Delta + KeyLen + ExpectedLen + Key + Value
		},
		{
			name:     "Increment without value",
			command:  Command{Type: CommandTIncrement, Key: "counter", Delta: -3},
			expected: 1 + 8 + 4 + 4 + 7,
		},
		{
			name:     "CompareAndSet with expected value",
			command:  Command{Type: CommandTCompareAndSet, Key: "k", Expected: []byte("old"), Value: []byte("new")},
			expected: 1 + 8 + 4 + 4 + 1 + 3 + 3,
		},
		{
			name:     "Delete with empty key",
			command:  Command{Type: CommandTDelete},
			expected: 1 + 8 + 4 + 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if size := tt.command.SizeBytes(); size != tt.expected {
				t.Errorf("SizeBytes() = %v, want %v", size, tt.expected)
			}
			if got := len(tt.command.Serialize()); got != tt.expected {
				t.Errorf("len(Serialize()) = %v, want %v", got, tt.expected)
			}
		})
	}
}

// TestSerializeDeserialize tests both Serialize and Deserialize methods
func TestSerializeDeserialize(t *testing.T) {
	tests := []struct {
		name    string
		command Command
	}{
		{name: "Set", command: Command{Type: CommandTSet, Key: "testkey", Value: []byte("testvalue")}},
		{name: "Delete", command: Command{Type: CommandTDelete, Key: "testkey"}},
		{name: "Increment positive", command: Command{Type: CommandTIncrement, Key: "c", Delta: 42}},
		{name: "Increment min", command: Command{Type: CommandTIncrement, Key: "c", Delta: math.MinInt64}},
		{name: "Binary key", command: Command{Type: CommandTIncrement, Key: "\x01t\x00\x02", Delta: 1}},
		{name: "SetIfUnset", command: Command{Type: CommandTSetIfUnset, Key: "k", Value: []byte("v")}},
		{name: "CompareAndSet", command: Command{Type: CommandTCompareAndSet, Key: "k", Expected: []byte("old"), Value: []byte("new")}},
		{name: "CompareAndSet absent", command: Command{Type: CommandTCompareAndSet, Key: "k", Value: []byte("new")}},
		{name: "Append", command: Command{Type: CommandTAppend, Key: "log", Value: []byte("line")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Command
			if err := got.Deserialize(tt.command.Serialize()); err != nil {
				t.Fatalf("Deserialize() error = %v", err)
			}
			if got.Type != tt.command.Type || got.Key != tt.command.Key || got.Delta != tt.command.Delta {
				t.Errorf("Deserialize() = %+v, want %+v", got, tt.command)
			}
			if !bytes.Equal(got.Value, tt.command.Value) {
				t.Errorf("Value = %q, want %q", got.Value, tt.command.Value)
			}
			if !bytes.Equal(got.Expected, tt.command.Expected) {
				t.Errorf("Expected = %q, want %q", got.Expected, tt.command.Expected)
			}
		})
	}
}

// TestDeserializeErrors tests handling of truncated input
func TestDeserializeErrors(t *testing.T) {
	valid := (&Command{Type: CommandTSet, Key: "key", Value: []byte("v")}).Serialize()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "short header", data: valid[:headerSize-1]},
		{name: "truncated key", data: valid[:headerSize+1]},
		{name: "truncated expected value", data: (&Command{Type: CommandTCompareAndSet, Key: "k", Expected: []byte("old")}).Serialize()[:headerSize+2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cmd Command
			if err := cmd.Deserialize(tt.data); err == nil {
				t.Error("Deserialize() expected error")
			}
		})
	}
}

// TestDeserializeReusesBuffer tests that a command can be reused without leaking the old value
func TestDeserializeReusesBuffer(t *testing.T) {
	cmd := Command{Value: make([]byte, 0, 64)}
	if err := cmd.Deserialize((&Command{Type: CommandTSet, Key: "a", Value: []byte("xyz")}).Serialize()); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Deserialize((&Command{Type: CommandTIncrement, Key: "b", Delta: 1}).Serialize()); err != nil {
		t.Fatal(err)
	}
	if cmd.Value != nil {
		t.Errorf("Value = %q, want nil", cmd.Value)
	}
}
