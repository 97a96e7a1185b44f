package base

import (
	"bytes"
	"encoding/binary"
	"net"
	"testing"
)

// TestFrameRoundTrip tests writing and reading frames over a pipe
func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		shardID uint64
		reqID   uint64
		data    []byte
		buf     []byte
	}{
		{name: "small payload with pooled buffer", shardID: 1, reqID: 2, data: []byte("hello"), buf: make([]byte, 64)},
		{name: "payload larger than buffer", shardID: 3, reqID: 4, data: bytes.Repeat([]byte{7}, 100), buf: make([]byte, 32)},
		{name: "empty payload", shardID: 5, reqID: 6, data: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, server := net.Pipe()
			defer client.Close()
			defer server.Close()

			go writeFrame(client, tt.shardID, tt.reqID, tt.data)

			shardID, reqID, data, err := readFrame(server, tt.buf)
			if err != nil {
				t.Fatalf("readFrame() error = %v", err)
			}
			if shardID != tt.shardID || reqID != tt.reqID || !bytes.Equal(data, tt.data) {
				t.Errorf("readFrame() = (%d, %d, %q), want (%d, %d, %q)", shardID, reqID, data, tt.shardID, tt.reqID, tt.data)
			}
		})
	}
}

// TestReadFrameTooLarge tests that oversized frames are rejected before allocation
func TestReadFrameTooLarge(t *testing.T) {
	header := make([]byte, frameHeaderSize)
	binary.BigEndian.PutUint32(header[16:20], maxFrameSize+1)
	if _, _, _, err := readFrame(bytes.NewReader(header), nil); err == nil {
		t.Error("readFrame() expected error for oversized frame")
	}
}
