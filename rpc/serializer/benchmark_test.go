package serializer

import (
	"testing"

	"github.com/ValentinKolb/aKV/rpc/common"
)

// benchmarkMessages returns the messages exchanged on the hot path of a counter client
func benchmarkMessages() map[string]common.Message {
	return map[string]common.Message{
		"Success": {MsgType: common.MsgTSuccess},
		"IncrementRequest": {
			MsgType: common.MsgTKVIncrement,
			Key:     "\x06events\x0buser-123456\x01d\x05views",
			Delta:   17,
			Durable: true,
		},
		"IncrementResponse": {
			MsgType: common.MsgTKVIncrement,
			Delta:   1 << 40,
		},
		"SetLargeValue": {
			MsgType: common.MsgTKVSet,
			Key:     "key",
			Value:   make([]byte, 1024*16),
		},
		"StoreError": {
			MsgType: common.MsgTKVIncrement,
			Err:     "increment by 1 overflows counter value 9223372036854775807",
			ErrCode: 3,
		},
	}
}

// BenchmarkSerialize benchmarks serialization for all implementations with various message types
func BenchmarkSerialize(b *testing.B) {
	for name, factory := range testSerializers {
		for msgName, msg := range benchmarkMessages() {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				data, _ := serializer.Serialize(msg)
				b.ReportMetric(float64(len(data)), "bytes")
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if _, err := serializer.Serialize(msg); err != nil {
						b.Fatalf("Failed to serialize: %v", err)
					}
				}
			})
		}
	}
}

// BenchmarkDeserialize benchmarks deserialization for all implementations with various message types
func BenchmarkDeserialize(b *testing.B) {
	for name, factory := range testSerializers {
		for msgName, msg := range benchmarkMessages() {
			b.Run(name+"_"+msgName, func(b *testing.B) {
				serializer := factory()
				data, err := serializer.Serialize(msg)
				if err != nil {
					b.Fatalf("Failed to serialize: %v", err)
				}
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					var result common.Message
					if err := serializer.Deserialize(data, &result); err != nil {
						b.Fatalf("Failed to deserialize: %v", err)
					}
				}
			})
		}
	}
}
