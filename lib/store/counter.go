package store

import (
	"encoding/binary"
	"fmt"
	"math"
)

// CounterSize is the length of an encoded counter value.
const CounterSize = 8

// EncodeCounter encodes a counter as 8 byte big-endian two's complement.
func EncodeCounter(v int64) []byte {
	return binary.BigEndian.AppendUint64(make([]byte, 0, CounterSize), uint64(v))
}

// DecodeCounter decodes a value written by EncodeCounter. A nil value decodes to zero.
func DecodeCounter(b []byte) (int64, error) {
	switch len(b) {
	case 0:
		return 0, nil
	case CounterSize:
		return int64(binary.BigEndian.Uint64(b)), nil
	default:
		return 0, NewError(RetCInvalidOperation, fmt.Sprintf("value of %d bytes is not a counter", len(b)))
	}
}

// AddCounter returns cur+delta or an error if the sum overflows int64.
func AddCounter(cur, delta int64) (int64, error) {
	if (delta > 0 && cur > math.MaxInt64-delta) || (delta < 0 && cur < math.MinInt64-delta) {
		return 0, NewError(RetCInvalidOperation, fmt.Sprintf("increment by %d overflows counter value %d", delta, cur))
	}
	return cur + delta, nil
}
