package store

import (
	"errors"
	"math"
	"testing"
)

// TestCounterEncoding tests the counter wire format
func TestCounterEncoding(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		want    int64
		wantErr bool
	}{
		{name: "absent", raw: nil, want: 0},
		{name: "positive", raw: EncodeCounter(42), want: 42},
		{name: "negative", raw: EncodeCounter(-7), want: -7},
		{name: "min", raw: EncodeCounter(math.MinInt64), want: math.MinInt64},
		{name: "not a counter", raw: []byte("hello"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCounter(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOperation) {
					t.Errorf("DecodeCounter() error = %v, want invalid operation", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("DecodeCounter() = (%d, %v), want (%d, nil)", got, err, tt.want)
			}
		})
	}
}

// TestAddCounter tests overflow detection
func TestAddCounter(t *testing.T) {
	tests := []struct {
		cur, delta int64
		wantErr    bool
	}{
		{cur: 1, delta: 2},
		{cur: math.MaxInt64, delta: 0},
		{cur: math.MaxInt64 - 1, delta: 1},
		{cur: math.MaxInt64, delta: 1, wantErr: true},
		{cur: math.MinInt64, delta: -1, wantErr: true},
		{cur: math.MinInt64, delta: math.MaxInt64},
	}

	for _, tt := range tests {
		got, err := AddCounter(tt.cur, tt.delta)
		if (err != nil) != tt.wantErr {
			t.Errorf("AddCounter(%d, %d) error = %v, wantErr %v", tt.cur, tt.delta, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.cur+tt.delta {
			t.Errorf("AddCounter(%d, %d) = %d", tt.cur, tt.delta, got)
		}
	}
}
