package coalesce

import "testing"

// TestIdentityKey tests that keys are unambiguous and decodable
func TestIdentityKey(t *testing.T) {
	tests := []struct {
		name string
		a, b Identity
		same bool
	}{
		{
			name: "equal identities",
			a:    NewIdentity([]byte("t"), []byte("r"), []byte("f"), []byte("q")),
			b:    NewIdentity([]byte("t"), []byte("r"), []byte("f"), []byte("q")),
			same: true,
		},
		{
			name: "shifted boundary between row and family",
			a:    NewIdentity([]byte("t"), []byte("ab"), []byte("c"), []byte("q")),
			b:    NewIdentity([]byte("t"), []byte("a"), []byte("bc"), []byte("q")),
		},
		{
			name: "empty qualifier vs missing byte",
			a:    NewIdentity([]byte("t"), []byte("r"), []byte("f"), nil),
			b:    NewIdentity([]byte("t"), []byte("r"), []byte("f"), []byte{0}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Key() == tt.b.Key(); got != tt.same {
				t.Errorf("keys equal = %v, want %v", got, tt.same)
			}
			if got := tt.a.Equal(tt.b); got != tt.same {
				t.Errorf("Equal() = %v, want %v", got, tt.same)
			}
			parsed, err := ParseKey(tt.a.Key())
			if err != nil {
				t.Fatalf("ParseKey() error = %v", err)
			}
			if !parsed.Equal(tt.a) {
				t.Errorf("ParseKey() = %v, want %v", parsed, tt.a)
			}
		})
	}
}

// TestParseKeyMalformed tests that truncated keys are rejected
func TestParseKeyMalformed(t *testing.T) {
	key := NewIdentity([]byte("table"), []byte("row"), []byte("f"), []byte("q")).Key()
	for _, bad := range []string{"", key[:len(key)-1], key + "x"} {
		if _, err := ParseKey(bad); err == nil {
			t.Errorf("ParseKey(%q) expected error", bad)
		}
	}
}

// TestNewIdentityCopies tests that the identity does not alias the caller's buffers
func TestNewIdentityCopies(t *testing.T) {
	row := []byte("row")
	id := NewIdentity([]byte("t"), row, nil, nil)
	row[0] = 'x'
	if string(id.Row) != "row" {
		t.Errorf("Row = %q, want %q", id.Row, "row")
	}
}
