package coalesce

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Identity names a counter cell.
type Identity struct {
	Table     []byte
	Row       []byte
	Family    []byte
	Qualifier []byte
}

// NewIdentity returns an identity holding copies of the given byte slices.
func NewIdentity(table, row, family, qualifier []byte) Identity {
	return Identity{
		Table:     bytes.Clone(table),
		Row:       bytes.Clone(row),
		Family:    bytes.Clone(family),
		Qualifier: bytes.Clone(qualifier),
	}
}

// Equal reports whether both identities name the same cell.
func (id Identity) Equal(other Identity) bool {
	return bytes.Equal(id.Table, other.Table) &&
		bytes.Equal(id.Row, other.Row) &&
		bytes.Equal(id.Family, other.Family) &&
		bytes.Equal(id.Qualifier, other.Qualifier)
}

// Key returns an unambiguous string encoding of the identity.
// Every component is prefixed by its uvarint encoded length.
func (id Identity) Key() string {
	parts := [...][]byte{id.Table, id.Row, id.Family, id.Qualifier}

	size := 0
	for _, p := range parts {
		size += binary.MaxVarintLen64 + len(p)
	}
	buf := make([]byte, 0, size)
	for _, p := range parts {
		buf = binary.AppendUvarint(buf, uint64(len(p)))
		buf = append(buf, p...)
	}
	return string(buf)
}

// ParseKey decodes a key produced by Identity.Key.
func ParseKey(key string) (Identity, error) {
	var parts [4][]byte
	buf := []byte(key)
	for i := range parts {
		n, read := binary.Uvarint(buf)
		if read <= 0 || uint64(len(buf)-read) < n {
			return Identity{}, fmt.Errorf("coalesce: malformed identity key at component %d", i)
		}
		buf = buf[read:]
		parts[i] = buf[:n:n]
		buf = buf[n:]
	}
	if len(buf) != 0 {
		return Identity{}, fmt.Errorf("coalesce: %d trailing bytes in identity key", len(buf))
	}
	return Identity{Table: parts[0], Row: parts[1], Family: parts[2], Qualifier: parts[3]}, nil
}

// String implements fmt.Stringer.
func (id Identity) String() string {
	return fmt.Sprintf("%q/%q/%q:%q", id.Table, id.Row, id.Family, id.Qualifier)
}
