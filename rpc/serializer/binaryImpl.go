package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/aKV/rpc/common"
)

// NewBinarySerializer creates a new serializer using a custom binary format
// optimized for speed and efficiency
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

// Bit flags to indicate which optional fields are present
const (
	hasKey     byte = 1 << 0
	hasDelta   byte = 1 << 1
	hasValue   byte = 1 << 2
	hasOk      byte = 1 << 3
	hasErr     byte = 1 << 4
	hasErrCode byte = 1 << 5
	hasMeta    byte = 1 << 6
	isDurable  byte = 1 << 7 // no payload
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

// Serialize writes the message type, a flags byte and the present fields in this order:
// key, delta, value, ok, err, err code, meta. Variable length fields are prefixed by their
// length as uint32, integers are big endian.
func (b binarySerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	result := make([]byte, 2, b.sizeBytes(msg))
	result[0] = byte(msg.MsgType)

	var flags byte
	if msg.Key != "" {
		flags |= hasKey
		result = appendBytes(result, []byte(msg.Key))
	}
	if msg.Delta != 0 {
		flags |= hasDelta
		result = binary.BigEndian.AppendUint64(result, uint64(msg.Delta))
	}
	if msg.Value != nil {
		flags |= hasValue
		result = appendBytes(result, msg.Value)
	}
	if msg.Ok {
		flags |= hasOk
		result = append(result, 1)
	}
	if msg.Err != "" {
		flags |= hasErr
		result = appendBytes(result, []byte(msg.Err))
	}
	if msg.ErrCode != 0 {
		flags |= hasErrCode
		result = binary.BigEndian.AppendUint64(result, msg.ErrCode)
	}
	if msg.Meta != nil {
		flags |= hasMeta
		result = appendBytes(result, msg.Meta)
	}
	if msg.Durable {
		flags |= isDurable
	}

	// Set flags byte after knowing which fields are present
	result[1] = flags
	return result, nil
}

func (b binarySerializerImpl) Deserialize(data []byte, msg *common.Message) error {
	if len(data) < 2 {
		return fmt.Errorf("data too short for message header")
	}
	msg.MsgType = common.MessageType(data[0])
	flags := data[1]
	r := reader{data: data, pos: 2}

	msg.Key = ""
	if flags&hasKey != 0 {
		msg.Key = string(r.bytes("key"))
	}

	msg.Delta = 0
	if flags&hasDelta != 0 {
		msg.Delta = int64(r.uint64("delta"))
	}

	msg.Value = nil
	if flags&hasValue != 0 {
		msg.Value = append([]byte{}, r.bytes("value")...)
	}

	msg.Ok = false
	if flags&hasOk != 0 {
		msg.Ok = r.byte("ok") != 0
	}

	msg.Err = ""
	if flags&hasErr != 0 {
		msg.Err = string(r.bytes("error"))
	}

	msg.ErrCode = 0
	if flags&hasErrCode != 0 {
		msg.ErrCode = r.uint64("error code")
	}

	msg.Meta = nil
	if flags&hasMeta != 0 {
		msg.Meta = append([]byte{}, r.bytes("meta")...)
	}

	msg.Durable = flags&isDurable != 0
	return r.err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// sizeBytes calculates the total size needed for serialization
func (b binarySerializerImpl) sizeBytes(msg common.Message) int {
	// 1 byte for MsgType + 1 byte for flags
	size := 2

	if msg.Key != "" {
		size += 4 + len(msg.Key)
	}
	if msg.Delta != 0 {
		size += 8
	}
	if msg.Value != nil {
		size += 4 + len(msg.Value)
	}
	if msg.Ok {
		size += 1
	}
	if msg.Err != "" {
		size += 4 + len(msg.Err)
	}
	if msg.ErrCode != 0 {
		size += 8
	}
	if msg.Meta != nil {
		size += 4 + len(msg.Meta)
	}
	return size
}

func appendBytes(dst, data []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(data)))
	return append(dst, data...)
}

// reader decodes fields sequentially and keeps the first error.
type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) take(n int, field string) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > len(r.data) {
		r.err = fmt.Errorf("data too short for %s", field)
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) byte(field string) byte {
	if b := r.take(1, field); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) uint64(field string) uint64 {
	if b := r.take(8, field); b != nil {
		return binary.BigEndian.Uint64(b)
	}
	return 0
}

func (r *reader) bytes(field string) []byte {
	lenBytes := r.take(4, field+" length")
	if lenBytes == nil {
		return nil
	}
	return r.take(int(binary.BigEndian.Uint32(lenBytes)), field+" data")
}
