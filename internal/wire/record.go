// Package wire implements the streaming frame codec for the display
// protocol: an 8-octet header (object id + packed size/opcode) followed by
// an opaque payload, little-endian throughout.
package wire

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// HeaderSize is the fixed size of a record header in bytes.
const HeaderSize = 8

// MaxMessageSize is the largest a full record (header + payload) may be.
const MaxMessageSize = 65536

// Record is one request or reply unit exchanged with a client.
type Record struct {
	ObjectID uint32
	Opcode   uint16
	Payload  []byte
}

// WireSize returns the total encoded size of r in bytes.
func (r *Record) WireSize() int {
	return HeaderSize + len(r.Payload)
}

var encodeBufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 256)
		return &b
	},
}

// Encode serializes r to its wire representation.
func Encode(r Record) ([]byte, error) {
	size := r.WireSize()
	if size < HeaderSize || size > MaxMessageSize {
		return nil, fmt.Errorf("wire: record size %d out of range [%d, %d]", size, HeaderSize, MaxMessageSize)
	}

	bp := encodeBufPool.Get().(*[]byte)
	buf := (*bp)[:0]
	if cap(buf) < size {
		buf = make([]byte, 0, size)
	}
	buf = buf[:HeaderSize]

	binary.LittleEndian.PutUint32(buf[0:4], r.ObjectID)
	sizeOpcode := (uint32(size) << 16) | uint32(r.Opcode)
	binary.LittleEndian.PutUint32(buf[4:8], sizeOpcode)
	buf = append(buf, r.Payload...)

	out := make([]byte, len(buf))
	copy(out, buf)

	*bp = buf
	encodeBufPool.Put(bp)

	return out, nil
}

// EncodeBatch concatenates the wire encoding of each record in order, with
// no padding between records.
func EncodeBatch(records []Record) ([]byte, error) {
	total := 0
	for i := range records {
		total += records[i].WireSize()
	}
	out := make([]byte, 0, total)
	for i := range records {
		enc, err := Encode(records[i])
		if err != nil {
			return nil, err
		}
		out = append(out, enc...)
	}
	return out, nil
}
