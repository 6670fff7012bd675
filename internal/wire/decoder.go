package wire

import (
	"encoding/binary"
	"errors"
)

// ErrNeedMore is returned by Decoder.TryPop when the buffered bytes do not
// yet contain a complete record. It is a control-flow signal, not a
// failure: the caller should Push more bytes and try again.
var ErrNeedMore = errors.New("wire: need more data")

// maxBufferedMultiplier sets, as a multiple of MaxMessageSize, the buffer
// capacity above which TryPop reallocates a smaller buffer once less than
// half of it is in use. Push does not bound how much is buffered.
const maxBufferedMultiplier = 4

// Decoder incrementally parses records out of a byte stream. It owns a
// growable internal buffer; Push appends to it, TryPop returns one complete
// record at a time, and Drain pops as many as are available.
//
// A Decoder is not safe for concurrent use; per spec.md's concurrency
// model each connection owns exactly one Decoder and never shares it.
type Decoder struct {
	buf      []byte
	discards uint64
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Push appends bytes read from the transport to the decoder's buffer.
func (d *Decoder) Push(b []byte) {
	d.buf = append(d.buf, b...)
}

// Buffered returns the number of bytes currently held by the decoder.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// TryPop returns the next complete record, or ErrNeedMore if the buffer
// does not yet hold one. A record whose declared size is outside
// [HeaderSize, MaxMessageSize] is treated as stream corruption: the entire
// buffer is discarded and ErrNeedMore is returned so the caller's next
// Push starts fresh (the enclosing connection is expected to close rather
// than keep reading, per spec.md §4.1 step 3).
func (d *Decoder) TryPop() (Record, error) {
	if len(d.buf) < HeaderSize {
		return Record{}, ErrNeedMore
	}

	sizeOpcode := binary.LittleEndian.Uint32(d.buf[4:8])
	size := int(sizeOpcode >> 16)
	opcode := uint16(sizeOpcode & 0xffff)

	if size < HeaderSize || size > MaxMessageSize {
		d.buf = d.buf[:0]
		d.discards++
		return Record{}, ErrNeedMore
	}

	if len(d.buf) < size {
		return Record{}, ErrNeedMore
	}

	objectID := binary.LittleEndian.Uint32(d.buf[0:4])
	payload := make([]byte, size-HeaderSize)
	copy(payload, d.buf[HeaderSize:size])

	remaining := len(d.buf) - size
	copy(d.buf, d.buf[size:])
	d.buf = d.buf[:remaining]

	if cap(d.buf) > maxBufferedMultiplier*MaxMessageSize && remaining < cap(d.buf)/2 {
		shrunk := make([]byte, remaining)
		copy(shrunk, d.buf)
		d.buf = shrunk
	}

	return Record{ObjectID: objectID, Opcode: opcode, Payload: payload}, nil
}

// Discards reports how many times TryPop has rejected and cleared the
// buffer for an out-of-range declared size, for callers that want to
// surface framing corruption as a metric.
func (d *Decoder) Discards() uint64 {
	return d.discards
}

// Drain repeatedly calls TryPop until it would need more data, invoking fn
// for each decoded record in order.
func (d *Decoder) Drain(fn func(Record)) {
	for {
		rec, err := d.TryPop()
		if err != nil {
			return
		}
		fn(rec)
	}
}
