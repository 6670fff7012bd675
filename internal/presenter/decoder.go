package presenter

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// ErrNeedMore is the decoder's "not enough data yet" sentinel, mirroring
// internal/wire.ErrNeedMore's role: control flow, not a real error.
var ErrNeedMore = errors.New("presenter: need more data")

// Decoder implements the streaming, resynchronizing frame decoder from
// spec.md §4.4. Unlike internal/wire.Decoder, corruption does not discard
// the whole buffer: it scans forward for the next magic occurrence so a
// later valid frame on the stream can still be recovered.
type Decoder struct {
	buf []byte
}

// NewDecoder returns an empty streaming decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Push appends b to the decoder's internal buffer.
func (d *Decoder) Push(b []byte) {
	d.buf = append(d.buf, b...)
}

// Buffered reports the number of bytes currently held.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// TryPop yields the next complete frame, or ErrNeedMore if none is yet
// available. On a bad-magic or truncated-parse condition it resynchronizes
// per spec.md §4.4 steps 2 and 5 rather than discarding everything.
func (d *Decoder) TryPop() (Frame, error) {
	if len(d.buf) < HeaderSize {
		return Frame{}, ErrNeedMore
	}

	if !bytes.Equal(d.buf[0:4], magic[:]) {
		if pos := bytes.Index(d.buf, magic[:]); pos >= 0 {
			d.buf = d.buf[pos:]
		} else {
			d.buf = d.buf[:0]
		}
		return Frame{}, ErrNeedMore
	}

	dataLen := binary.LittleEndian.Uint32(d.buf[16:20])
	totalSize := uint64(HeaderSize) + uint64(dataLen)
	if uint64(len(d.buf)) < totalSize {
		return Frame{}, ErrNeedMore
	}

	frame, err := Decode(d.buf[:totalSize])
	if err != nil {
		// Magic matched but the rest didn't parse; drop just the magic so
		// the next scan can find a later, valid occurrence.
		d.buf = d.buf[4:]
		return Frame{}, ErrNeedMore
	}

	d.buf = d.buf[totalSize:]
	return frame, nil
}

// Drain repeatedly pops frames, invoking fn for each, until ErrNeedMore
// leaves the buffer unchanged. An ErrNeedMore that came with a resync
// (bytes dropped ahead of a magic) does not stop it, so a frame that
// follows garbage is delivered in the same call.
func (d *Decoder) Drain(fn func(Frame)) {
	for {
		before := len(d.buf)
		frame, err := d.TryPop()
		if err != nil {
			if len(d.buf) > 0 && len(d.buf) < before {
				continue
			}
			return
		}
		fn(frame)
	}
}
