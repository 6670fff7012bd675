// Package presenter implements the pixel-forwarding channel described in
// spec.md §4.4: a framed, magic-prefixed, resynchronizing sidecar stream
// used to ship rendered pixel buffers to a separate presenter process. It
// is independent of internal/wire — distinct magic, distinct header,
// distinct recovery behavior on corruption.
package presenter

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// HeaderSize is the fixed 20-byte frame header: magic(4) + width(4) +
// height(4) + format(4) + data_len(4).
const HeaderSize = 20

// Format identifies a pixel frame's channel layout.
type Format uint32

const (
	FormatARGB8888 Format = 0
	FormatXRGB8888 Format = 1
)

// magic is the 4-byte frame prefix, ASCII "WPRD" (WinPipe RenDer).
var magic = [4]byte{'W', 'P', 'R', 'D'}

// Frame is one self-contained pixel buffer destined for the presenter.
type Frame struct {
	Width  uint32
	Height uint32
	Format Format
	Data   []byte
}

// Encode serializes f as a direct concatenation of its fields, per
// spec.md §4.4's frame layout.
func (f Frame) Encode() []byte {
	buf := make([]byte, HeaderSize+len(f.Data))
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], f.Width)
	binary.LittleEndian.PutUint32(buf[8:12], f.Height)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(f.Format))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(f.Data)))
	copy(buf[20:], f.Data)
	return buf
}

// ErrFrameTooShort indicates fewer than HeaderSize bytes were supplied to
// Decode directly (the streaming Decoder never returns this — it instead
// yields ErrNeedMore until enough bytes have arrived).
var ErrFrameTooShort = errors.New("presenter: frame shorter than header")

// Decode parses a single frame from data, which must hold at least one
// complete, magic-prefixed frame at offset 0. Unrecognized format values
// decode as ARGB8888, per spec.md §4.4.
func Decode(data []byte) (Frame, error) {
	if len(data) < HeaderSize {
		return Frame{}, ErrFrameTooShort
	}
	if !bytes.Equal(data[0:4], magic[:]) {
		return Frame{}, errors.New("presenter: bad magic")
	}
	width := binary.LittleEndian.Uint32(data[4:8])
	height := binary.LittleEndian.Uint32(data[8:12])
	formatVal := binary.LittleEndian.Uint32(data[12:16])
	dataLen := binary.LittleEndian.Uint32(data[16:20])

	format := Format(formatVal)
	if format != FormatARGB8888 && format != FormatXRGB8888 {
		format = FormatARGB8888
	}

	if uint64(len(data)) < uint64(HeaderSize)+uint64(dataLen) {
		return Frame{}, errors.New("presenter: incomplete frame data")
	}

	payload := make([]byte, dataLen)
	copy(payload, data[HeaderSize:uint64(HeaderSize)+uint64(dataLen)])

	return Frame{Width: width, Height: height, Format: format, Data: payload}, nil
}
