package protoengine

import "encoding/binary"

// putU32 appends a little-endian u32 to buf and returns the result.
func putU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// putI32 appends a little-endian i32 to buf and returns the result.
func putI32(buf []byte, v int32) []byte {
	return putU32(buf, uint32(v))
}

// putString appends s per spec.md §4.3's packing rule: a u32 length
// (including the trailing nul), the raw bytes, a nul byte, then
// zero-padding out to a 4-byte boundary.
func putString(buf []byte, s string) []byte {
	n := len(s) + 1
	buf = putU32(buf, uint32(n))
	buf = append(buf, s...)
	buf = append(buf, 0)
	if pad := (4 - n%4) % 4; pad != 0 {
		buf = append(buf, make([]byte, pad)...)
	}
	return buf
}

// readU32 reads a little-endian u32 at offset off. ok is false if the
// payload is too short; callers treat that as unknown-dispatch per
// spec.md §7 (unbound/malformed requests are silently absorbed).
func readU32(payload []byte, off int) (uint32, bool) {
	if off < 0 || off+4 > len(payload) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(payload[off : off+4]), true
}

// readU32Last reads the trailing 4 bytes of payload, per the "trust the
// client" reading of wl_registry.bind documented in spec.md §9: new_id is
// taken from the final 4 octets without parsing the intervening string
// and version fields.
func readU32Last(payload []byte) (uint32, bool) {
	if len(payload) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(payload[len(payload)-4:]), true
}
