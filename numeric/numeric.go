// Package numeric converts big-endian byte slices of arbitrary length into
// fixed-width unsigned integers, as used by the freezer index and by RLP
// length prefixes and scalar payloads.
package numeric

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrConversion is returned when a slice cannot be converted to the requested width.
var ErrConversion = errors.New("numeric conversion failed")

// Uint16BE decodes exactly two big-endian bytes.
func Uint16BE(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, fmt.Errorf("%w: want 2 bytes for uint16, got %d", ErrConversion, len(b))
	}
	return binary.BigEndian.Uint16(b), nil
}

// Uint32BE decodes exactly four big-endian bytes.
func Uint32BE(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("%w: want 4 bytes for uint32, got %d", ErrConversion, len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

// UintBEPadded decodes up to eight big-endian bytes, left padding short
// input with zeros. Input longer than eight bytes is truncated to its
// leading eight bytes.
func UintBEPadded(b []byte) uint64 {
	if len(b) > 8 {
		b = b[:8]
	}
	var buf [8]byte
	copy(buf[8-len(b):], b)
	return binary.BigEndian.Uint64(buf[:])
}

// Uint32EndBE decodes the last four bytes of b, left padding shorter input.
func Uint32EndBE(b []byte) uint32 {
	if len(b) > 4 {
		b = b[len(b)-4:]
	}
	var buf [4]byte
	copy(buf[4-len(b):], b)
	return binary.BigEndian.Uint32(buf[:])
}

// Uint64EndBE decodes the last eight bytes of b, left padding shorter input.
func Uint64EndBE(b []byte) uint64 {
	if len(b) > 8 {
		b = b[len(b)-8:]
	}
	var buf [8]byte
	copy(buf[8-len(b):], b)
	return binary.BigEndian.Uint64(buf[:])
}
