// Package endian provides byte order utilities for binary encoding and
// decoding of miniSEED records.
//
// It extends Go's standard encoding/binary package by combining ByteOrder
// and AppendByteOrder into a unified EndianEngine interface, and adds
// alignment-agnostic in-place swap primitives for the cases (v2 byte-order
// detection, record re-framing) where the byte order of an already-decoded
// header must be flipped without re-parsing it.
//
// # Basic usage
//
//	engine := endian.GetLittleEndianEngine()
//	v := engine.Uint32(data[4:8])
//
// For big-endian v2 records (byte order is a per-record property, detected
// during framing, not assumed):
//
//	engine := endian.GetBigEndianEngine()
//
// # Thread safety
//
// All functions in this package are safe for concurrent use. The returned
// EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library, making it fully compatible with existing Go code while
// providing access to both read/write and append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	// Create a byte slice pointing to the memory address of 'i'.
	// We only need the first byte.
	b := (*[2]byte)(unsafe.Pointer(&i))

	// Check the first byte at the lowest memory address
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// SwapInPlace16 reverses the byte order of a 16-bit quantity in place.
//
// Implemented as a byte exchange rather than a pointer-cast transpose, so
// it works on slices that are not naturally aligned (e.g. a sub-slice of a
// record buffer). Only b[0:2] is swapped; panics if len(b) < 2.
func SwapInPlace16(b []byte) {
	_ = b[1]
	b[0], b[1] = b[1], b[0]
}

// SwapInPlace32 reverses the byte order of a 32-bit quantity in place.
// Only b[0:4] is swapped; panics if len(b) < 4.
func SwapInPlace32(b []byte) {
	_ = b[3]
	v := binary.LittleEndian.Uint32(b)
	v = (v>>24)&0x000000FF | (v>>8)&0x0000FF00 | (v<<8)&0x00FF0000 | (v<<24)&0xFF000000
	binary.LittleEndian.PutUint32(b, v)
}

// SwapInPlace64 reverses the byte order of a 64-bit quantity in place.
//
// Note: some implementations swap 8-byte values via a 32-bit-word
// transpose, which inverts the high and low halves instead of fully
// reversing all 8 bytes. This always performs a full 8-byte reversal.
func SwapInPlace64(b []byte) {
	_ = b[7]
	for i, j := 0, 7; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
