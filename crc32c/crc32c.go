// Package crc32c computes the CRC-32C (Castagnoli) checksum used to
// fingerprint every miniSEED v3 record.
//
// Polynomial 0x1EDC6F41, reflected input and output, initial value
// 0xFFFFFFFF, final XOR 0xFFFFFFFF. This is exactly the checksum the
// standard library's hash/crc32 package computes with
// crc32.MakeTable(crc32.Castagnoli), which is table-driven and
// hardware-accelerated (SSE4.2/ARM64 CRC32 instructions where available),
// so this package is a thin, streaming-friendly wrapper over it rather
// than a hand-rolled table.
package crc32c

import (
	"hash"
	"hash/crc32"
)

var table = crc32.MakeTable(crc32.Castagnoli)

// Checksum returns the CRC-32C of data.
func Checksum(data []byte) uint32 {
	return crc32.Checksum(data, table)
}

// Update extends a running CRC-32C value with more data. Pass 0 as crc for
// the first call; the table's reflected init/final handling is folded into
// crc32.Update by the standard library.
func Update(crc uint32, data []byte) uint32 {
	return crc32.Update(crc, table, data)
}

// New returns a streaming hash.Hash32 computing CRC-32C, for callers that
// want to write a record incrementally (e.g. header then payload) without
// assembling the full byte slice first.
func New() hash.Hash32 {
	return crc32.New(table)
}

// ChecksumRecordCRCZeroed computes the CRC-32C of record with the 4 bytes
// at [crcOffset:crcOffset+4] treated as zero, without mutating record. This
// is the v3 record CRC convention: the CRC field is computed over the
// record as if it held zero, then patched in afterward.
func ChecksumRecordCRCZeroed(record []byte, crcOffset int) uint32 {
	h := New()
	_, _ = h.Write(record[:crcOffset])

	var zero [4]byte
	_, _ = h.Write(zero[:])
	_, _ = h.Write(record[crcOffset+4:])

	return h.Sum32()
}
