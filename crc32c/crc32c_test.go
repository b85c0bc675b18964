package crc32c

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCheckValue verifies against the standard CRC-32C check value: the
// CRC-32C of the ASCII bytes "123456789" is 0xE3069283. This is the
// canonical check value used to validate any CRC-32C (Castagnoli)
// implementation, independent of this module's record format.
func TestCheckValue(t *testing.T) {
	got := Checksum([]byte("123456789"))
	require.Equal(t, uint32(0xE3069283), got)
}

func TestChecksumEmpty(t *testing.T) {
	require.Equal(t, uint32(0), Checksum(nil))
}

func TestUpdateMatchesChecksum(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	whole := Checksum(data)

	var running uint32
	for i := 0; i < len(data); i += 7 {
		end := i + 7
		if end > len(data) {
			end = len(data)
		}
		running = Update(running, data[i:end])
	}

	require.Equal(t, whole, running)
}

// TestRecordCRCZeroedConsistency checks that computing the CRC over a
// record with the CRC field zeroed, writing that value into the field, and
// recomputing over the same zeroed-field view reproduces the same value.
func TestRecordCRCZeroedConsistency(t *testing.T) {
	record := make([]byte, 128)
	for i := range record {
		record[i] = 0xAA
	}
	const crcOffset = 28 // arbitrary position within the synthesized record

	sum := ChecksumRecordCRCZeroed(record, crcOffset)

	// Patch the computed CRC into the field, little-endian, as a v3 writer
	// would.
	record[crcOffset] = byte(sum)
	record[crcOffset+1] = byte(sum >> 8)
	record[crcOffset+2] = byte(sum >> 16)
	record[crcOffset+3] = byte(sum >> 24)

	recomputed := ChecksumRecordCRCZeroed(record, crcOffset)
	require.Equal(t, sum, recomputed, "CRC computed over the zeroed-field view must be stable regardless of what value is stored in the field")

	// Flipping one payload byte must change the checksum.
	record[50] ^= 0xFF
	flipped := ChecksumRecordCRCZeroed(record, crcOffset)
	require.NotEqual(t, sum, flipped)
}
