package record

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func v2Peek(order binary.ByteOrder, year, day uint16) []byte {
	buf := make([]byte, minDetectBytes)
	buf[v2OffQuality] = 'D'
	order.PutUint16(buf[20:22], year)
	order.PutUint16(buf[22:24], day)

	return buf
}

func TestDetectVersionV3(t *testing.T) {
	buf := make([]byte, minDetectBytes)
	buf[0], buf[1], buf[2] = 'M', 'S', 3

	version, order, err := DetectVersion(buf)
	require.NoError(t, err)
	require.Equal(t, 3, version)
	require.Equal(t, binary.LittleEndian, order)
}

func TestDetectVersionV2LittleEndian(t *testing.T) {
	buf := v2Peek(binary.LittleEndian, 2024, 15)

	version, order, err := DetectVersion(buf)
	require.NoError(t, err)
	require.Equal(t, 2, version)
	require.Equal(t, binary.LittleEndian, order)
}

func TestDetectVersionV2BigEndian(t *testing.T) {
	buf := v2Peek(binary.BigEndian, 2024, 15)

	version, order, err := DetectVersion(buf)
	require.NoError(t, err)
	require.Equal(t, 2, version)
	require.Equal(t, binary.BigEndian, order)
}

func TestDetectVersionTooShort(t *testing.T) {
	_, _, err := DetectVersion(make([]byte, minDetectBytes-1))
	require.Error(t, err)
}

func TestDetectVersionRejectsGarbage(t *testing.T) {
	buf := make([]byte, minDetectBytes)
	copy(buf, []byte("not a valid header!!"))

	_, _, err := DetectVersion(buf)
	require.Error(t, err)
}

func TestDetectVersionRejectsBadQuality(t *testing.T) {
	buf := v2Peek(binary.LittleEndian, 2024, 15)
	buf[v2OffQuality] = 'X'

	_, _, err := DetectVersion(buf)
	require.Error(t, err)
}
