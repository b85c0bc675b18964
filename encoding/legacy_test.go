package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seisio/mseed/endian"
)

func TestSRODecodeZero(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	data := []byte{0x00, 0x00}

	dec := NewSRODecoder(engine)
	v, ok := dec.At(data, 0, 1)
	require.True(t, ok)
	require.Equal(t, int32(0), v)
}

func TestSRODecodeKnownWord(t *testing.T) {
	// exponent=0, mantissa=-1 (0xFFF in 12 bits) -> -1 << 0 == -1
	engine := endian.GetBigEndianEngine()
	data := []byte{0x0F, 0xFF}

	dec := NewSRODecoder(engine)
	v, ok := dec.At(data, 0, 1)
	require.True(t, ok)
	require.Equal(t, int32(-1), v)
}

func TestCDSNDecodeGainTable(t *testing.T) {
	engine := endian.GetBigEndianEngine()

	// gain code 0 (x1), mantissa 1
	data := []byte{0x00, 0x01}
	dec := NewCDSNDecoder(engine)
	v, ok := dec.At(data, 0, 1)
	require.True(t, ok)
	require.Equal(t, int32(1), v)

	// gain code 1 (x4), mantissa 1: top 2 bits = 01
	data2 := []byte{0x40, 0x01}
	v2, ok := dec.At(data2, 0, 1)
	require.True(t, ok)
	require.Equal(t, int32(4), v2)
}

func TestDWWSSNDecodePlainSigned(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	data := []byte{0xFF, 0xFF} // -1

	dec := NewDWWSSNDecoder(engine)
	v, ok := dec.At(data, 0, 1)
	require.True(t, ok)
	require.Equal(t, int32(-1), v)
}

func TestGEOSCOPE24DecodeSignExtension(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	data := []byte{0xFF, 0xFF, 0xFF} // -1

	dec := NewGEOSCOPE24Decoder(engine)
	v, ok := dec.At(data, 0, 1)
	require.True(t, ok)
	require.Equal(t, int32(-1), v)
}

func TestGEOSCOPEGainRangedDecoders(t *testing.T) {
	engine := endian.GetBigEndianEngine()

	dec3 := NewGEOSCOPE3Decoder(engine)
	v, ok := dec3.At([]byte{0x00, 0x00}, 0, 1)
	require.True(t, ok)
	require.Equal(t, int32(0), v)

	dec4 := NewGEOSCOPE4Decoder(engine)
	v2, ok := dec4.At([]byte{0x00, 0x00}, 0, 1)
	require.True(t, ok)
	require.Equal(t, int32(0), v2)
}

func TestLegacyDecodersShortBufferRejected(t *testing.T) {
	engine := endian.GetBigEndianEngine()

	_, ok := NewSRODecoder(engine).At([]byte{0x00}, 0, 1)
	require.False(t, ok)

	_, ok = NewGEOSCOPE24Decoder(engine).At([]byte{0x00, 0x00}, 0, 1)
	require.False(t, ok)
}
