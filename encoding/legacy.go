package encoding

import (
	"iter"

	"github.com/seisio/mseed/endian"
)

// Legacy gain-ranged decoders. These formats predate the fixed-width and
// Steim families and appear only in old v2 archives; this module decodes
// them but never writes them.
//
// GEOSCOPE 24-bit is a plain signed 24-bit sample in 3 bytes. The others
// pack a 16-bit word per sample as a signed mantissa plus a gain-range
// exponent selecting a power-of-two gain; SRO recovers the
// sample as mantissa<<exponent, GEOSCOPE as mantissa>>exponent (the gain
// divides the amplitude rather than multiplying it), CDSN through a fixed
// per-gain-code multiplier table, and DWWSSN is the raw signed 16-bit word
// with no gain ranging.

// SRODecoder decodes the SRO gain-ranged format: a 4-bit exponent in the
// high nibble and a 12-bit two's complement mantissa in the low 12 bits.
type SRODecoder struct {
	engine endian.EndianEngine
}

var _ SampleDecoder[int32] = SRODecoder{}

func NewSRODecoder(engine endian.EndianEngine) SRODecoder {
	return SRODecoder{engine: engine}
}

func decodeSRO(word uint16) int32 {
	exponent := int32(word >> 12)
	mantissa := int32(int16(word<<4) >> 4) // sign-extend the low 12 bits

	return mantissa << uint(exponent)
}

func (d SRODecoder) All(data []byte, count int) iter.Seq[int32] {
	return func(yield func(int32) bool) {
		if count == 0 || len(data) < count*2 {
			return
		}

		for i := range count {
			start := i * 2
			if !yield(decodeSRO(d.engine.Uint16(data[start : start+2]))) {
				return
			}
		}
	}
}

func (d SRODecoder) At(data []byte, index int, count int) (int32, bool) {
	if index < 0 || index >= count || (index+1)*2 > len(data) {
		return 0, false
	}

	start := index * 2

	return decodeSRO(d.engine.Uint16(data[start : start+2])), true
}

// CDSNDecoder decodes the CDSN gain-ranged format: a 2-bit gain code in the
// top bits selecting a multiplier from {1, 4, 16, 128}, and a 14-bit two's
// complement mantissa.
type CDSNDecoder struct {
	engine endian.EndianEngine
}

var _ SampleDecoder[int32] = CDSNDecoder{}

func NewCDSNDecoder(engine endian.EndianEngine) CDSNDecoder {
	return CDSNDecoder{engine: engine}
}

var cdsnGainTable = [4]int32{1, 4, 16, 128}

func decodeCDSN(word uint16) int32 {
	gain := word >> 14
	mantissa := int32(int16(word<<2) >> 2) // sign-extend the low 14 bits

	return mantissa * cdsnGainTable[gain]
}

func (d CDSNDecoder) All(data []byte, count int) iter.Seq[int32] {
	return func(yield func(int32) bool) {
		if count == 0 || len(data) < count*2 {
			return
		}

		for i := range count {
			start := i * 2
			if !yield(decodeCDSN(d.engine.Uint16(data[start : start+2]))) {
				return
			}
		}
	}
}

func (d CDSNDecoder) At(data []byte, index int, count int) (int32, bool) {
	if index < 0 || index >= count || (index+1)*2 > len(data) {
		return 0, false
	}

	start := index * 2

	return decodeCDSN(d.engine.Uint16(data[start : start+2])), true
}

// DWWSSNDecoder decodes the DWWSSN format: a plain signed 16-bit sample
// with no gain ranging.
type DWWSSNDecoder struct {
	engine endian.EndianEngine
}

var _ SampleDecoder[int32] = DWWSSNDecoder{}

func NewDWWSSNDecoder(engine endian.EndianEngine) DWWSSNDecoder {
	return DWWSSNDecoder{engine: engine}
}

func (d DWWSSNDecoder) All(data []byte, count int) iter.Seq[int32] {
	return func(yield func(int32) bool) {
		if count == 0 || len(data) < count*2 {
			return
		}

		for i := range count {
			start := i * 2
			v := int32(int16(d.engine.Uint16(data[start : start+2])))
			if !yield(v) {
				return
			}
		}
	}
}

func (d DWWSSNDecoder) At(data []byte, index int, count int) (int32, bool) {
	if index < 0 || index >= count || (index+1)*2 > len(data) {
		return 0, false
	}

	start := index * 2

	return int32(int16(d.engine.Uint16(data[start : start+2]))), true
}

// GEOSCOPE24Decoder decodes the GEOSCOPE 24-bit integer format: a plain
// signed 24-bit sample packed into 3 bytes, no gain ranging.
type GEOSCOPE24Decoder struct {
	engine endian.EndianEngine
}

var _ SampleDecoder[int32] = GEOSCOPE24Decoder{}

func NewGEOSCOPE24Decoder(engine endian.EndianEngine) GEOSCOPE24Decoder {
	return GEOSCOPE24Decoder{engine: engine}
}

func decodeGEOSCOPE24(b []byte, engine endian.EndianEngine) int32 {
	var raw uint32
	if engine == endian.GetLittleEndianEngine() {
		raw = uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
	} else {
		raw = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	}

	// Sign-extend from bit 23.
	if raw&0x00800000 != 0 {
		raw |= 0xFF000000
	}

	return int32(raw)
}

func (d GEOSCOPE24Decoder) All(data []byte, count int) iter.Seq[int32] {
	return func(yield func(int32) bool) {
		if count == 0 || len(data) < count*3 {
			return
		}

		for i := range count {
			start := i * 3
			if !yield(decodeGEOSCOPE24(data[start:start+3], d.engine)) {
				return
			}
		}
	}
}

func (d GEOSCOPE24Decoder) At(data []byte, index int, count int) (int32, bool) {
	if index < 0 || index >= count || (index+1)*3 > len(data) {
		return 0, false
	}

	start := index * 3

	return decodeGEOSCOPE24(data[start:start+3], d.engine), true
}

// GEOSCOPEGainRangedDecoder decodes the GEOSCOPE 16-bit gain-ranged
// formats: exponentBits selects either the 3-bit (format 13) or 4-bit
// (format 14) exponent field in the high bits, with the remaining low bits
// holding a two's complement mantissa.
type GEOSCOPEGainRangedDecoder struct {
	engine       endian.EndianEngine
	exponentBits uint
}

var _ SampleDecoder[int32] = GEOSCOPEGainRangedDecoder{}

// NewGEOSCOPE3Decoder creates a decoder for the 3-bit-exponent GEOSCOPE
// gain-ranged format (encoding 13).
func NewGEOSCOPE3Decoder(engine endian.EndianEngine) GEOSCOPEGainRangedDecoder {
	return GEOSCOPEGainRangedDecoder{engine: engine, exponentBits: 3}
}

// NewGEOSCOPE4Decoder creates a decoder for the 4-bit-exponent GEOSCOPE
// gain-ranged format (encoding 14).
func NewGEOSCOPE4Decoder(engine endian.EndianEngine) GEOSCOPEGainRangedDecoder {
	return GEOSCOPEGainRangedDecoder{engine: engine, exponentBits: 4}
}

func (d GEOSCOPEGainRangedDecoder) decode(word uint16) int32 {
	mantissaBits := 16 - d.exponentBits
	exponent := int32(word >> mantissaBits)

	mask := uint32(1)<<mantissaBits - 1
	raw := uint32(word) & mask
	signBit := uint32(1) << (mantissaBits - 1)

	var mantissa int32
	if raw&signBit != 0 {
		mantissa = int32(raw) - int32(mask) - 1
	} else {
		mantissa = int32(raw)
	}

	// exponent selects a gain of 2^exponent; recovering the original
	// amplitude divides by that gain rather than multiplying.
	return mantissa >> uint(exponent)
}

func (d GEOSCOPEGainRangedDecoder) All(data []byte, count int) iter.Seq[int32] {
	return func(yield func(int32) bool) {
		if count == 0 || len(data) < count*2 {
			return
		}

		for i := range count {
			start := i * 2
			if !yield(d.decode(d.engine.Uint16(data[start : start+2]))) {
				return
			}
		}
	}
}

func (d GEOSCOPEGainRangedDecoder) At(data []byte, index int, count int) (int32, bool) {
	if index < 0 || index >= count || (index+1)*2 > len(data) {
		return 0, false
	}

	start := index * 2

	return d.decode(d.engine.Uint16(data[start : start+2])), true
}
