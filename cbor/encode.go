package cbor

import (
	"math"
)

// Encode appends the CBOR encoding of item to dst and returns the
// extended slice.
func Encode(dst []byte, item Item) []byte {
	switch item.Major {
	case MajorUnsigned:
		return appendHead(dst, MajorUnsigned, item.Uint)
	case MajorNegative:
		return appendHead(dst, MajorNegative, item.Uint)
	case MajorBytes:
		dst = appendHead(dst, MajorBytes, uint64(len(item.Bytes)))
		return append(dst, item.Bytes...)
	case MajorText:
		dst = appendHead(dst, MajorText, uint64(len(item.Text)))
		return append(dst, item.Text...)
	case MajorArray:
		dst = appendHead(dst, MajorArray, uint64(len(item.Array)))
		for _, el := range item.Array {
			dst = Encode(dst, el)
		}

		return dst
	case MajorMap:
		m := item.Map
		if m == nil {
			m = NewMap()
		}

		dst = appendHead(dst, MajorMap, uint64(m.Len()))
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			dst = Encode(dst, String(k))
			dst = Encode(dst, v)
		}

		return dst
	case MajorTag:
		dst = appendHead(dst, MajorTag, item.Tag)
		if item.Inner != nil {
			dst = Encode(dst, *item.Inner)
		}

		return dst
	case MajorSimple:
		return encodeSimple(dst, item)
	default:
		return dst
	}
}

func encodeSimple(dst []byte, item Item) []byte {
	switch item.Simple {
	case SimpleFalse:
		return append(dst, byte(MajorSimple)<<5|20)
	case SimpleTrue:
		return append(dst, byte(MajorSimple)<<5|21)
	case SimpleNull:
		return append(dst, byte(MajorSimple)<<5|22)
	case SimpleUndefined:
		return append(dst, byte(MajorSimple)<<5|23)
	case SimpleHalf:
		dst = append(dst, byte(MajorSimple)<<5|25)
		bits := FloatToHalf(item.Float)
		return append(dst, byte(bits>>8), byte(bits))
	case SimpleSingle:
		dst = append(dst, byte(MajorSimple)<<5|26)
		bits := math.Float32bits(float32(item.Float))
		return append(dst, byte(bits>>24), byte(bits>>16), byte(bits>>8), byte(bits))
	case SimpleDouble:
		dst = append(dst, byte(MajorSimple)<<5|27)
		bits := math.Float64bits(item.Float)
		return append(dst, byte(bits>>56), byte(bits>>48), byte(bits>>40), byte(bits>>32),
			byte(bits>>24), byte(bits>>16), byte(bits>>8), byte(bits))
	case SimpleBreak:
		return append(dst, byte(MajorSimple)<<5|31)
	default:
		return dst
	}
}

// appendHead appends a CBOR item head (major type + length/value n) using
// the shortest encoding that fits n.
func appendHead(dst []byte, major Major, n uint64) []byte {
	m := byte(major) << 5

	switch {
	case n < 24:
		return append(dst, m|byte(n))
	case n <= 0xFF:
		return append(dst, m|24, byte(n))
	case n <= 0xFFFF:
		return append(dst, m|25, byte(n>>8), byte(n))
	case n <= 0xFFFFFFFF:
		return append(dst, m|26, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	default:
		return append(dst, m|27,
			byte(n>>56), byte(n>>48), byte(n>>40), byte(n>>32),
			byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
	}
}

// SerializeFloating chooses the narrowest of half/single/double that
// losslessly represents v. Any NaN is serialized as half precision, so
// only the top bits of its payload that fit a half-precision mantissa
// are kept.
func SerializeFloating(v float64) Item {
	if half, ok := floatToHalfExact(v); ok {
		return Item{Major: MajorSimple, Simple: SimpleHalf, Float: half}
	}

	if single := float64(float32(v)); single == v || (math.IsNaN(v) && math.IsNaN(single)) {
		return Item{Major: MajorSimple, Simple: SimpleSingle, Float: v}
	}

	return Item{Major: MajorSimple, Simple: SimpleDouble, Float: v}
}

func floatToHalfExact(v float64) (float64, bool) {
	bits := FloatToHalf(v)
	back := HalfToFloat(bits)

	if math.IsNaN(v) {
		return v, math.IsNaN(back)
	}

	return v, back == v
}
