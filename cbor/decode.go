package cbor

import (
	"math"

	"github.com/seisio/mseed/errs"
)

// Decode parses one CBOR item from the start of data, returning the item
// and the number of bytes consumed.
func Decode(data []byte) (Item, int, error) {
	if len(data) == 0 {
		return Item{}, 0, errs.ErrTruncated
	}

	b0 := data[0]
	major := Major(b0 >> 5)
	info := b0 & 0x1F

	switch major {
	case MajorUnsigned, MajorNegative:
		n, sz, err := readArgument(data, info)
		if err != nil {
			return Item{}, 0, err
		}

		return Item{Major: major, Uint: n}, sz, nil

	case MajorBytes:
		n, hdrSz, err := readArgument(data, info)
		if err != nil {
			return Item{}, 0, err
		}

		if info == 31 {
			return decodeIndefiniteBytes(data)
		}

		end := hdrSz + int(n)
		if end > len(data) {
			return Item{}, 0, errs.ErrTruncated
		}

		return Item{Major: MajorBytes, Bytes: data[hdrSz:end]}, end, nil

	case MajorText:
		n, hdrSz, err := readArgument(data, info)
		if err != nil {
			return Item{}, 0, err
		}

		if info == 31 {
			return decodeIndefiniteText(data)
		}

		end := hdrSz + int(n)
		if end > len(data) {
			return Item{}, 0, errs.ErrTruncated
		}

		return Item{Major: MajorText, Text: string(data[hdrSz:end])}, end, nil

	case MajorArray:
		return decodeArray(data, info)

	case MajorMap:
		return decodeMap(data, info)

	case MajorTag:
		n, hdrSz, err := readArgument(data, info)
		if err != nil {
			return Item{}, 0, err
		}

		inner, innerSz, err := Decode(data[hdrSz:])
		if err != nil {
			return Item{}, 0, err
		}

		return Item{Major: MajorTag, Tag: n, Inner: &inner}, hdrSz + innerSz, nil

	case MajorSimple:
		return decodeSimple(data, info)

	default:
		return Item{}, 0, errs.ErrGenericError
	}
}

// readArgument reads the length/value argument following a CBOR head
// byte whose additional-info nibble is info. Returns the argument value
// and the total number of bytes consumed by the head (1 + extra bytes).
func readArgument(data []byte, info byte) (uint64, int, error) {
	switch {
	case info < 24:
		return uint64(info), 1, nil
	case info == 24:
		if len(data) < 2 {
			return 0, 0, errs.ErrTruncated
		}

		return uint64(data[1]), 2, nil
	case info == 25:
		if len(data) < 3 {
			return 0, 0, errs.ErrTruncated
		}

		return uint64(data[1])<<8 | uint64(data[2]), 3, nil
	case info == 26:
		if len(data) < 5 {
			return 0, 0, errs.ErrTruncated
		}

		return uint64(data[1])<<24 | uint64(data[2])<<16 | uint64(data[3])<<8 | uint64(data[4]), 5, nil
	case info == 27:
		if len(data) < 9 {
			return 0, 0, errs.ErrTruncated
		}

		var n uint64
		for i := 1; i <= 8; i++ {
			n = n<<8 | uint64(data[i])
		}

		return n, 9, nil
	case info == 31:
		return 0, 1, nil // indefinite length, caller handles specially
	default:
		return 0, 0, errs.ErrBadLength
	}
}

func decodeArray(data []byte, info byte) (Item, int, error) {
	if info == 31 {
		return decodeIndefiniteArray(data)
	}

	n, pos, err := readArgument(data, info)
	if err != nil {
		return Item{}, 0, err
	}

	items := make([]Item, 0, n)

	for range n {
		el, sz, err := Decode(data[pos:])
		if err != nil {
			return Item{}, 0, err
		}

		items = append(items, el)
		pos += sz
	}

	return Item{Major: MajorArray, Array: items}, pos, nil
}

func decodeMap(data []byte, info byte) (Item, int, error) {
	if info == 31 {
		return decodeIndefiniteMap(data)
	}

	n, pos, err := readArgument(data, info)
	if err != nil {
		return Item{}, 0, err
	}

	m := NewMap()

	for range n {
		key, keySz, err := Decode(data[pos:])
		if err != nil {
			return Item{}, 0, err
		}

		if key.Major != MajorText {
			return Item{}, 0, errs.ErrUnsupported
		}

		pos += keySz

		val, valSz, err := Decode(data[pos:])
		if err != nil {
			return Item{}, 0, err
		}

		pos += valSz
		m.Set(key.Text, val)
	}

	return Item{Major: MajorMap, Map: m}, pos, nil
}

func decodeSimple(data []byte, info byte) (Item, int, error) {
	switch info {
	case 20:
		return Item{Major: MajorSimple, Simple: SimpleFalse, Bool: false}, 1, nil
	case 21:
		return Item{Major: MajorSimple, Simple: SimpleTrue, Bool: true}, 1, nil
	case 22:
		return Item{Major: MajorSimple, Simple: SimpleNull}, 1, nil
	case 23:
		return Item{Major: MajorSimple, Simple: SimpleUndefined}, 1, nil
	case 25:
		if len(data) < 3 {
			return Item{}, 0, errs.ErrTruncated
		}

		bits := uint16(data[1])<<8 | uint16(data[2])

		return Item{Major: MajorSimple, Simple: SimpleHalf, Float: HalfToFloat(bits)}, 3, nil
	case 26:
		if len(data) < 5 {
			return Item{}, 0, errs.ErrTruncated
		}

		bits := uint32(data[1])<<24 | uint32(data[2])<<16 | uint32(data[3])<<8 | uint32(data[4])

		return Item{Major: MajorSimple, Simple: SimpleSingle, Float: float64(math.Float32frombits(bits))}, 5, nil
	case 27:
		if len(data) < 9 {
			return Item{}, 0, errs.ErrTruncated
		}

		var bits uint64
		for i := 1; i <= 8; i++ {
			bits = bits<<8 | uint64(data[i])
		}

		return Item{Major: MajorSimple, Simple: SimpleDouble, Float: math.Float64frombits(bits)}, 9, nil
	case 31:
		return Item{Major: MajorSimple, Simple: SimpleBreak}, 1, nil
	default:
		return Item{}, 0, errs.ErrBadLength
	}
}

// Indefinite-length containers decode for diagnostics (ToDiagnosticString)
// but Store.Fetch/Set reject any path traversing one with
// errs.ErrUnsupported.

func decodeIndefiniteBytes(data []byte) (Item, int, error) {
	pos := 1
	var out []byte

	for {
		if pos >= len(data) {
			return Item{}, 0, errs.ErrTruncated
		}

		if data[pos] == 0xFF {
			pos++
			return Item{Major: MajorBytes, Bytes: out, Indefinite: true}, pos, nil
		}

		chunk, sz, err := Decode(data[pos:])
		if err != nil {
			return Item{}, 0, err
		}

		out = append(out, chunk.Bytes...)
		pos += sz
	}
}

func decodeIndefiniteText(data []byte) (Item, int, error) {
	pos := 1
	var out string

	for {
		if pos >= len(data) {
			return Item{}, 0, errs.ErrTruncated
		}

		if data[pos] == 0xFF {
			pos++
			return Item{Major: MajorText, Text: out, Indefinite: true}, pos, nil
		}

		chunk, sz, err := Decode(data[pos:])
		if err != nil {
			return Item{}, 0, err
		}

		out += chunk.Text
		pos += sz
	}
}

func decodeIndefiniteArray(data []byte) (Item, int, error) {
	pos := 1
	var items []Item

	for {
		if pos >= len(data) {
			return Item{}, 0, errs.ErrTruncated
		}

		if data[pos] == 0xFF {
			pos++
			return Item{Major: MajorArray, Array: items, Indefinite: true}, pos, nil
		}

		el, sz, err := Decode(data[pos:])
		if err != nil {
			return Item{}, 0, err
		}

		items = append(items, el)
		pos += sz
	}
}

func decodeIndefiniteMap(data []byte) (Item, int, error) {
	pos := 1
	m := NewMap()

	for {
		if pos >= len(data) {
			return Item{}, 0, errs.ErrTruncated
		}

		if data[pos] == 0xFF {
			pos++
			return Item{Major: MajorMap, Map: m, Indefinite: true}, pos, nil
		}

		key, keySz, err := Decode(data[pos:])
		if err != nil {
			return Item{}, 0, err
		}

		pos += keySz

		val, valSz, err := Decode(data[pos:])
		if err != nil {
			return Item{}, 0, err
		}

		pos += valSz

		if key.Major == MajorText {
			m.Set(key.Text, val)
		}
	}
}
