// Package cbor implements the subset of RFC 8949 (Concise Binary Object
// Representation) needed for miniSEED extra headers: unsigned/negative
// integers, byte/text strings, arrays, maps, tags, and the major-7
// simple/float types (false, true, null, undefined, half/single/double,
// break). It provides a path-addressable Store over a CBOR document for
// get/set/append operations without a full in-place editor.
package cbor

import "fmt"

// Major identifies a CBOR item's major type (the top 3 bits of its
// leading byte).
type Major uint8

const (
	MajorUnsigned Major = 0
	MajorNegative Major = 1
	MajorBytes    Major = 2
	MajorText     Major = 3
	MajorArray    Major = 4
	MajorMap      Major = 5
	MajorTag      Major = 6
	MajorSimple   Major = 7
)

// Item is a tagged sum type covering every CBOR value this package
// understands. Exactly the field(s) matching Major are meaningful.
type Item struct {
	Major Major

	Uint  uint64  // MajorUnsigned, or MajorNegative (stored as -1-Uint)
	Bytes []byte  // MajorBytes
	Text  string  // MajorText
	Array []Item  // MajorArray
	Map   *Map    // MajorMap
	Tag   uint64  // MajorTag tag number
	Inner *Item   // MajorTag tagged value

	Simple SimpleKind
	Bool   bool
	Float  float64 // backing value for half/single/double

	// Indefinite marks an array/map/bytes/text item that was decoded
	// from an indefinite-length encoding. Store.Fetch/Set refuse to
	// traverse through one.
	Indefinite bool
}

// SimpleKind distinguishes the major-7 simple/float subtypes.
type SimpleKind uint8

const (
	SimpleFalse SimpleKind = iota
	SimpleTrue
	SimpleNull
	SimpleUndefined
	SimpleHalf
	SimpleSingle
	SimpleDouble
	SimpleBreak
)

// Map is an insertion-ordered text-keyed map: CBOR map keys in this
// package are always text strings (the extra-header document never uses
// container keys).
type Map struct {
	keys   []string
	values []Item
}

// NewMap creates an empty map.
func NewMap() *Map { return &Map{} }

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (Item, bool) {
	for i, k := range m.keys {
		if k == key {
			return m.values[i], true
		}
	}

	return Item{}, false
}

// Set inserts or replaces the value for key, preserving insertion order
// for new keys.
func (m *Map) Set(key string, v Item) {
	for i, k := range m.keys {
		if k == key {
			m.values[i] = v
			return
		}
	}

	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
}

// Keys returns the map's keys in insertion order.
func (m *Map) Keys() []string { return m.keys }

// Len returns the number of entries in the map.
func (m *Map) Len() int { return len(m.keys) }

// Int returns an Item wrapping an unsigned or negative integer.
func Int(v int64) Item {
	if v >= 0 {
		return Item{Major: MajorUnsigned, Uint: uint64(v)}
	}

	return Item{Major: MajorNegative, Uint: uint64(-1 - v)}
}

// Int64 returns the item's integer value. Only valid for MajorUnsigned
// and MajorNegative items.
func (it Item) Int64() int64 {
	if it.Major == MajorNegative {
		return -1 - int64(it.Uint)
	}

	return int64(it.Uint)
}

// String returns an Item wrapping a UTF-8 text string.
func String(s string) Item { return Item{Major: MajorText, Text: s} }

// BytesItem returns an Item wrapping a byte string.
func BytesItem(b []byte) Item { return Item{Major: MajorBytes, Bytes: b} }

// Bool returns an Item wrapping a boolean.
func Bool(b bool) Item {
	kind := SimpleFalse
	if b {
		kind = SimpleTrue
	}

	return Item{Major: MajorSimple, Simple: kind, Bool: b}
}

// Null returns the CBOR null item.
func Null() Item { return Item{Major: MajorSimple, Simple: SimpleNull} }

func (it Item) String() string {
	switch it.Major {
	case MajorUnsigned, MajorNegative:
		return fmt.Sprintf("%d", it.Int64())
	case MajorText:
		return it.Text
	case MajorBytes:
		return fmt.Sprintf("% x", it.Bytes)
	default:
		return fmt.Sprintf("cbor.Item{Major:%d}", it.Major)
	}
}
