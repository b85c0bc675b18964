package cbor

import (
	"fmt"
	"strings"

	"github.com/seisio/mseed/errs"
)

// Store wraps a CBOR document (always a top-level map) and provides
// path-addressable get/set/append. CBOR items are variable-length, so Set
// and AppendToArray always re-encode into a fresh buffer rather than
// editing in place.
type Store struct {
	root *Map
}

// NewStore creates an empty store.
func NewStore() *Store { return &Store{root: NewMap()} }

// Open parses an existing CBOR document (expected to be a top-level map)
// into a store.
func Open(doc []byte) (*Store, error) {
	if len(doc) == 0 {
		return NewStore(), nil
	}

	item, _, err := Decode(doc)
	if err != nil {
		return nil, err
	}

	if item.Major != MajorMap {
		return nil, fmt.Errorf("%w: extra headers root must be a map", errs.ErrBadLength)
	}

	if item.Indefinite {
		return nil, errs.ErrUnsupported
	}

	m := item.Map
	if m == nil {
		m = NewMap()
	}

	return &Store{root: m}, nil
}

// Bytes re-encodes the store's document.
func (s *Store) Bytes() []byte {
	return Encode(nil, Item{Major: MajorMap, Map: s.root})
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}

	return strings.Split(path, "/")
}

// Fetch traverses the document by /-segmented text keys and returns the
// item found at path.
func (s *Store) Fetch(path string) (Item, error) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return Item{Major: MajorMap, Map: s.root}, nil
	}

	m := s.root

	for i, seg := range segs {
		v, ok := m.Get(seg)
		if !ok {
			return Item{}, fmt.Errorf("%w: no such key %q", errs.ErrInvalidPath, seg)
		}

		if v.Indefinite {
			return Item{}, errs.ErrUnsupported
		}

		if i == len(segs)-1 {
			return v, nil
		}

		if v.Major != MajorMap || v.Map == nil {
			return Item{}, fmt.Errorf("%w: %q is not a map", errs.ErrInvalidPath, seg)
		}

		m = v.Map
	}

	return Item{}, errs.ErrInvalidPath
}

// Set inserts or replaces the scalar leaf at path, synthesizing any
// missing intermediate maps bottom-up.
func (s *Store) Set(path string, item Item) error {
	segs := splitPath(path)
	if len(segs) == 0 {
		return fmt.Errorf("%w: empty path", errs.ErrInvalidPath)
	}

	m := s.root

	for _, seg := range segs[:len(segs)-1] {
		existing, ok := m.Get(seg)
		if !ok {
			child := NewMap()
			m.Set(seg, Item{Major: MajorMap, Map: child})
			m = child

			continue
		}

		if existing.Indefinite {
			return errs.ErrUnsupported
		}

		if existing.Major != MajorMap {
			return fmt.Errorf("%w: %q is not a map", errs.ErrInvalidPath, seg)
		}

		if existing.Map == nil {
			existing.Map = NewMap()
			m.Set(seg, existing)
		}

		m = existing.Map
	}

	m.Set(segs[len(segs)-1], item)

	return nil
}

// AppendToArray extends the array found at path with a newly built map of
// fields. If path does not yet exist, a new array is created.
func (s *Store) AppendToArray(path string, fields map[string]Item) error {
	entry := Item{Major: MajorMap, Map: mapFromFields(fields)}

	existing, err := s.Fetch(path)
	if err != nil {
		return s.Set(path, Item{Major: MajorArray, Array: []Item{entry}})
	}

	if existing.Indefinite {
		return errs.ErrUnsupported
	}

	if existing.Major != MajorArray {
		return fmt.Errorf("%w: %q is not an array", errs.ErrInvalidPath, path)
	}

	existing.Array = append(existing.Array, entry)

	return s.Set(path, existing)
}

func mapFromFields(fields map[string]Item) *Map {
	m := NewMap()
	for k, v := range fields {
		m.Set(k, v)
	}

	return m
}

// ToDiagnosticString renders the document as a recursive JSON-like
// string, including any indefinite-length containers encountered.
func (s *Store) ToDiagnosticString() string {
	var b strings.Builder
	writeDiagnostic(&b, Item{Major: MajorMap, Map: s.root})

	return b.String()
}

func writeDiagnostic(b *strings.Builder, it Item) {
	switch it.Major {
	case MajorMap:
		b.WriteByte('{')

		if it.Map != nil {
			for i, k := range it.Map.Keys() {
				if i > 0 {
					b.WriteString(", ")
				}

				fmt.Fprintf(b, "%q: ", k)
				v, _ := it.Map.Get(k)
				writeDiagnostic(b, v)
			}
		}

		b.WriteByte('}')
	case MajorArray:
		b.WriteByte('[')

		for i, el := range it.Array {
			if i > 0 {
				b.WriteString(", ")
			}

			writeDiagnostic(b, el)
		}

		b.WriteByte(']')
	case MajorText:
		fmt.Fprintf(b, "%q", it.Text)
	case MajorBytes:
		fmt.Fprintf(b, "h'% x'", it.Bytes)
	case MajorUnsigned, MajorNegative:
		fmt.Fprintf(b, "%d", it.Int64())
	case MajorTag:
		fmt.Fprintf(b, "%d(", it.Tag)

		if it.Inner != nil {
			writeDiagnostic(b, *it.Inner)
		}

		b.WriteByte(')')
	case MajorSimple:
		writeSimpleDiagnostic(b, it)
	}
}

func writeSimpleDiagnostic(b *strings.Builder, it Item) {
	switch it.Simple {
	case SimpleFalse:
		b.WriteString("false")
	case SimpleTrue:
		b.WriteString("true")
	case SimpleNull:
		b.WriteString("null")
	case SimpleUndefined:
		b.WriteString("undefined")
	case SimpleHalf, SimpleSingle, SimpleDouble:
		fmt.Fprintf(b, "%v", it.Float)
	case SimpleBreak:
		b.WriteString("<break>")
	}
}
