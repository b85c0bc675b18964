package cbor

import (
	"errors"
	"math"
	"testing"

	"github.com/seisio/mseed/errs"
)

func roundTrip(t *testing.T, item Item) Item {
	t.Helper()

	buf := Encode(nil, item)

	got, n, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if n != len(buf) {
		t.Fatalf("Decode consumed %d of %d bytes", n, len(buf))
	}

	return got
}

func TestEncodeDecodeScalars(t *testing.T) {
	cases := []Item{
		Int(0),
		Int(23),
		Int(24),
		Int(255),
		Int(256),
		Int(65535),
		Int(65536),
		Int(-1),
		Int(-100),
		Int(math.MaxInt64 / 2),
		String(""),
		String("FDSN:XX_TEST__B_H_Z"),
		BytesItem([]byte{0x01, 0x02, 0x03}),
		Bool(true),
		Bool(false),
		Null(),
	}

	for _, c := range cases {
		got := roundTrip(t, c)
		if got.Major != c.Major {
			t.Fatalf("major mismatch: want %d got %d", c.Major, got.Major)
		}

		switch c.Major {
		case MajorUnsigned, MajorNegative:
			if got.Int64() != c.Int64() {
				t.Errorf("int round trip: want %d got %d", c.Int64(), got.Int64())
			}
		case MajorText:
			if got.Text != c.Text {
				t.Errorf("text round trip: want %q got %q", c.Text, got.Text)
			}
		case MajorBytes:
			if string(got.Bytes) != string(c.Bytes) {
				t.Errorf("bytes round trip mismatch")
			}
		}
	}
}

func TestEncodeDecodeContainers(t *testing.T) {
	m := NewMap()
	m.Set("sid", String("FDSN:XX_TEST__B_H_Z"))
	m.Set("count", Int(42))

	arr := Item{Major: MajorArray, Array: []Item{Int(1), Int(2), String("three")}}
	top := Item{Major: MajorMap, Map: m}

	gotArr := roundTrip(t, arr)
	if len(gotArr.Array) != 3 {
		t.Fatalf("array length: want 3 got %d", len(gotArr.Array))
	}

	gotMap := roundTrip(t, top)
	if gotMap.Map.Len() != 2 {
		t.Fatalf("map length: want 2 got %d", gotMap.Map.Len())
	}

	sid, ok := gotMap.Map.Get("sid")
	if !ok || sid.Text != "FDSN:XX_TEST__B_H_Z" {
		t.Errorf("map sid mismatch: %+v", sid)
	}
}

func TestHalfFloatRoundTrip(t *testing.T) {
	values := []float64{0, -0.0, 1, -1, 0.5, 100.25, -3.5, 65504, -65504}

	for _, v := range values {
		bits := FloatToHalf(v)
		back := HalfToFloat(bits)

		if back != v {
			t.Errorf("half round trip for %v: got %v (bits=%04x)", v, back, bits)
		}
	}
}

func TestHalfFloatSpecials(t *testing.T) {
	if !math.IsInf(HalfToFloat(FloatToHalf(math.Inf(1))), 1) {
		t.Error("positive infinity not preserved")
	}

	if !math.IsInf(HalfToFloat(FloatToHalf(math.Inf(-1))), -1) {
		t.Error("negative infinity not preserved")
	}

	if !math.IsNaN(HalfToFloat(FloatToHalf(math.NaN()))) {
		t.Error("NaN not preserved")
	}

	// Denormal range: smallest positive half-precision value is 2^-24.
	tiny := math.Pow(2, -24)
	if back := HalfToFloat(FloatToHalf(tiny)); back != tiny {
		t.Errorf("denormal round trip: want %v got %v", tiny, back)
	}
}

func TestSerializeFloatingPicksNarrowest(t *testing.T) {
	half := SerializeFloating(1.5)
	if half.Simple != SimpleHalf {
		t.Errorf("1.5 should serialize as half, got %v", half.Simple)
	}

	single := SerializeFloating(1.0 / 3.0 * 2) // not exactly half-representable but float32-exact isn't guaranteed either
	_ = single

	double := SerializeFloating(math.Pi)
	if double.Simple != SimpleDouble {
		t.Errorf("pi should serialize as double, got %v", double.Simple)
	}
}

func TestStoreSetFetchRoundTrip(t *testing.T) {
	s := NewStore()

	if err := s.Set("fdsn/event/magnitude", Int(5)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.Fetch("fdsn/event/magnitude")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if got.Int64() != 5 {
		t.Errorf("fetched value: want 5 got %d", got.Int64())
	}

	// Re-open from encoded bytes and confirm persistence.
	reopened, err := Open(s.Bytes())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	got2, err := reopened.Fetch("fdsn/event/magnitude")
	if err != nil {
		t.Fatalf("Fetch after reopen: %v", err)
	}

	if got2.Int64() != 5 {
		t.Errorf("reopened value: want 5 got %d", got2.Int64())
	}
}

func TestStoreSetSynthesizesIntermediateMaps(t *testing.T) {
	s := NewStore()

	if err := s.Set("a/b/c", String("leaf")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := s.Set("a/b/d", String("sibling")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	leaf, err := s.Fetch("a/b/c")
	if err != nil || leaf.Text != "leaf" {
		t.Fatalf("Fetch a/b/c: %v %+v", err, leaf)
	}

	sibling, err := s.Fetch("a/b/d")
	if err != nil || sibling.Text != "sibling" {
		t.Fatalf("Fetch a/b/d: %v %+v", err, sibling)
	}
}

func TestStoreFetchMissingKey(t *testing.T) {
	s := NewStore()

	_, err := s.Fetch("nope")
	if !errors.Is(err, errs.ErrInvalidPath) {
		t.Errorf("want ErrInvalidPath, got %v", err)
	}
}

func TestStoreFetchThroughNonMap(t *testing.T) {
	s := NewStore()
	if err := s.Set("a", Int(1)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, err := s.Fetch("a/b")
	if !errors.Is(err, errs.ErrInvalidPath) {
		t.Errorf("want ErrInvalidPath, got %v", err)
	}
}

func TestStoreAppendToArray(t *testing.T) {
	s := NewStore()

	err := s.AppendToArray("fdsn/event/picks", map[string]Item{
		"phase": String("P"),
		"time":  Int(1000),
	})
	if err != nil {
		t.Fatalf("AppendToArray (create): %v", err)
	}

	err = s.AppendToArray("fdsn/event/picks", map[string]Item{
		"phase": String("S"),
		"time":  Int(2000),
	})
	if err != nil {
		t.Fatalf("AppendToArray (extend): %v", err)
	}

	got, err := s.Fetch("fdsn/event/picks")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(got.Array) != 2 {
		t.Fatalf("picks length: want 2 got %d", len(got.Array))
	}

	phase0, _ := got.Array[0].Map.Get("phase")
	if phase0.Text != "P" {
		t.Errorf("first pick phase: want P got %q", phase0.Text)
	}

	phase1, _ := got.Array[1].Map.Get("phase")
	if phase1.Text != "S" {
		t.Errorf("second pick phase: want S got %q", phase1.Text)
	}
}

func TestStoreAppendToArrayWrongType(t *testing.T) {
	s := NewStore()
	if err := s.Set("x", Int(1)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	err := s.AppendToArray("x", map[string]Item{"a": Int(1)})
	if !errors.Is(err, errs.ErrInvalidPath) {
		t.Errorf("want ErrInvalidPath, got %v", err)
	}
}

func TestIndefiniteLengthRejectedByStore(t *testing.T) {
	// Build an indefinite-length text string ("ab") by hand: major 3,
	// info 31, chunk "a", chunk "b", break.
	var buf []byte
	buf = append(buf, byte(MajorText)<<5|31)
	buf = Encode(buf, String("a"))
	buf = Encode(buf, String("b"))
	buf = append(buf, 0xFF)

	item, n, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if n != len(buf) {
		t.Fatalf("consumed %d of %d", n, len(buf))
	}

	if !item.Indefinite {
		t.Fatal("expected Indefinite to be set")
	}

	if item.Text != "ab" {
		t.Fatalf("want concatenated text 'ab', got %q", item.Text)
	}

	// Embed it as a map value and confirm Fetch refuses to traverse it.
	var doc []byte
	doc = append(doc, byte(MajorMap)<<5|1)
	doc = Encode(doc, String("note"))
	doc = append(doc, buf...)

	s, err := Open(doc)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	_, err = s.Fetch("note")
	if !errors.Is(err, errs.ErrUnsupported) {
		t.Errorf("want ErrUnsupported, got %v", err)
	}
}

func TestIndefiniteArrayDiagnosticStillRenders(t *testing.T) {
	var buf []byte
	buf = append(buf, byte(MajorArray)<<5|31)
	buf = Encode(buf, Int(1))
	buf = Encode(buf, Int(2))
	buf = append(buf, 0xFF)

	item, _, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	var b []byte
	_ = b

	s := &Store{root: NewMap()}
	s.root.Set("arr", item)

	diag := s.ToDiagnosticString()
	if diag == "" {
		t.Fatal("expected non-empty diagnostic string")
	}
}

func TestToDiagnosticString(t *testing.T) {
	s := NewStore()
	_ = s.Set("a/b", Int(5))
	_ = s.Set("a/c", String("hi"))

	diag := s.ToDiagnosticString()
	if diag == "" {
		t.Fatal("expected non-empty diagnostic output")
	}
}
