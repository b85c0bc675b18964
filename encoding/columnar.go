// Package encoding implements the miniSEED sample codecs: the fixed-width
// families (INT16, INT32, FLOAT32, FLOAT64, TEXT), the legacy decode-only
// gain-ranged families, and the Steim-1/2 frame-based difference codecs
// (in the encoding/steim sub-package). A Registry dispatches by
// format.Encoding so callers never need a type switch at the call site.
package encoding

import "iter"

// SampleEncoder is the common shape every sample codec's encoder
// implements, covering any sample type T (int32, float32, float64, or raw
// text bytes).
type SampleEncoder[T comparable] interface {
	// Bytes returns the encoded byte slice accumulated so far.
	// The returned slice is valid until the next call to Write, WriteSlice, or Reset.
	// The caller should not modify the returned slice.
	Bytes() []byte

	// Len returns the number of samples encoded since the last Finish.
	Len() int

	// Size returns the size in bytes of the encoded payload accumulated so far.
	Size() int

	// Reset clears the encoder's position state but keeps the accumulated
	// buffer, allowing it to be reused for a new run within the same
	// encoding session.
	Reset()

	// Finish finalizes the encoding session and returns buffer resources
	// to the pool. After Finish, the encoder is no longer usable; Write,
	// WriteSlice, Bytes, and Size will panic, and Len returns 0.
	//
	//	enc := NewInt32Encoder(engine)
	//	defer enc.Finish()
	//	enc.WriteSlice(samples)
	//	payload := enc.Bytes()
	Finish()

	// Write encodes a single sample. For bulk writes use WriteSlice.
	Write(v T)

	// WriteSlice encodes a slice of samples in one pre-sized pass.
	WriteSlice(values []T)
}

// SampleDecoder is the common shape every sample codec's decoder
// implements.
type SampleDecoder[T any] interface {
	// All returns an iterator yielding all decoded samples from data.
	// count is the expected number of samples. If data is too short for
	// count samples, the fixed-width and legacy decoders yield nothing and
	// the text decoder yields only the bytes present.
	All(data []byte, count int) iter.Seq[T]

	// At retrieves the sample at the given zero-based index. Returns
	// false if index is out of [0, count) or data is too short.
	At(data []byte, index int, count int) (T, bool)
}
