package encoding

import (
	"iter"

	"github.com/seisio/mseed/internal/pool"
)

// TextEncoder encodes raw ASCII/opaque-text payloads (the TEXT encoding).
// Samples are single bytes; sample_count for a text payload is its byte
// length.
type TextEncoder struct {
	buf   *pool.ByteBuffer
	count int
}

var _ SampleEncoder[byte] = (*TextEncoder)(nil)

// NewTextEncoder creates a text encoder.
func NewTextEncoder() *TextEncoder {
	return &TextEncoder{buf: pool.GetBlobBuffer()}
}

func (e *TextEncoder) Write(v byte) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.Grow(1)
	e.buf.MustWrite([]byte{v})
}

func (e *TextEncoder) WriteSlice(values []byte) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if len(values) == 0 {
		return
	}

	e.count += len(values)
	e.buf.Grow(len(values))
	e.buf.MustWrite(values)
}

// WriteString appends raw text, matching the record payload's sample_count
// semantics for the TEXT encoding (one sample per byte).
func (e *TextEncoder) WriteString(s string) {
	e.WriteSlice([]byte(s))
}

func (e *TextEncoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

func (e *TextEncoder) Len() int { return e.count }

func (e *TextEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

func (e *TextEncoder) Reset() {}

func (e *TextEncoder) Finish() {
	if e.buf != nil {
		pool.PutBlobBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// TextDecoder decodes raw text payloads verbatim.
type TextDecoder struct{}

var _ SampleDecoder[byte] = TextDecoder{}

// NewTextDecoder creates a stateless text decoder.
func NewTextDecoder() TextDecoder { return TextDecoder{} }

func (d TextDecoder) All(data []byte, count int) iter.Seq[byte] {
	return func(yield func(byte) bool) {
		if count > len(data) {
			count = len(data)
		}

		for i := range count {
			if !yield(data[i]) {
				return
			}
		}
	}
}

func (d TextDecoder) At(data []byte, index int, count int) (byte, bool) {
	if index < 0 || index >= count || index >= len(data) {
		return 0, false
	}

	return data[index], true
}

// DecodeString returns the first count bytes of data as a string, matching
// the text payload's sample_count semantics.
func (d TextDecoder) DecodeString(data []byte, count int) string {
	if count > len(data) {
		count = len(data)
	}

	return string(data[:count])
}
