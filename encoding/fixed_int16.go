package encoding

import (
	"iter"

	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/internal/pool"
)

// Int16Encoder encodes int16 samples (the INT16 fixed-width encoding).
type Int16Encoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ SampleEncoder[int16] = (*Int16Encoder)(nil)

// NewInt16Encoder creates an encoder using the given byte order.
func NewInt16Encoder(engine endian.EndianEngine) *Int16Encoder {
	return &Int16Encoder{
		engine: engine,
		buf:    pool.GetBlobBuffer(),
	}
}

func (e *Int16Encoder) Write(v int16) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.Grow(2)

	n := e.buf.Len()
	e.engine.PutUint16(e.buf.Slice(n, n+2), uint16(v)) //nolint:gosec
	e.buf.SetLength(n + 2)
}

func (e *Int16Encoder) WriteSlice(values []int16) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if len(values) == 0 {
		return
	}

	e.count += len(values)
	e.buf.Grow(len(values) * 2)

	start := e.buf.Len()
	e.buf.ExtendOrGrow(len(values) * 2)

	for i, v := range values {
		off := start + i*2
		e.engine.PutUint16(e.buf.Slice(off, off+2), uint16(v)) //nolint:gosec
	}
}

func (e *Int16Encoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

func (e *Int16Encoder) Len() int { return e.count }

func (e *Int16Encoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

func (e *Int16Encoder) Reset() {}

func (e *Int16Encoder) Finish() {
	if e.buf != nil {
		pool.PutBlobBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// Int16Decoder decodes int16 samples.
type Int16Decoder struct {
	engine endian.EndianEngine
}

var _ SampleDecoder[int16] = Int16Decoder{}

// NewInt16Decoder creates a stateless decoder using the given byte order.
func NewInt16Decoder(engine endian.EndianEngine) Int16Decoder {
	return Int16Decoder{engine: engine}
}

func (d Int16Decoder) All(data []byte, count int) iter.Seq[int16] {
	return func(yield func(int16) bool) {
		if count == 0 || len(data) < count*2 {
			return
		}

		for i := range count {
			start := i * 2
			v := int16(d.engine.Uint16(data[start : start+2])) //nolint:gosec
			if !yield(v) {
				return
			}
		}
	}
}

func (d Int16Decoder) At(data []byte, index int, count int) (int16, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	start := index * 2
	if start+2 > len(data) {
		return 0, false
	}

	return int16(d.engine.Uint16(data[start : start+2])), true //nolint:gosec
}
