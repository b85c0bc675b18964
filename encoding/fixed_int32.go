package encoding

import (
	"fmt"
	"iter"
	"unsafe"

	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/internal/pool"
)

// Int32Encoder encodes int32 samples (the INT32 fixed-width encoding, and
// the common decode target for Steim/INT16/legacy gain-ranged families) in
// the record's byte order.
//
// Write pre-grows the buffer before each append to avoid a reallocation
// on every call, while WriteSlice pre-sizes the buffer once for bulk
// encoding.
type Int32Encoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ SampleEncoder[int32] = (*Int32Encoder)(nil)

// NewInt32Encoder creates an encoder using the given byte order.
func NewInt32Encoder(engine endian.EndianEngine) *Int32Encoder {
	return &Int32Encoder{
		engine: engine,
		buf:    pool.GetBlobBuffer(),
	}
}

// Write encodes a single int32 sample.
//
// Panics if Finish has already been called.
func (e *Int32Encoder) Write(v int32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.Grow(4)

	n := e.buf.Len()
	e.engine.PutUint32(e.buf.Slice(n, n+4), uint32(v)) //nolint:gosec
	e.buf.SetLength(n + 4)
}

// WriteSlice encodes values in a single pre-allocated pass.
func (e *Int32Encoder) WriteSlice(values []int32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if len(values) == 0 {
		return
	}

	e.count += len(values)
	e.buf.Grow(len(values) * 4)

	start := e.buf.Len()
	e.buf.ExtendOrGrow(len(values) * 4)

	for i, v := range values {
		off := start + i*4
		e.engine.PutUint32(e.buf.Slice(off, off+4), uint32(v)) //nolint:gosec
	}
}

func (e *Int32Encoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

func (e *Int32Encoder) Len() int { return e.count }

func (e *Int32Encoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset is a no-op: it retains the accumulated buffer so the encoder can
// keep appending across multiple logical runs within one session.
func (e *Int32Encoder) Reset() {}

// Finish returns the internal buffer to the pool. The encoder must not be
// used again afterward.
func (e *Int32Encoder) Finish() {
	if e.buf != nil {
		pool.PutBlobBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// Int32Decoder decodes int32 samples using direct memory reads with byte
// swap to host order.
type Int32Decoder struct {
	engine endian.EndianEngine
}

var _ SampleDecoder[int32] = Int32Decoder{}

// NewInt32Decoder creates a stateless decoder using the given byte order.
func NewInt32Decoder(engine endian.EndianEngine) Int32Decoder {
	return Int32Decoder{engine: engine}
}

func (d Int32Decoder) All(data []byte, count int) iter.Seq[int32] {
	return func(yield func(int32) bool) {
		if count == 0 || len(data) < count*4 {
			return
		}

		for i := range count {
			start := i * 4
			v := int32(d.engine.Uint32(data[start : start+4])) //nolint:gosec
			if !yield(v) {
				return
			}
		}
	}
}

func (d Int32Decoder) At(data []byte, index int, count int) (int32, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	start := index * 4
	if start+4 > len(data) {
		return 0, false
	}

	return int32(d.engine.Uint32(data[start : start+4])), true //nolint:gosec
}

// DecodeAllInt32 decodes every int32 sample in data into a freshly
// allocated slice, using an unsafe zero-copy reinterpretation when the
// decoder's byte order matches the host and the slice is 4-byte aligned,
// falling back to a safe element-wise decode otherwise.
func DecodeAllInt32(engine endian.EndianEngine, data []byte, count int) ([]int32, error) {
	if len(data) < count*4 {
		return nil, fmt.Errorf("int32 decode: need %d bytes, have %d", count*4, len(data))
	}

	out := make([]int32, count)
	if endian.CompareNativeEndian(engine) && len(data) >= 4 {
		aligned := uintptr(unsafe.Pointer(&data[0]))%4 == 0
		if aligned {
			src := unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), count)
			copy(out, src)

			return out, nil
		}
	}

	for i := range count {
		start := i * 4
		out[i] = int32(engine.Uint32(data[start : start+4])) //nolint:gosec
	}

	return out, nil
}
