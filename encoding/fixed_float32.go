package encoding

import (
	"iter"
	"math"

	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/internal/pool"
)

// Float32Encoder encodes float32 samples (the FLOAT32 fixed-width encoding).
type Float32Encoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ SampleEncoder[float32] = (*Float32Encoder)(nil)

// NewFloat32Encoder creates an encoder using the given byte order.
func NewFloat32Encoder(engine endian.EndianEngine) *Float32Encoder {
	return &Float32Encoder{
		engine: engine,
		buf:    pool.GetBlobBuffer(),
	}
}

func (e *Float32Encoder) Write(v float32) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.Grow(4)

	n := e.buf.Len()
	e.engine.PutUint32(e.buf.Slice(n, n+4), math.Float32bits(v))
	e.buf.SetLength(n + 4)
}

func (e *Float32Encoder) WriteSlice(values []float32) {
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
		e.engine.PutUint32(e.buf.Slice(off, off+4), math.Float32bits(v))
	}
}

func (e *Float32Encoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

func (e *Float32Encoder) Len() int { return e.count }

func (e *Float32Encoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

func (e *Float32Encoder) Reset() {}

func (e *Float32Encoder) Finish() {
	if e.buf != nil {
		pool.PutBlobBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// Float32Decoder decodes float32 samples.
type Float32Decoder struct {
	engine endian.EndianEngine
}

var _ SampleDecoder[float32] = Float32Decoder{}

// NewFloat32Decoder creates a stateless decoder using the given byte order.
func NewFloat32Decoder(engine endian.EndianEngine) Float32Decoder {
	return Float32Decoder{engine: engine}
}

func (d Float32Decoder) All(data []byte, count int) iter.Seq[float32] {
	return func(yield func(float32) bool) {
		if count == 0 || len(data) < count*4 {
			return
		}

		for i := range count {
			start := i * 4
			v := math.Float32frombits(d.engine.Uint32(data[start : start+4]))
			if !yield(v) {
				return
			}
		}
	}
}

func (d Float32Decoder) At(data []byte, index int, count int) (float32, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	start := index * 4
	if start+4 > len(data) {
		return 0, false
	}

	return math.Float32frombits(d.engine.Uint32(data[start : start+4])), true
}
