package encoding

import (
	"iter"
	"math"

	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/internal/pool"
)

// Float64Encoder encodes float64 samples (the FLOAT64 fixed-width encoding).
type Float64Encoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ SampleEncoder[float64] = (*Float64Encoder)(nil)

// NewFloat64Encoder creates an encoder using the given byte order.
func NewFloat64Encoder(engine endian.EndianEngine) *Float64Encoder {
	return &Float64Encoder{
		engine: engine,
		buf:    pool.GetBlobBuffer(),
	}
}

func (e *Float64Encoder) Write(v float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.count++
	e.buf.Grow(8)

	n := e.buf.Len()
	e.engine.PutUint64(e.buf.Slice(n, n+8), math.Float64bits(v))
	e.buf.SetLength(n + 8)
}

func (e *Float64Encoder) WriteSlice(values []float64) {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	if len(values) == 0 {
		return
	}

	e.count += len(values)
	e.buf.Grow(len(values) * 8)

	start := e.buf.Len()
	e.buf.ExtendOrGrow(len(values) * 8)

	for i, v := range values {
		off := start + i*8
		e.engine.PutUint64(e.buf.Slice(off, off+8), math.Float64bits(v))
	}
}

func (e *Float64Encoder) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

func (e *Float64Encoder) Len() int { return e.count }

func (e *Float64Encoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

func (e *Float64Encoder) Reset() {}

func (e *Float64Encoder) Finish() {
	if e.buf != nil {
		pool.PutBlobBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// Float64Decoder decodes float64 samples.
type Float64Decoder struct {
	engine endian.EndianEngine
}

var _ SampleDecoder[float64] = Float64Decoder{}

// NewFloat64Decoder creates a stateless decoder using the given byte order.
func NewFloat64Decoder(engine endian.EndianEngine) Float64Decoder {
	return Float64Decoder{engine: engine}
}

func (d Float64Decoder) All(data []byte, count int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		if count == 0 || len(data) < count*8 {
			return
		}

		for i := range count {
			start := i * 8
			v := math.Float64frombits(d.engine.Uint64(data[start : start+8]))
			if !yield(v) {
				return
			}
		}
	}
}

func (d Float64Decoder) At(data []byte, index int, count int) (float64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	start := index * 8
	if start+8 > len(data) {
		return 0, false
	}

	return math.Float64frombits(d.engine.Uint64(data[start : start+8])), true
}
