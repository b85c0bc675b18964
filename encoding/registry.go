package encoding

import (
	"fmt"

	"github.com/seisio/mseed/encoding/steim"
	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/errs"
	"github.com/seisio/mseed/format"
)

// DecodedSamples holds the result of decoding a record's sample payload.
// Exactly one of the fields is populated, selected by Type.
type DecodedSamples struct {
	Type    format.SampleType
	Int32   []int32
	Float32 []float32
	Float64 []float64
	Text    string
}

// Registry dispatches encode/decode for a format.Encoding without a type
// switch at the call site; the switch over encodings lives in Decode and
// EncodeInt32.
type Registry struct{}

// DefaultRegistry is the package's built-in codec registry; every known
// encoding is reachable through it.
var DefaultRegistry = Registry{}

// Decode decodes count samples of the given encoding from data, using
// engine for any multi-byte fields.
func (Registry) Decode(enc format.Encoding, engine endian.EndianEngine, data []byte, count int) (DecodedSamples, error) {
	switch enc {
	case format.Text:
		return DecodedSamples{Type: format.SampleText, Text: NewTextDecoder().DecodeString(data, count)}, nil

	case format.Int16:
		out, err := decodeAllInt16(engine, data, count)
		return DecodedSamples{Type: format.SampleInt32, Int32: out}, err

	case format.Int32:
		out, err := DecodeAllInt32(engine, data, count)
		return DecodedSamples{Type: format.SampleInt32, Int32: out}, err

	case format.Float32:
		out, err := decodeAllFloat32(engine, data, count)
		return DecodedSamples{Type: format.SampleFloat32, Float32: out}, err

	case format.Float64:
		out, err := decodeAllFloat64(engine, data, count)
		return DecodedSamples{Type: format.SampleFloat64, Float64: out}, err

	case format.Steim1:
		out, err := steim.DecodeSteim1(data, count, engine)
		return DecodedSamples{Type: format.SampleInt32, Int32: out}, err

	case format.Steim2:
		out, err := steim.DecodeSteim2(data, count, engine)
		return DecodedSamples{Type: format.SampleInt32, Int32: out}, err

	case format.LegacySRO:
		out, err := decodeAllInto(NewSRODecoder(engine), data, count)
		return DecodedSamples{Type: format.SampleInt32, Int32: out}, err

	case format.LegacyCDSN:
		out, err := decodeAllInto(NewCDSNDecoder(engine), data, count)
		return DecodedSamples{Type: format.SampleInt32, Int32: out}, err

	case format.LegacyDWWSSN:
		out, err := decodeAllInto(NewDWWSSNDecoder(engine), data, count)
		return DecodedSamples{Type: format.SampleInt32, Int32: out}, err

	case format.LegacyGEOSCOPE24:
		out, err := decodeAllInto(NewGEOSCOPE24Decoder(engine), data, count)
		return DecodedSamples{Type: format.SampleInt32, Int32: out}, err

	case format.LegacyGEOSCOPE3:
		out, err := decodeAllInto(NewGEOSCOPE3Decoder(engine), data, count)
		return DecodedSamples{Type: format.SampleInt32, Int32: out}, err

	case format.LegacyGEOSCOPE4:
		out, err := decodeAllInto(NewGEOSCOPE4Decoder(engine), data, count)
		return DecodedSamples{Type: format.SampleInt32, Int32: out}, err

	default:
		return DecodedSamples{}, fmt.Errorf("%w: encoding %d", errs.ErrUnknownEncoding, enc)
	}
}

// EncodeInt32 encodes int32 samples using one of the read/write int32
// encodings (INT32, Steim-1, Steim-2). Legacy and fixed-width-narrower
// encodings are decode-only and rejected here.
func (Registry) EncodeInt32(enc format.Encoding, engine endian.EndianEngine, samples []int32) ([]byte, error) {
	switch enc {
	case format.Int32:
		e := NewInt32Encoder(engine)
		defer e.Finish()
		e.WriteSlice(samples)

		return append([]byte(nil), e.Bytes()...), nil

	case format.Steim1:
		return steim.EncodeSteim1(samples, engine)

	case format.Steim2:
		return steim.EncodeSteim2(samples, engine)

	default:
		return nil, fmt.Errorf("%w: encoding %d does not support int32 write", errs.ErrUnknownEncoding, enc)
	}
}

func decodeAllInto(dec SampleDecoder[int32], data []byte, count int) ([]int32, error) {
	out := make([]int32, 0, count)
	for v := range dec.All(data, count) {
		out = append(out, v)
	}

	if len(out) < count {
		return out, errs.ErrTruncated
	}

	return out, nil
}

func decodeAllInt16(engine endian.EndianEngine, data []byte, count int) ([]int32, error) {
	dec := NewInt16Decoder(engine)
	out := make([]int32, 0, count)

	for v := range dec.All(data, count) {
		out = append(out, int32(v))
	}

	if len(out) < count {
		return out, errs.ErrTruncated
	}

	return out, nil
}

func decodeAllFloat32(engine endian.EndianEngine, data []byte, count int) ([]float32, error) {
	dec := NewFloat32Decoder(engine)
	out := make([]float32, 0, count)

	for v := range dec.All(data, count) {
		out = append(out, v)
	}

	if len(out) < count {
		return out, errs.ErrTruncated
	}

	return out, nil
}

func decodeAllFloat64(engine endian.EndianEngine, data []byte, count int) ([]float64, error) {
	dec := NewFloat64Decoder(engine)
	out := make([]float64, 0, count)

	for v := range dec.All(data, count) {
		out = append(out, v)
	}

	if len(out) < count {
		return out, errs.ErrTruncated
	}

	return out, nil
}
