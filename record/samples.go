package record

import (
	"github.com/seisio/mseed/encoding"
	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/format"
)

// decodeSamplesIntoOrder decodes payload using rec.Encoding and the given byte
// order, populating whichever Samples* field matches rec.SampleType.
// TEXT encoding's "sample count" is the payload's byte length.
func decodeSamplesIntoOrder(rec *Record, payload []byte, engine endian.EndianEngine) error {
	count := int(rec.SampleCount)
	if rec.Encoding == format.Text {
		count = len(payload)
	}

	decoded, err := encoding.DefaultRegistry.Decode(rec.Encoding, engine, payload, count)
	if err != nil {
		return err
	}

	rec.SampleType = decoded.Type
	rec.SamplesInt32 = decoded.Int32
	rec.SamplesFloat32 = decoded.Float32
	rec.SamplesFloat64 = decoded.Float64
	rec.SamplesText = decoded.Text

	return nil
}

// decodeSamplesInto decodes payload assuming v3's fixed little-endian byte
// order.
func decodeSamplesInto(rec *Record, payload []byte) error {
	return decodeSamplesIntoOrder(rec, payload, endian.GetLittleEndianEngine())
}
