package record

import (
	"testing"

	"github.com/seisio/mseed/encoding"
	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/errs"
	"github.com/seisio/mseed/format"
	"github.com/seisio/mseed/mstime"
	"github.com/stretchr/testify/require"
)

func sampleV3Template() *Record {
	cal := mstime.Calendar{Year: 2024, Day: 15, Hour: 3, Min: 4, Sec: 5, Nsec: 123000}
	start, err := cal.ToEpochNanos()
	if err != nil {
		panic(err)
	}

	return &Record{
		FormatVersion:      format.V3,
		SID:                NewSID("IU", "ANMO", "00", "B", "H", "Z"),
		StartTime:          start,
		SampleRate:         100,
		Encoding:           format.Int32,
		PublicationVersion: 1,
		SampleType:         format.SampleInt32,
	}
}

func TestBytesV3ParseV3RoundTrip(t *testing.T) {
	rec := sampleV3Template()
	samples := []int32{1, 2, 3, -4, 5, 100000}
	rec.SampleCount = int64(len(samples))

	payload, err := encoding.DefaultRegistry.EncodeInt32(format.Int32, endian.GetLittleEndianEngine(), samples)
	require.NoError(t, err)

	out, err := BytesV3(rec, payload)
	require.NoError(t, err)

	parsed, err := ParseV3(out)
	require.NoError(t, err)

	require.Equal(t, rec.SID, parsed.SID)
	require.Equal(t, rec.StartTime, parsed.StartTime)
	require.Equal(t, rec.SampleRate, parsed.SampleRate)
	require.Equal(t, rec.Encoding, parsed.Encoding)
	require.Equal(t, rec.PublicationVersion, parsed.PublicationVersion)
	require.Equal(t, samples, parsed.SamplesInt32)
}

func TestParseV3RejectsBadMagic(t *testing.T) {
	rec := sampleV3Template()
	rec.SampleCount = 0

	out, err := BytesV3(rec, nil)
	require.NoError(t, err)

	out[0] = 'X'

	_, err = ParseV3(out)
	require.ErrorIs(t, err, errs.ErrNotMiniSEED)
}

func TestParseV3DetectsCorruptedCRC(t *testing.T) {
	rec := sampleV3Template()
	samples := []int32{1, 2, 3}
	rec.SampleCount = int64(len(samples))

	payload, err := encoding.DefaultRegistry.EncodeInt32(format.Int32, endian.GetLittleEndianEngine(), samples)
	require.NoError(t, err)

	out, err := BytesV3(rec, payload)
	require.NoError(t, err)

	out[v3OffSampleRate] ^= 0xFF

	_, err = ParseV3(out)
	require.ErrorIs(t, err, errs.ErrBadCRC)
}

func TestParseV3RejectsTruncated(t *testing.T) {
	rec := sampleV3Template()
	samples := []int32{1, 2, 3}
	rec.SampleCount = int64(len(samples))

	payload, err := encoding.DefaultRegistry.EncodeInt32(format.Int32, endian.GetLittleEndianEngine(), samples)
	require.NoError(t, err)

	out, err := BytesV3(rec, payload)
	require.NoError(t, err)

	_, err = ParseV3(out[:len(out)-2])
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestBytesV3ZeroCRCSkipsValidation(t *testing.T) {
	rec := sampleV3Template()
	rec.SampleCount = 0

	out, err := BytesV3(rec, nil)
	require.NoError(t, err)

	out[v3OffCRC] = 0
	out[v3OffCRC+1] = 0
	out[v3OffCRC+2] = 0
	out[v3OffCRC+3] = 0

	_, err = ParseV3(out)
	require.NoError(t, err)
}
