package record

import (
	"fmt"
	"time"

	"github.com/seisio/mseed/errs"
	"github.com/seisio/mseed/format"
	"github.com/seisio/mseed/mstime"
)

// Flags normalizes the v2 activity/IO/clock flag bytes into the v3
// single-byte layout. Bit meaning follows the v3 fixed-header definition;
// v2's three separate flag bytes are folded into it during parsing.
type Flags uint8

const (
	FlagCalibrationSignalsPresent Flags = 1 << 0
	FlagTimeTagQuestionable       Flags = 1 << 1
	FlagClockLocked               Flags = 1 << 2
)

// Record is the uniform typed view of a miniSEED record produced by
// parsing and consumed by packing, regardless of source format version.
type Record struct {
	RecordBytes []byte // raw bytes this record was parsed from, or nil if synthesized
	FormatVersion format.Version

	SID                SID
	Flags              Flags
	StartTime          mstime.Time
	SampleRate         float64 // positive = Hz, negative = period in seconds
	Encoding           format.Encoding
	PublicationVersion uint8
	SampleCount        int64
	CRC                uint32

	ExtraHeaders []byte // CBOR document, possibly empty

	SampleType    format.SampleType
	SamplesInt32  []int32
	SamplesFloat32 []float32
	SamplesFloat64 []float64
	SamplesText    string
}

// Clone returns a deep copy of the record; mutating the copy never
// affects the original, including its decoded sample buffers.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	c := *r
	c.RecordBytes = append([]byte(nil), r.RecordBytes...)
	c.ExtraHeaders = append([]byte(nil), r.ExtraHeaders...)
	c.SamplesInt32 = append([]int32(nil), r.SamplesInt32...)
	c.SamplesFloat32 = append([]float32(nil), r.SamplesFloat32...)
	c.SamplesFloat64 = append([]float64(nil), r.SamplesFloat64...)

	return &c
}

// EndTime returns the last sample's nominal time, record_start +
// (sample_count-1)/sample_rate. Returns StartTime unmodified when
// SampleCount <= 1 or SampleRate is zero.
func (r *Record) EndTime() mstime.Time {
	if r.SampleCount <= 1 || r.SampleRate == 0 {
		return r.StartTime
	}

	periodNanos := 1e9 / r.effectiveRate()
	offset := float64(r.SampleCount-1) * periodNanos

	return r.StartTime.Add(time.Duration(offset))
}

func (r *Record) effectiveRate() float64 {
	if r.SampleRate > 0 {
		return r.SampleRate
	}

	// Negative sample rate stores a period in seconds.
	return 1.0 / -r.SampleRate
}

// SamplePeriod returns the nominal duration between consecutive samples,
// honoring the negative-sample-rate-means-period-in-seconds convention.
// Returns zero if SampleRate is zero.
func (r *Record) SamplePeriod() time.Duration {
	if r.SampleRate == 0 {
		return 0
	}

	return time.Duration(1e9 / r.effectiveRate())
}

// Validate checks the invariants a fully decoded record must satisfy
// before it can be packed or handed to a caller.
func (r *Record) Validate() error {
	if r.SampleCount < 0 {
		return fmt.Errorf("%w: negative sample count %d", errs.ErrBadLength, r.SampleCount)
	}

	if r.Encoding == format.Text && r.SampleType != format.SampleText {
		return fmt.Errorf("%w: TEXT encoding requires sample_type 't'", errs.ErrInvalidHeaderFlags)
	}

	if r.PublicationVersion == 0 {
		return fmt.Errorf("%w: publication_version must be 1-255", errs.ErrInvalidHeaderFlags)
	}

	switch r.SampleType {
	case format.SampleInt32:
		if int64(len(r.SamplesInt32)) != 0 && int64(len(r.SamplesInt32)) != r.SampleCount {
			return fmt.Errorf("%w: int32 buffer length %d != sample_count %d", errs.ErrBadLength, len(r.SamplesInt32), r.SampleCount)
		}
	case format.SampleFloat32:
		if int64(len(r.SamplesFloat32)) != 0 && int64(len(r.SamplesFloat32)) != r.SampleCount {
			return fmt.Errorf("%w: float32 buffer length %d != sample_count %d", errs.ErrBadLength, len(r.SamplesFloat32), r.SampleCount)
		}
	case format.SampleFloat64:
		if int64(len(r.SamplesFloat64)) != 0 && int64(len(r.SamplesFloat64)) != r.SampleCount {
			return fmt.Errorf("%w: float64 buffer length %d != sample_count %d", errs.ErrBadLength, len(r.SamplesFloat64), r.SampleCount)
		}
	case format.SampleText:
		if int64(len(r.SamplesText)) != 0 && int64(len(r.SamplesText)) != r.SampleCount {
			return fmt.Errorf("%w: text length %d != sample_count %d", errs.ErrBadLength, len(r.SamplesText), r.SampleCount)
		}
	}

	return nil
}
