package record

import (
	"fmt"
	"time"

	"github.com/seisio/mseed/encoding"
	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/errs"
	"github.com/seisio/mseed/format"
)

const (
	defaultMaxSamplesPerRecord = 4096
	defaultFormatVersion       = format.V3
	defaultEncoding            = format.Steim2
)

// PackerOption configures a Packer.
type PackerOption func(*packerConfig)

type packerConfig struct {
	formatVersion format.Version
	encoding      format.Encoding
	byteOrder     endian.EndianEngine
	maxSamples    int
}

// WithFormatVersion selects the wire format Pack emits, v2 or v3.
func WithFormatVersion(v format.Version) PackerOption {
	return func(c *packerConfig) { c.formatVersion = v }
}

// WithEncoding selects the sample codec Pack uses. Only INT32, STEIM1, and
// STEIM2 support encoding; the default is STEIM2.
func WithEncoding(e format.Encoding) PackerOption {
	return func(c *packerConfig) { c.encoding = e }
}

// WithByteOrder selects the byte order Pack writes v2 records in. v3
// records are always little-endian regardless of this option.
func WithByteOrder(engine endian.EndianEngine) PackerOption {
	return func(c *packerConfig) { c.byteOrder = engine }
}

// WithMaxSamplesPerRecord bounds the number of samples packed into a
// single record, splitting a longer run across multiple records. For v2
// output the actual on-wire record length is rounded up to the next power
// of two by BytesV2; this only bounds the sample count per chunk.
func WithMaxSamplesPerRecord(maxSamples int) PackerOption {
	return func(c *packerConfig) { c.maxSamples = maxSamples }
}

// Packer builds wire records from a contiguous run of int32 samples,
// splitting them into chunks of at most the configured maximum sample
// count (WithMaxSamplesPerRecord) and deriving each chunk's start time from its position in the run and
// the nominal sample rate.
type Packer struct {
	cfg packerConfig
}

// NewPacker builds a Packer from options; unset options default to v3,
// STEIM2, little-endian, 4096 samples per record.
func NewPacker(opts ...PackerOption) *Packer {
	cfg := packerConfig{
		formatVersion: defaultFormatVersion,
		encoding:      defaultEncoding,
		byteOrder:     endian.GetLittleEndianEngine(),
		maxSamples:    defaultMaxSamplesPerRecord,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Packer{cfg: cfg}
}

// Pack splits samples into chunks, encodes each with the configured
// codec, and serializes each chunk into a complete wire record. template
// supplies the SID, publication version, flags, extra headers, and sample
// rate shared by every chunk; its StartTime is the first chunk's start
// time, and later chunks' start times are derived from it using the
// nominal sample rate. An empty samples slice packs a single zero-sample
// record (a valid, if unusual, miniSEED record).
func (p *Packer) Pack(template *Record, samples []int32) ([][]byte, error) {
	if template.SampleRate == 0 && len(samples) > 1 {
		return nil, fmt.Errorf("%w: non-zero sample rate required to pack more than one sample", errs.ErrInvalidHeaderFlags)
	}

	if len(samples) == 0 {
		rec := template.Clone()
		rec.FormatVersion = p.cfg.formatVersion
		rec.Encoding = p.cfg.encoding
		rec.SampleType = format.SampleInt32
		rec.SamplesInt32 = nil
		rec.SampleCount = 0

		out, err := p.packOne(rec, nil)
		if err != nil {
			return nil, err
		}

		return [][]byte{out}, nil
	}

	period := samplePeriod(template.SampleRate)

	var records [][]byte

	for start := 0; start < len(samples); start += p.cfg.maxSamples {
		end := start + p.cfg.maxSamples
		if end > len(samples) {
			end = len(samples)
		}

		chunk := samples[start:end]

		rec := template.Clone()
		rec.FormatVersion = p.cfg.formatVersion
		rec.Encoding = p.cfg.encoding
		rec.SampleType = format.SampleInt32
		rec.SamplesInt32 = chunk
		rec.SampleCount = int64(len(chunk))
		rec.StartTime = template.StartTime.Add(time.Duration(start) * period)

		out, err := p.packOne(rec, chunk)
		if err != nil {
			return nil, err
		}

		records = append(records, out)
	}

	return records, nil
}

func (p *Packer) packOne(rec *Record, chunk []int32) ([]byte, error) {
	payload, err := encoding.DefaultRegistry.EncodeInt32(p.cfg.encoding, p.cfg.byteOrder, chunk)
	if err != nil {
		return nil, err
	}

	switch p.cfg.formatVersion {
	case format.V3:
		return BytesV3(rec, payload)
	case format.V2:
		return BytesV2(rec, payload, p.cfg.byteOrder)
	default:
		return nil, fmt.Errorf("%w: unsupported format version %d", errs.ErrInvalidHeaderFlags, p.cfg.formatVersion)
	}
}

// samplePeriod returns the nominal inter-sample duration for rate,
// accounting for the negative-rate-means-period-in-seconds convention.
func samplePeriod(rate float64) time.Duration {
	switch {
	case rate == 0:
		return 0
	case rate < 0:
		return time.Duration(-rate * float64(time.Second))
	default:
		return time.Duration(float64(time.Second) / rate)
	}
}
