package record

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/seisio/mseed/crc32c"
	"github.com/seisio/mseed/errs"
	"github.com/seisio/mseed/format"
	"github.com/seisio/mseed/mstime"
)

// v3FixedHeaderSize is the fixed portion of a v3 record: magic+version+
// flags, time, sample rate/period, sample count, CRC, publication
// version, and the three variable-section length fields.
const v3FixedHeaderSize = 40

// v3 fixed-header byte offsets.
const (
	v3OffMagic       = 0  // "MS", 2 bytes
	v3OffFormat      = 2  // 1 byte, always 3
	v3OffFlags       = 3  // 1 byte
	v3OffNanosecond  = 4  // uint32
	v3OffYear        = 8  // uint16
	v3OffDay         = 10 // uint16
	v3OffHour        = 12 // uint8
	v3OffMin         = 13 // uint8
	v3OffSec         = 14 // uint8
	v3OffEncoding    = 15 // uint8
	v3OffSampleRate  = 16 // float64, 8 bytes
	v3OffSampleCount = 24 // uint32
	v3OffCRC         = 28 // uint32
	v3OffPubVersion  = 32 // uint8
	v3OffSIDLength   = 33 // uint8
	v3OffExtraLength = 34 // uint16
	v3OffDataLength  = 36 // uint32
)

// ParseV3 parses a complete v3 record (fixed header, SID, extra headers,
// payload) from data. data must hold at least one complete record; bytes
// beyond the record's declared length are ignored.
func ParseV3(data []byte) (*Record, error) {
	if len(data) < v3FixedHeaderSize {
		return nil, fmt.Errorf("%w: v3 fixed header needs %d bytes, got %d", errs.ErrTruncated, v3FixedHeaderSize, len(data))
	}

	order := binary.LittleEndian

	if data[v3OffMagic] != 'M' || data[v3OffMagic+1] != 'S' || data[v3OffFormat] != 3 {
		return nil, fmt.Errorf("%w: bad v3 magic/version", errs.ErrNotMiniSEED)
	}

	year := order.Uint16(data[v3OffYear : v3OffYear+2])
	day := order.Uint16(data[v3OffDay : v3OffDay+2])

	if day < 1 || day > 366 {
		return nil, fmt.Errorf("%w: day-of-year %d out of range", errs.ErrInvalidHeaderFlags, day)
	}

	sidLen := int(data[v3OffSIDLength])
	extraLen := int(order.Uint16(data[v3OffExtraLength : v3OffExtraLength+2]))
	dataLen := int(order.Uint32(data[v3OffDataLength : v3OffDataLength+4]))

	total := v3FixedHeaderSize + sidLen + extraLen + dataLen
	if len(data) < total {
		return nil, fmt.Errorf("%w: record declares %d bytes, have %d", errs.ErrTruncated, total, len(data))
	}

	sidStart := v3FixedHeaderSize
	extraStart := sidStart + sidLen
	dataStart := extraStart + extraLen
	dataEnd := dataStart + dataLen

	storedCRC := order.Uint32(data[v3OffCRC : v3OffCRC+4])
	computedCRC := crc32c.ChecksumRecordCRCZeroed(data[:total], v3OffCRC)

	if storedCRC != 0 && storedCRC != computedCRC {
		return nil, fmt.Errorf("%w: stored %08x computed %08x", errs.ErrBadCRC, storedCRC, computedCRC)
	}

	nanosecond := order.Uint32(data[v3OffNanosecond : v3OffNanosecond+4])
	hour := data[v3OffHour]
	minute := data[v3OffMin]
	sec := data[v3OffSec]

	cal := mstime.Calendar{
		Year: int64(year),
		Day:  int(day),
		Hour: int(hour),
		Min:  int(minute),
		Sec:  int(sec),
		Nsec: int(nanosecond),
	}

	start, err := cal.ToEpochNanos()
	if err != nil {
		return nil, err
	}

	sampleRateBits := order.Uint64(data[v3OffSampleRate : v3OffSampleRate+8])
	sampleRate := math.Float64frombits(sampleRateBits)

	rec := &Record{
		RecordBytes:        append([]byte(nil), data[:total]...),
		FormatVersion:      format.V3,
		Flags:              Flags(data[v3OffFlags]),
		StartTime:          start,
		SampleRate:         sampleRate,
		Encoding:           format.Encoding(data[v3OffEncoding]),
		PublicationVersion: data[v3OffPubVersion],
		SampleCount:        int64(order.Uint32(data[v3OffSampleCount : v3OffSampleCount+4])),
		CRC:                storedCRC,
		ExtraHeaders:       append([]byte(nil), data[extraStart:dataStart]...),
		SampleType:         format.SampleTypeFor(format.Encoding(data[v3OffEncoding])),
	}

	rec.SID = SID(data[sidStart:extraStart])

	if err := decodeSamplesInto(rec, data[dataStart:dataEnd]); err != nil {
		return nil, err
	}

	return rec, nil
}

// v3PayloadOffset returns the byte offset of the payload within a v3
// record whose SID and extra-header sections have the given lengths.
func v3PayloadOffset(sidLen, extraLen int) int {
	return v3FixedHeaderSize + sidLen + extraLen
}

// BytesV3 serializes rec into a v3 record, given the already-encoded
// sample payload. CRC is computed last, over the full record with the CRC
// field zeroed, and patched into the output.
func BytesV3(rec *Record, payload []byte) ([]byte, error) {
	sid := rec.SID.String()
	if len(sid) > 255 {
		return nil, fmt.Errorf("%w: SID length %d exceeds 255", errs.ErrBadLength, len(sid))
	}

	total := v3FixedHeaderSize + len(sid) + len(rec.ExtraHeaders) + len(payload)
	out := make([]byte, total)
	order := binary.LittleEndian

	out[v3OffMagic] = 'M'
	out[v3OffMagic+1] = 'S'
	out[v3OffFormat] = 3
	out[v3OffFlags] = byte(rec.Flags)

	cal := mstime.EpochToCalendar(int64(rec.StartTime))

	order.PutUint32(out[v3OffNanosecond:v3OffNanosecond+4], uint32(cal.Nsec))
	order.PutUint16(out[v3OffYear:v3OffYear+2], uint16(cal.Year))
	order.PutUint16(out[v3OffDay:v3OffDay+2], uint16(cal.Day))
	out[v3OffHour] = byte(cal.Hour)
	out[v3OffMin] = byte(cal.Min)
	out[v3OffSec] = byte(cal.Sec)
	out[v3OffEncoding] = byte(rec.Encoding)
	order.PutUint64(out[v3OffSampleRate:v3OffSampleRate+8], math.Float64bits(rec.SampleRate))
	order.PutUint32(out[v3OffSampleCount:v3OffSampleCount+4], uint32(rec.SampleCount))
	out[v3OffPubVersion] = rec.PublicationVersion
	out[v3OffSIDLength] = byte(len(sid))
	order.PutUint16(out[v3OffExtraLength:v3OffExtraLength+2], uint16(len(rec.ExtraHeaders)))
	order.PutUint32(out[v3OffDataLength:v3OffDataLength+4], uint32(len(payload)))

	pos := v3FixedHeaderSize
	copy(out[pos:], sid)
	pos += len(sid)
	copy(out[pos:], rec.ExtraHeaders)
	pos += len(rec.ExtraHeaders)
	copy(out[pos:], payload)

	crc := crc32c.ChecksumRecordCRCZeroed(out, v3OffCRC)
	order.PutUint32(out[v3OffCRC:v3OffCRC+4], crc)

	return out, nil
}
