package record

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/seisio/mseed/endian"
	"github.com/seisio/mseed/errs"
	"github.com/seisio/mseed/format"
	"github.com/seisio/mseed/mstime"
)

// v2FixedHeaderSize is the 48-byte v2.4 fixed section.
const v2FixedHeaderSize = 48

// v2 fixed-header byte offsets.
const (
	v2OffSequence     = 0  // 6 ASCII digits
	v2OffQuality      = 6  // 1 byte: D/R/Q/M
	v2OffReserved     = 7  // 1 byte, always a space
	v2OffStation      = 8  // 5 bytes
	v2OffLocation     = 13 // 2 bytes
	v2OffChannel      = 15 // 3 bytes
	v2OffNetwork      = 18 // 2 bytes
	v2OffYear         = 20 // uint16
	v2OffDay          = 22 // uint16
	v2OffHour         = 24 // uint8
	v2OffMin          = 25 // uint8
	v2OffSec          = 26 // uint8
	v2OffFractSec     = 28 // uint16, 0.0001s ticks
	v2OffSampleCount  = 30 // uint16
	v2OffRateFactor   = 32 // int16
	v2OffRateMultiple = 34 // int16
	v2OffActivity     = 36 // uint8
	v2OffIOFlags      = 37 // uint8
	v2OffQualityFlags = 38 // uint8
	v2OffNumBlockette = 39 // uint8
	v2OffTimeCorr     = 40 // int32, 0.0001s ticks
	v2OffDataOffset   = 44 // uint16
	v2OffFirstBlkOff  = 46 // uint16
)

// ParseV2 parses a complete v2.4 record (fixed header, blockette chain,
// payload) from data using the given byte order (determined by
// DetectVersion, since v2 carries no explicit byte-order flag).
func ParseV2(data []byte, order endian.EndianEngine) (*Record, error) {
	if len(data) < v2FixedHeaderSize {
		return nil, fmt.Errorf("%w: v2 fixed header needs %d bytes, got %d", errs.ErrTruncated, v2FixedHeaderSize, len(data))
	}

	quality := data[v2OffQuality]
	switch quality {
	case 'D', 'R', 'Q', 'M':
	default:
		return nil, fmt.Errorf("%w: unrecognized quality indicator %q", errs.ErrNotMiniSEED, quality)
	}

	station := strings.TrimRight(string(data[v2OffStation:v2OffStation+5]), " ")
	location := strings.TrimRight(string(data[v2OffLocation:v2OffLocation+2]), " ")
	channel := strings.TrimRight(string(data[v2OffChannel:v2OffChannel+3]), " ")
	network := strings.TrimRight(string(data[v2OffNetwork:v2OffNetwork+2]), " ")

	year := order.Uint16(data[v2OffYear : v2OffYear+2])
	day := order.Uint16(data[v2OffDay : v2OffDay+2])

	if day < 1 || day > 366 {
		return nil, fmt.Errorf("%w: day-of-year %d out of range", errs.ErrInvalidHeaderFlags, day)
	}

	fractTicks := order.Uint16(data[v2OffFractSec : v2OffFractSec+2])

	cal := mstime.Calendar{
		Year: int64(year),
		Day:  int(day),
		Hour: int(data[v2OffHour]),
		Min:  int(data[v2OffMin]),
		Sec:  int(data[v2OffSec]),
		Nsec: int(fractTicks) * 100000, // 0.0001s ticks -> ns
	}

	start, err := cal.ToEpochNanos()
	if err != nil {
		return nil, err
	}

	sampleCount := order.Uint16(data[v2OffSampleCount : v2OffSampleCount+2])
	rateFactor := int16(order.Uint16(data[v2OffRateFactor : v2OffRateFactor+2]))
	rateMultiple := int16(order.Uint16(data[v2OffRateMultiple : v2OffRateMultiple+2]))

	rec := &Record{
		FormatVersion:      format.V2,
		SID:                SIDFromV2(network, station, location, channel),
		Flags:              v2Flags(data[v2OffActivity], data[v2OffIOFlags], data[v2OffQualityFlags]),
		StartTime:          start,
		SampleRate:         nominalSampleRate(rateFactor, rateMultiple),
		PublicationVersion: format.PublicationVersionFromQuality(quality),
		SampleCount:        int64(sampleCount),
	}

	timeCorrTicks := int32(order.Uint32(data[v2OffTimeCorr : v2OffTimeCorr+4]))
	if timeCorrTicks != 0 {
		rec.StartTime = rec.StartTime.Add(durationFromTicks(timeCorrTicks))
	}

	numBlockettes := int(data[v2OffNumBlockette])
	firstBlkOffset := int(order.Uint16(data[v2OffFirstBlkOff : v2OffFirstBlkOff+2]))
	dataOffset := int(order.Uint16(data[v2OffDataOffset : v2OffDataOffset+2]))

	encodingID := byte(0)
	recordLen := len(data)

	if numBlockettes > 0 && firstBlkOffset > 0 {
		var err error

		encodingID, recordLen, err = walkBlockettes(rec, data, firstBlkOffset, order)
		if err != nil {
			return nil, err
		}
	}

	if recordLen > len(data) {
		return nil, fmt.Errorf("%w: declared record length %d exceeds buffer %d", errs.ErrTruncated, recordLen, len(data))
	}

	rec.RecordBytes = append([]byte(nil), data[:recordLen]...)
	rec.Encoding = format.Encoding(encodingID)
	rec.SampleType = format.SampleTypeFor(rec.Encoding)

	if dataOffset > 0 && dataOffset < recordLen {
		if err := decodeSamplesIntoOrder(rec, data[dataOffset:recordLen], order); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// v2Flags folds v2's three separate flag bytes (activity, I/O, data
// quality) into the v3 single-byte layout.
func v2Flags(activity, ioFlags, qualityFlags byte) Flags {
	var f Flags

	if activity&0x01 != 0 {
		f |= FlagCalibrationSignalsPresent
	}

	if qualityFlags&0x02 != 0 {
		f |= FlagTimeTagQuestionable
	}

	if ioFlags&0x20 != 0 {
		f |= FlagClockLocked
	}

	return f
}

// nominalSampleRate derives the nominal sample rate in Hz from the v2
// factor/multiplier pair, per the four sign-cased SEED formula:
//   - both positive: rate = factor * multiplier
//   - factor > 0, multiplier < 0: rate = factor / -multiplier
//   - factor < 0, multiplier > 0: rate = -1 / (factor * multiplier)
//   - both negative: rate = -multiplier / -factor (i.e. multiplier/factor)
func nominalSampleRate(factor, multiplier int16) float64 {
	switch {
	case factor == 0 || multiplier == 0:
		return 0
	case factor > 0 && multiplier > 0:
		return float64(factor) * float64(multiplier)
	case factor > 0 && multiplier < 0:
		return float64(factor) / float64(-multiplier)
	case factor < 0 && multiplier > 0:
		return -1.0 / (float64(factor) * float64(multiplier))
	default: // both negative
		return float64(multiplier) / float64(factor)
	}
}

// durationFromTicks converts a count of 0.0001-second ticks (the v2 time
// correction field's unit) to a time.Duration.
func durationFromTicks(ticks int32) time.Duration {
	return time.Duration(ticks) * 100 * time.Microsecond
}

// rateToFactorMultiplier is the inverse of nominalSampleRate for the
// common case: it always emits a factor>0, multiplier<0 pair so that
// rate == factor / -multiplier, scaled to two decimal places. Rates above
// ~327.67 Hz lose precision beyond what an int16 factor can hold.
func rateToFactorMultiplier(rate float64) (factor, multiplier int16) {
	if rate == 0 {
		return 0, 0
	}

	return int16(math.Round(rate * 100)), -100
}

// v2ActivityByte, v2IOFlagsByte, and v2QualityFlagsByte are the inverse of
// v2Flags, folding the v3 single-byte Flags back into v2's three bytes.
func v2ActivityByte(f Flags) byte {
	var b byte

	if f&FlagCalibrationSignalsPresent != 0 {
		b |= 0x01
	}

	return b
}

func v2IOFlagsByte(f Flags) byte {
	var b byte

	if f&FlagClockLocked != 0 {
		b |= 0x20
	}

	return b
}

func v2QualityFlagsByte(f Flags) byte {
	var b byte

	if f&FlagTimeTagQuestionable != 0 {
		b |= 0x02
	}

	return b
}

// collapseChannelCode rebuilds a 3-character v2 channel code from the
// band/source/subsource triple, the inverse of ExpandChannelCode for the
// common single-character-component case.
func collapseChannelCode(band, source, subsource string) string {
	return band + source + subsource
}

// padRight returns s truncated or space-padded to exactly n bytes.
func padRight(s string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}

	copy(b, s)

	return b
}

// boolByte returns 1 if b is true, 0 otherwise.
func boolByte(b bool) byte {
	if b {
		return 1
	}

	return 0
}

// BytesV2 serializes rec into a v2.4 record using order for all
// multi-byte numeric fields, given the already-encoded sample payload. A
// blockette 1000 (Data Only SEED) is always synthesized to carry the
// encoding id, word order, and record length as a power of two; the
// record is zero-padded to that power-of-two boundary.
func BytesV2(rec *Record, payload []byte, order endian.EndianEngine) ([]byte, error) {
	net, sta, loc, band, source, subsource, ok := rec.SID.Parts()
	if !ok {
		return nil, fmt.Errorf("%w: SID %q is not a canonical FDSN identifier", errs.ErrInvalidHeaderFlags, rec.SID)
	}

	if rec.SampleCount > 0xFFFF {
		return nil, fmt.Errorf("%w: v2 sample count %d exceeds 16-bit field", errs.ErrBadLength, rec.SampleCount)
	}

	channel := collapseChannelCode(band, source, subsource)

	const blockette1000Size = 8

	unpaddedLen := v2FixedHeaderSize + blockette1000Size + len(payload)

	power := 0
	for 1<<power < unpaddedLen {
		power++
	}

	recordLen := 1 << power
	out := make([]byte, recordLen)

	quality := format.QualityFromPublicationVersion(rec.PublicationVersion)
	out[v2OffQuality] = quality
	out[v2OffReserved] = ' '

	copy(out[v2OffStation:v2OffStation+5], padRight(sta, 5))
	copy(out[v2OffLocation:v2OffLocation+2], padRight(loc, 2))
	copy(out[v2OffChannel:v2OffChannel+3], padRight(channel, 3))
	copy(out[v2OffNetwork:v2OffNetwork+2], padRight(net, 2))

	cal := mstime.EpochToCalendar(int64(rec.StartTime))
	order.PutUint16(out[v2OffYear:v2OffYear+2], uint16(cal.Year))
	order.PutUint16(out[v2OffDay:v2OffDay+2], uint16(cal.Day))
	out[v2OffHour] = byte(cal.Hour)
	out[v2OffMin] = byte(cal.Min)
	out[v2OffSec] = byte(cal.Sec)
	order.PutUint16(out[v2OffFractSec:v2OffFractSec+2], uint16(cal.Nsec/100000))
	order.PutUint16(out[v2OffSampleCount:v2OffSampleCount+2], uint16(rec.SampleCount))

	factor, multiplier := rateToFactorMultiplier(rec.SampleRate)
	order.PutUint16(out[v2OffRateFactor:v2OffRateFactor+2], uint16(factor))
	order.PutUint16(out[v2OffRateMultiple:v2OffRateMultiple+2], uint16(multiplier))

	out[v2OffActivity] = v2ActivityByte(rec.Flags)
	out[v2OffIOFlags] = v2IOFlagsByte(rec.Flags)
	out[v2OffQualityFlags] = v2QualityFlagsByte(rec.Flags)

	out[v2OffNumBlockette] = 1
	order.PutUint16(out[v2OffFirstBlkOff:v2OffFirstBlkOff+2], uint16(v2FixedHeaderSize))
	order.PutUint16(out[v2OffDataOffset:v2OffDataOffset+2], uint16(v2FixedHeaderSize+blockette1000Size))

	blk := out[v2FixedHeaderSize : v2FixedHeaderSize+blockette1000Size]
	order.PutUint16(blk[0:2], blocketteDataOnly)
	order.PutUint16(blk[2:4], 0)
	blk[4] = byte(rec.Encoding)
	blk[5] = boolByte(isBigEndianOrder(order))
	blk[6] = byte(power)
	blk[7] = 0

	copy(out[v2FixedHeaderSize+blockette1000Size:], payload)

	return out, nil
}

// isBigEndianOrder reports whether order is the big-endian byte order, so
// BytesV2 can set blockette 1000's word order byte correctly.
func isBigEndianOrder(order endian.EndianEngine) bool {
	return order == endian.GetBigEndianEngine()
}
