// Package tracelist assembles a stream of parsed records into traces: one
// ordered run of segments per source identifier (optionally split by
// publication version), merging contiguous records and detecting gaps and
// overlaps as they arrive.
package tracelist

import (
	"github.com/seisio/mseed/format"
	"github.com/seisio/mseed/mstime"
	"github.com/seisio/mseed/record"
)

// Segment is a contiguous, time-ordered run of samples within a Trace. Its
// sample buffer is typed to match whatever SampleType the records that
// built it decoded to; text-encoded records that merge into a segment are
// kept as separate entries, so SamplesText holds one entry per record
// instead of a single concatenated run.
type Segment struct {
	Start      mstime.Time
	End        mstime.Time
	SampleRate float64

	SampleType     format.SampleType
	SamplesInt32   []int32
	SamplesFloat32 []float32
	SamplesFloat64 []float64
	SamplesText    []string
}

// newSegment builds a single-record segment.
func newSegment(rec *record.Record) *Segment {
	seg := &Segment{
		Start:      rec.StartTime,
		End:        rec.EndTime(),
		SampleRate: rec.SampleRate,
		SampleType: rec.SampleType,
	}

	appendSamples(seg, rec)

	return seg
}

// SampleCount returns the number of samples currently held by seg,
// whichever typed buffer is populated.
func (seg *Segment) SampleCount() int64 {
	switch seg.SampleType {
	case format.SampleInt32:
		return int64(len(seg.SamplesInt32))
	case format.SampleFloat32:
		return int64(len(seg.SamplesFloat32))
	case format.SampleFloat64:
		return int64(len(seg.SamplesFloat64))
	case format.SampleText:
		var total int64
		for _, text := range seg.SamplesText {
			total += int64(len(text))
		}

		return total
	default:
		return 0
	}
}

// grow returns dst with capacity for at least additional more elements,
// reallocating by at least 1.5x its current capacity when it must grow at
// all, so repeated appends amortize to O(1).
func grow[T any](dst []T, additional int) []T {
	need := len(dst) + additional
	if cap(dst) >= need {
		return dst
	}

	newCap := cap(dst) + cap(dst)/2
	if newCap < need {
		newCap = need
	}

	grown := make([]T, len(dst), newCap)
	copy(grown, dst)

	return grown
}

// appendSamples extends seg's samples (of whatever type matches
// seg.SampleType) with rec's decoded samples, using a grow-then-copy
// pattern generalized from bytes to typed sample slices.
func appendSamples(seg *Segment, rec *record.Record) {
	switch rec.SampleType {
	case format.SampleInt32:
		seg.SamplesInt32 = append(grow(seg.SamplesInt32, len(rec.SamplesInt32)), rec.SamplesInt32...)
	case format.SampleFloat32:
		seg.SamplesFloat32 = append(grow(seg.SamplesFloat32, len(rec.SamplesFloat32)), rec.SamplesFloat32...)
	case format.SampleFloat64:
		seg.SamplesFloat64 = append(grow(seg.SamplesFloat64, len(rec.SamplesFloat64)), rec.SamplesFloat64...)
	case format.SampleText:
		seg.SamplesText = append(seg.SamplesText, rec.SamplesText)
	}
}

// prependSamples rebuilds seg's sample buffer with rec's samples placed
// before the existing run. Prepends are rare (most insertion traffic
// arrives in time order), so this allocates fresh rather than maintaining
// a deque.
func prependSamples(seg *Segment, rec *record.Record) {
	switch rec.SampleType {
	case format.SampleInt32:
		merged := make([]int32, 0, len(rec.SamplesInt32)+len(seg.SamplesInt32))
		merged = append(merged, rec.SamplesInt32...)
		merged = append(merged, seg.SamplesInt32...)
		seg.SamplesInt32 = merged
	case format.SampleFloat32:
		merged := make([]float32, 0, len(rec.SamplesFloat32)+len(seg.SamplesFloat32))
		merged = append(merged, rec.SamplesFloat32...)
		merged = append(merged, seg.SamplesFloat32...)
		seg.SamplesFloat32 = merged
	case format.SampleFloat64:
		merged := make([]float64, 0, len(rec.SamplesFloat64)+len(seg.SamplesFloat64))
		merged = append(merged, rec.SamplesFloat64...)
		merged = append(merged, seg.SamplesFloat64...)
		seg.SamplesFloat64 = merged
	case format.SampleText:
		seg.SamplesText = append([]string{rec.SamplesText}, seg.SamplesText...)
	}
}
