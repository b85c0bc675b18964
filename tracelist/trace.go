package tracelist

import (
	"sort"

	"github.com/seisio/mseed/record"
)

// Trace holds every segment decoded for one source identifier (and,
// when the owning TraceList splits by publication version, one specific
// version of it). Segments are kept sorted by start time; insertion order
// across traces is the owning TraceList's responsibility, not this type's.
type Trace struct {
	SID                record.SID
	PublicationVersion uint8 // 0 when the list is not split by version
	Segments           []*Segment
}

// insertSorted inserts seg into t.Segments at the position that keeps the
// slice sorted by start time.
func (t *Trace) insertSorted(seg *Segment) {
	idx := sort.Search(len(t.Segments), func(i int) bool {
		return t.Segments[i].Start > seg.Start
	})

	t.Segments = append(t.Segments, nil)
	copy(t.Segments[idx+1:], t.Segments[idx:])
	t.Segments[idx] = seg
}

// SampleCount returns the total number of samples across every segment in
// t.
func (t *Trace) SampleCount() int64 {
	var total int64
	for _, seg := range t.Segments {
		total += seg.SampleCount()
	}

	return total
}
