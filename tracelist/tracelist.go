package tracelist

import (
	"fmt"
	"time"

	"github.com/seisio/mseed/internal/hash"
	"github.com/seisio/mseed/record"
)

// OverlapPolicy controls what Insert does when an incoming record's time
// span overlaps an existing segment instead of extending it cleanly.
type OverlapPolicy int

const (
	// OverlapKeepExisting discards the incoming record, keeping whatever
	// samples are already in the segment; none of the incoming record's
	// samples are added, including any outside the overlap.
	OverlapKeepExisting OverlapPolicy = iota
	// OverlapReplaceExisting starts a new segment from the incoming
	// record, as if it did not overlap at all. Used by callers that
	// trust later-arriving data over earlier data for the same span.
	OverlapReplaceExisting
)

// Option configures a TraceList at construction time.
type Option func(*TraceList)

// WithSplitByVersion makes the list key traces by (SID, publication
// version) instead of by SID alone, so records carrying different
// publication versions of the same channel never merge together.
func WithSplitByVersion(split bool) Option {
	return func(tl *TraceList) { tl.splitByVersion = split }
}

// WithTolerance sets the maximum gap or overlap magnitude, in absolute
// time, that Insert still treats as continuous. The effective tolerance
// for any given pair of records is the smaller of this value and half a
// sample period, so a generous WithTolerance never merges records from
// a slow channel into a fast one's neighbor.
func WithTolerance(d time.Duration) Option {
	return func(tl *TraceList) { tl.tolerance = d }
}

// WithOverlapPolicy sets how Insert resolves an overlapping (rather than
// gapped) record against an existing segment. Defaults to
// OverlapKeepExisting.
func WithOverlapPolicy(p OverlapPolicy) Option {
	return func(tl *TraceList) { tl.overlapPolicy = p }
}

const defaultTolerance = 0

// TraceList accumulates parsed records into Traces, merging samples into
// existing Segments when they arrive contiguously and opening new
// Segments when they don't. Traces are kept in first-seen order; an
// xxHash64-keyed index accelerates lookup by SID (and publication
// version, when splitByVersion is set).
type TraceList struct {
	splitByVersion bool
	tolerance      time.Duration
	overlapPolicy  OverlapPolicy

	traces []*Trace
	index  map[uint64][]*Trace
}

// New builds an empty TraceList.
func New(opts ...Option) *TraceList {
	tl := &TraceList{
		tolerance: defaultTolerance,
		index:     make(map[uint64][]*Trace),
	}
	for _, opt := range opts {
		opt(tl)
	}

	return tl
}

// Traces returns every trace currently held, in first-seen order. The
// returned slice is owned by the caller; mutating it does not affect
// tl.
func (tl *TraceList) Traces() []*Trace {
	return append([]*Trace(nil), tl.traces...)
}

func (tl *TraceList) key(sid record.SID, version uint8) uint64 {
	if !tl.splitByVersion {
		return hash.ID(string(sid))
	}

	return hash.ID(fmt.Sprintf("%s\x00%d", sid, version))
}

func (tl *TraceList) findTrace(sid record.SID, version uint8) *Trace {
	k := tl.key(sid, version)
	for _, t := range tl.index[k] {
		if t.SID != sid {
			continue
		}
		if tl.splitByVersion && t.PublicationVersion != version {
			continue
		}

		return t
	}

	return nil
}

func (tl *TraceList) newTrace(sid record.SID, version uint8) *Trace {
	var pv uint8
	if tl.splitByVersion {
		pv = version
	}

	t := &Trace{SID: sid, PublicationVersion: pv}
	tl.traces = append(tl.traces, t)

	k := tl.key(sid, version)
	tl.index[k] = append(tl.index[k], t)

	return t
}

// Insert merges rec into the appropriate trace, extending an existing
// segment when rec's start falls within tolerance of a segment boundary,
// resolving overlaps per the configured OverlapPolicy, and opening a new
// segment otherwise.
func (tl *TraceList) Insert(rec *record.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	t := tl.findTrace(rec.SID, rec.PublicationVersion)
	if t == nil {
		t = tl.newTrace(rec.SID, rec.PublicationVersion)
	}

	if len(t.Segments) == 0 {
		t.Segments = append(t.Segments, newSegment(rec))
		return nil
	}

	seg, orientation, gap := closestSegment(t.Segments, rec)
	tol := effectiveTolerance(tl.tolerance, rec.SamplePeriod())

	switch {
	case gap > tol:
		// Too far ahead or behind to be continuous: open a new segment.
		t.insertSorted(newSegment(rec))
	case gap < -tol:
		tl.resolveOverlap(t, seg, rec)
	default:
		if orientation == orientationAfter {
			appendSamples(seg, rec)
			seg.End = rec.EndTime()
		} else {
			prependSamples(seg, rec)
			seg.Start = rec.StartTime
		}
	}

	return nil
}

type orientation int

const (
	orientationAfter orientation = iota
	orientationBefore
)

// closestSegment finds the segment in segs whose boundary is nearest to
// rec's span, considering both "rec extends this segment forward" and
// "rec extends this segment backward" for every candidate, and returns
// whichever orientation is closer along with the signed gap in that
// orientation. A positive gap means rec's span is strictly separated from
// the segment by that many nanoseconds beyond one nominal sample period;
// a negative gap means rec overlaps the segment.
func closestSegment(segs []*Segment, rec *record.Record) (*Segment, orientation, time.Duration) {
	period := rec.SamplePeriod()

	var best *Segment
	var bestOrientation orientation
	var bestGap time.Duration = time.Duration(1<<63 - 1)

	for _, seg := range segs {
		forwardGap := rec.StartTime.Sub(seg.End) - period
		backwardGap := seg.Start.Sub(rec.EndTime()) - period

		gap, o := forwardGap, orientationAfter
		if abs(backwardGap) < abs(forwardGap) {
			gap, o = backwardGap, orientationBefore
		}

		if abs(gap) < abs(bestGap) {
			best, bestOrientation, bestGap = seg, o, gap
		}
	}

	return best, bestOrientation, bestGap
}

func abs(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}

	return d
}

// effectiveTolerance returns the smaller of configured and half a sample
// period, so a generous configured tolerance never merges records across
// more than half a sample's worth of drift.
func effectiveTolerance(configured, period time.Duration) time.Duration {
	half := period / 2
	if configured < half {
		return configured
	}

	return half
}

// resolveOverlap applies the list's OverlapPolicy when rec's span
// overlaps seg instead of abutting it. OverlapKeepExisting is a no-op:
// the existing segment's samples are left untouched.
func (tl *TraceList) resolveOverlap(t *Trace, seg *Segment, rec *record.Record) {
	if tl.overlapPolicy == OverlapReplaceExisting {
		t.insertSorted(newSegment(rec))
	}
}
