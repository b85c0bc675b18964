package tracelist

import (
	"strings"
	"testing"
	"time"

	"github.com/seisio/mseed/format"
	"github.com/seisio/mseed/mstime"
	"github.com/seisio/mseed/record"
	"github.com/stretchr/testify/require"
)

func anmoTemplate(t *testing.T, startOffset time.Duration, count int) *record.Record {
	t.Helper()

	cal := mstime.Calendar{Year: 2024, Day: 1, Hour: 0, Min: 0, Sec: 0}
	base, err := cal.ToEpochNanos()
	require.NoError(t, err)

	samples := make([]int32, count)
	for i := range samples {
		samples[i] = int32(i)
	}

	return &record.Record{
		SID:                record.NewSID("IU", "ANMO", "00", "B", "H", "Z"),
		StartTime:          base.Add(startOffset),
		SampleRate:         40,
		Encoding:           format.Int32,
		PublicationVersion: 1,
		SampleType:         format.SampleInt32,
		SampleCount:        int64(count),
		SamplesInt32:       samples,
	}
}

func TestInsertMergesContiguousRecords(t *testing.T) {
	tl := New()

	first := anmoTemplate(t, 0, 1000)
	second := anmoTemplate(t, 25*time.Second, 1000)

	require.NoError(t, tl.Insert(first))
	require.NoError(t, tl.Insert(second))

	traces := tl.Traces()
	require.Len(t, traces, 1)
	require.Len(t, traces[0].Segments, 1)

	seg := traces[0].Segments[0]
	require.Equal(t, int64(2000), seg.SampleCount())
	require.Equal(t, first.StartTime, seg.Start)
	require.Equal(t, second.EndTime(), seg.End)
}

func TestInsertOpensNewSegmentBeyondTolerance(t *testing.T) {
	tl := New()

	first := anmoTemplate(t, 0, 1000)
	second := anmoTemplate(t, 26*time.Second, 1000)

	require.NoError(t, tl.Insert(first))
	require.NoError(t, tl.Insert(second))

	traces := tl.Traces()
	require.Len(t, traces, 1)
	require.Len(t, traces[0].Segments, 2)

	require.Equal(t, first.StartTime, traces[0].Segments[0].Start)
	require.Equal(t, second.StartTime, traces[0].Segments[1].Start)
}

func TestInsertIsIdempotentUnderKeepExistingPolicy(t *testing.T) {
	tl := New(WithOverlapPolicy(OverlapKeepExisting))

	rec := anmoTemplate(t, 0, 1000)
	require.NoError(t, tl.Insert(rec))
	require.NoError(t, tl.Insert(rec.Clone()))

	traces := tl.Traces()
	require.Len(t, traces, 1)
	require.Len(t, traces[0].Segments, 1)
	require.Equal(t, int64(1000), traces[0].Segments[0].SampleCount())
}

func TestInsertSplitByVersionSeparatesTraces(t *testing.T) {
	tl := New(WithSplitByVersion(true))

	v1 := anmoTemplate(t, 0, 10)
	v1.PublicationVersion = 1

	v2 := anmoTemplate(t, 0, 10)
	v2.PublicationVersion = 2

	require.NoError(t, tl.Insert(v1))
	require.NoError(t, tl.Insert(v2))

	require.Len(t, tl.Traces(), 2)
}

func TestTraceSegmentsStayOrderedByStart(t *testing.T) {
	tl := New()

	for _, offset := range []time.Duration{60 * time.Second, 0, 120 * time.Second} {
		require.NoError(t, tl.Insert(anmoTemplate(t, offset, 10)))
	}

	segs := tl.Traces()[0].Segments
	for i := 1; i < len(segs); i++ {
		require.True(t, segs[i-1].End < segs[i].Start)
	}
}

func TestFormatWritesOneLinePerSegment(t *testing.T) {
	tl := New()
	require.NoError(t, tl.Insert(anmoTemplate(t, 0, 10)))
	require.NoError(t, tl.Insert(anmoTemplate(t, time.Hour, 10)))

	var buf strings.Builder
	require.NoError(t, Format(&buf, tl))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "FDSN:IU_ANMO_00_B_H_Z")
}
