package tracelist

import (
	"fmt"
	"io"
)

// Format writes a one-line-per-segment listing of every trace in tl to w,
// in the order Traces returns them: sid, start, end, sample_rate,
// sample_count, publication_version.
func Format(w io.Writer, tl *TraceList) error {
	for _, t := range tl.traces {
		for _, seg := range t.Segments {
			_, err := fmt.Fprintf(w, "%s %s %s %g %d %d\n",
				t.SID, seg.Start, seg.End, seg.SampleRate, seg.SampleCount(), t.PublicationVersion)
			if err != nil {
				return err
			}
		}
	}

	return nil
}
