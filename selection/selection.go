package selection

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/seisio/mseed/mstime"
	"github.com/seisio/mseed/record"
)

// TimeWindow bounds a selection in time. Either end may be mstime.Unset,
// meaning that end is open.
type TimeWindow struct {
	Start mstime.Time
	End   mstime.Time
}

// intersects reports whether w overlaps [start, end], treating an Unset
// window endpoint as unbounded in that direction.
func (w TimeWindow) intersects(start, end mstime.Time) bool {
	if w.Start.IsSet() && end < w.Start {
		return false
	}
	if w.End.IsSet() && start > w.End {
		return false
	}

	return true
}

// Entry is one selection rule: records matching SIDPattern, and
// PublicationVersion when non-zero, and falling inside at least one of
// Windows when any are present, are selected.
type Entry struct {
	SIDPattern         string
	PublicationVersion uint8
	Windows            []TimeWindow
}

// Match reports whether rec satisfies e: its SID matches SIDPattern,
// its publication version matches (when e.PublicationVersion is
// non-zero), and its time span intersects at least one of e.Windows
// (when e.Windows is non-empty).
func (e Entry) Match(rec *record.Record) bool {
	if !Glob(e.SIDPattern, string(rec.SID)) {
		return false
	}

	if e.PublicationVersion != 0 && e.PublicationVersion != rec.PublicationVersion {
		return false
	}

	if len(e.Windows) == 0 {
		return true
	}

	start, end := rec.StartTime, rec.EndTime()
	for _, w := range e.Windows {
		if w.intersects(start, end) {
			return true
		}
	}

	return false
}

// List is an ordered set of selection entries. A record is selected if
// it matches any entry.
type List struct {
	Entries []Entry
}

// Match reports whether rec is selected by any entry in l. An empty
// list matches nothing.
func (l *List) Match(rec *record.Record) bool {
	for _, e := range l.Entries {
		if e.Match(rec) {
			return true
		}
	}

	return false
}

// dateLayouts are the ISO-ish layouts accepted for selection-file time
// fields, tried in order.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseWindowTime(field string) (mstime.Time, error) {
	if field == "" || field == "*" {
		return mstime.Unset, nil
	}

	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, field)
		if err == nil {
			return mstime.FromTime(t.UTC()), nil
		}
		lastErr = err
	}

	return mstime.ErrorTime, fmt.Errorf("selection: unrecognized date %q: %w", field, lastErr)
}

// ParseFile reads a selection list from r. Blank lines and lines whose
// first non-whitespace character is '#' are ignored. Two line shapes
// are recognized:
//
//   - SID-first: "<sidpattern> [pubversion] [start] [end]"
//   - Component-first: "<net> <sta> <loc> <chan> [pubversion] [start] [end]",
//     where loc of "--" means an empty location code and a 3-character
//     chan is expanded via record.ExpandChannelCode.
//
// The component-first shape is distinguished by having at least 4
// whitespace-separated fields, a 1st field with no ':' or '_', and a 4th
// field that is a plausible legacy channel code (at most 3 characters, no
// ':'); otherwise the line is treated as SID-first.
func ParseFile(r io.Reader) (*List, error) {
	list := &List{}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("selection: line %d: %w", lineNum, err)
		}

		list.Entries = append(list.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("selection: %w", err)
	}

	return list, nil
}

func parseLine(line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Entry{}, fmt.Errorf("empty line")
	}

	if looksComponentFirst(fields) {
		return parseComponentFirst(fields)
	}

	return parseSIDFirst(fields)
}

func looksComponentFirst(fields []string) bool {
	if len(fields) < 4 {
		return false
	}
	if strings.Contains(fields[0], ":") || strings.Contains(fields[0], "_") {
		return false
	}

	chan_ := fields[3]
	return len(chan_) <= 3 && !strings.Contains(chan_, ":")
}

func parseComponentFirst(fields []string) (Entry, error) {
	net, sta, loc, chanCode := fields[0], fields[1], fields[2], fields[3]
	if loc == "--" {
		loc = ""
	}

	var band, source, subsource string
	if len(chanCode) == 3 {
		band, source, subsource = record.ExpandChannelCode(chanCode)
	} else {
		parts := strings.Split(chanCode, "_")
		switch len(parts) {
		case 3:
			band, source, subsource = parts[0], parts[1], parts[2]
		default:
			band = chanCode
		}
	}

	e := Entry{SIDPattern: string(record.NewSID(net, sta, loc, band, source, subsource))}

	return finishEntry(e, fields[4:])
}

func parseSIDFirst(fields []string) (Entry, error) {
	e := Entry{SIDPattern: fields[0]}
	return finishEntry(e, fields[1:])
}

// finishEntry consumes the optional trailing publication-version and
// start/end fields shared by both line shapes.
func finishEntry(e Entry, rest []string) (Entry, error) {
	if len(rest) == 0 {
		return e, nil
	}

	if pv, err := strconv.ParseUint(rest[0], 10, 8); err == nil {
		e.PublicationVersion = uint8(pv)
		rest = rest[1:]
	}

	if len(rest) == 0 {
		return e, nil
	}

	var start, end mstime.Time = mstime.Unset, mstime.Unset
	var err error
	if len(rest) >= 1 {
		start, err = parseWindowTime(rest[0])
		if err != nil {
			return Entry{}, err
		}
	}
	if len(rest) >= 2 {
		end, err = parseWindowTime(rest[1])
		if err != nil {
			return Entry{}, err
		}
	}

	e.Windows = append(e.Windows, TimeWindow{Start: start, End: end})

	return e, nil
}
