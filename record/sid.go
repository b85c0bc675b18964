// Package record implements miniSEED record detection, parsing, and
// packing for both the v2.4 fixed-section-plus-blockettes layout and the
// v3.0 40-byte-fixed-section layout, unified behind one typed Record.
package record

import (
	"fmt"
	"strings"
)

// sidPrefix is the canonical FDSN source identifier scheme prefix.
const sidPrefix = "FDSN:"

// SID is a canonical source identifier of the form
// FDSN:NET_STA_LOC_BAND_SOURCE_SUBSOURCE.
type SID string

// NewSID builds a canonical SID from its component parts. loc may be
// empty.
func NewSID(net, sta, loc, band, source, subsource string) SID {
	return SID(fmt.Sprintf("%s%s_%s_%s_%s_%s_%s", sidPrefix, net, sta, loc, band, source, subsource))
}

// Parts splits a canonical SID into its six components. Returns false if
// sid does not carry the FDSN: prefix or does not have exactly six
// underscore-separated fields.
func (sid SID) Parts() (net, sta, loc, band, source, subsource string, ok bool) {
	s := string(sid)
	if !strings.HasPrefix(s, sidPrefix) {
		return "", "", "", "", "", "", false
	}

	fields := strings.Split(s[len(sidPrefix):], "_")
	if len(fields) != 6 {
		return "", "", "", "", "", "", false
	}

	return fields[0], fields[1], fields[2], fields[3], fields[4], fields[5], true
}

// String returns the canonical SID string.
func (sid SID) String() string { return string(sid) }

// ExpandChannelCode deterministically expands a legacy v2 3-character
// channel code "XYZ" into the v3 band/source/subsource triple "X_Y_Z". If
// code is not exactly 3 characters, it is returned unexpanded as a single
// field (the caller's responsibility to pad).
func ExpandChannelCode(code string) (band, source, subsource string) {
	if len(code) != 3 {
		return code, "", ""
	}

	return string(code[0]), string(code[1]), string(code[2])
}

// SIDFromV2 builds a canonical SID from v2 fixed-header fields, applying
// the legacy channel code expansion.
func SIDFromV2(net, sta, loc, channel string) SID {
	band, source, subsource := ExpandChannelCode(channel)
	return NewSID(strings.TrimSpace(net), strings.TrimSpace(sta), strings.TrimSpace(loc), band, source, subsource)
}
