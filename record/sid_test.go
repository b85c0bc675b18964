package record

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSIDAndParts(t *testing.T) {
	sid := NewSID("IU", "ANMO", "00", "B", "H", "Z")
	require.Equal(t, SID("FDSN:IU_ANMO_00_B_H_Z"), sid)

	net, sta, loc, band, source, subsource, ok := sid.Parts()
	require.True(t, ok)
	require.Equal(t, "IU", net)
	require.Equal(t, "ANMO", sta)
	require.Equal(t, "00", loc)
	require.Equal(t, "B", band)
	require.Equal(t, "H", source)
	require.Equal(t, "Z", subsource)
}

func TestSIDPartsRejectsMalformed(t *testing.T) {
	_, _, _, _, _, _, ok := SID("not-an-sid").Parts()
	require.False(t, ok)

	_, _, _, _, _, _, ok = SID("FDSN:IU_ANMO_00_BHZ").Parts()
	require.False(t, ok)
}

func TestExpandChannelCode(t *testing.T) {
	band, source, subsource := ExpandChannelCode("BHZ")
	require.Equal(t, "B", band)
	require.Equal(t, "H", source)
	require.Equal(t, "Z", subsource)

	band, source, subsource = ExpandChannelCode("LONG")
	require.Equal(t, "LONG", band)
	require.Empty(t, source)
	require.Empty(t, subsource)
}

func TestSIDFromV2RoundTripsThroughCollapse(t *testing.T) {
	sid := SIDFromV2("IU", "ANMO", "00", "BHZ")
	require.Equal(t, SID("FDSN:IU_ANMO_00_B_H_Z"), sid)

	_, _, _, band, source, subsource, ok := sid.Parts()
	require.True(t, ok)
	require.Equal(t, "BHZ", collapseChannelCode(band, source, subsource))
}

func TestSIDFromV2TrimsPaddingAndEmptyLocation(t *testing.T) {
	sid := SIDFromV2("IU", "ANMO ", "  ", "BHZ")
	require.Equal(t, SID("FDSN:IU_ANMO__B_H_Z"), sid)
}
