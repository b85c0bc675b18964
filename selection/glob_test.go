package selection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGlobStarMatchesEmptyAndAny(t *testing.T) {
	require.True(t, Glob("FDSN:IU_*", "FDSN:IU_ANMO_00_B_H_Z"))
	require.False(t, Glob("FDSN:IU_*", "FDSN:II_ANMO_00_B_H_Z"))
	require.True(t, Glob("*", ""))
	require.True(t, Glob("*", "anything"))
	require.True(t, Glob("a*b", "ab"))
	require.True(t, Glob("a*b", "axxxb"))
	require.False(t, Glob("a*b", "axxx"))
}

func TestGlobQuestionMarkMatchesExactlyOneCharacter(t *testing.T) {
	require.True(t, Glob("FDSN:IU_A?MO_00_B_H_Z", "FDSN:IU_ANMO_00_B_H_Z"))
	require.False(t, Glob("a?c", "ac"), "? must not match zero characters")
	require.False(t, Glob("a?c", "abbc"), "? must not match more than one character")
}

func TestGlobNegatedClassExcludesOnlyListedMembers(t *testing.T) {
	require.False(t, Glob("FDSN:IU_[!A]*", "FDSN:IU_ANMO_00_B_H_Z"))
	require.True(t, Glob("FDSN:IU_[!A]*", "FDSN:IU_BNMO_00_B_H_Z"))
	require.True(t, Glob("x[^0-9]y", "xay"))
	require.False(t, Glob("x[^0-9]y", "x5y"))
}

func TestGlobRangeClass(t *testing.T) {
	require.True(t, Glob("[a-z]", "m"))
	require.False(t, Glob("[a-z]", "M"))
}

func TestGlobEscapedMetacharacterMatchesLiterally(t *testing.T) {
	require.True(t, Glob(`a\*b`, "a*b"))
	require.False(t, Glob(`a\*b`, "axb"))
}
