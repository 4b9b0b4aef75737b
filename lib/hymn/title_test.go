package hymn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitTitleStrict(t *testing.T) {
	songbook, number, title := SplitTitle("KJ 024 – Tuhan Kasihanilah Kami")
	require.Equal(t, "KJ", songbook)
	require.Equal(t, 24, number)
	require.Equal(t, "Tuhan Kasihanilah Kami", title)

	// comma separator
	songbook, number, title = SplitTitle("NKB 024, Tuhan Kasihanilah Kami")
	require.Equal(t, "NKB", songbook)
	require.Equal(t, 24, number)
	require.Equal(t, "Tuhan Kasihanilah Kami", title)

	// case-insensitive code, uppercased on output
	songbook, number, title = SplitTitle("pkj 7 - Bersyukurlah")
	require.Equal(t, "PKJ", songbook)
	require.Equal(t, 7, number)
	require.Equal(t, "Bersyukurlah", title)
}

func TestSplitTitleFuzzy(t *testing.T) {
	// no space around the separator fails the strict pattern
	songbook, number, title := SplitTitle("Nyanyian KPPK 425- Besarlah Setia-Mu")
	require.Equal(t, "KPPK", songbook)
	require.Equal(t, 425, number)
	require.Equal(t, "Besarlah Setia-Mu", title)

	// code and number with nothing after it
	songbook, number, title = SplitTitle("KPRI 171")
	require.Equal(t, "KPRI", songbook)
	require.Equal(t, 171, number)
	require.Equal(t, "", title)
}

func TestSplitTitleUnstructured(t *testing.T) {
	songbook, number, title := SplitTitle("Random Untitled Song")
	require.Equal(t, "", songbook)
	require.Equal(t, 0, number)
	require.Equal(t, "Random Untitled Song", title)

	songbook, number, title = SplitTitle("   ")
	require.Equal(t, "", songbook)
	require.Equal(t, 0, number)
	require.Equal(t, "", title)
}

func TestHasParts(t *testing.T) {
	require.False(t, HasParts(nil))
	require.False(t, HasParts([]LyricBlock{{Number: "1"}}))
	require.True(t, HasParts([]LyricBlock{
		{Number: "1"},
		{Parts: []LyricPart{{Kind: KindRefrain}}},
	}))
}
