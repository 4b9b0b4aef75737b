package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, "", Normalize(""))

	require.Equal(
		t,
		"\"Haleluya\" - 'Amin'",
		Normalize("“Haleluya” – ‘Amin’"),
	)

	// nbsp becomes a regular space, crlf becomes lf,
	// lines are trimmed independently
	require.Equal(
		t,
		"satu\ndua",
		Normalize("  satu \r\n   dua  \r\n"),
	)

	// three or more newlines collapse to exactly one blank line
	require.Equal(
		t,
		"a\n\nb",
		Normalize("a\n\n\n\n\nb"),
	)
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"“Haleluya” – ‘Amin’",
		"  satu \r\n\r\n\r\n  dua ",
		"a\n\n\nb\n\n\n\nc",
		"  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		require.Equal(t, once, Normalize(once), "input: %q", in)
	}
}

func TestCollapseSpaces(t *testing.T) {
	require.Equal(t, "KJ 24 - Judul", CollapseSpaces("KJ   24\t -  Judul"))
}
