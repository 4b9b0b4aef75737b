package textutil

import (
	"regexp"
	"strings"
)

// smart typographic characters emitted by the source sites,
// mapped to their plain-ASCII equivalents
var punctReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
	" ", " ",
)

var excessBlankLines = regexp.MustCompile(`\n{3,}`)
var innerWhitespace = regexp.MustCompile(`[ \t]+`)

// Normalize canonicalizes scraped text: smart punctuation becomes ASCII,
// line endings become "\n", every line is trimmed, runs of three or more
// newlines collapse to a single blank line and the whole result is trimmed.
// The empty string passes through unchanged. Normalize is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = punctReplacer.Replace(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")

	s = excessBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// CollapseSpaces additionally squeezes runs of spaces and tabs inside each
// line down to a single space. Used for single-line fields like headings
// where internal spacing carries no meaning.
func CollapseSpaces(s string) string {
	return Normalize(innerWhitespace.ReplaceAllString(s, " "))
}
