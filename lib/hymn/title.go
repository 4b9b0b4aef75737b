package hymn

import (
	"regexp"
	"strconv"
	"strings"

	"kidung-scraper/lib/textutil"
)

// Page headings come in two shapes, with a third fallback for headings that
// carry no structured identity at all:
//   - standard:  "NKB 024 - Tuhan Kasihanilah Kami"
//   - non-standard separator: "NKB 024, Tuhan Kasihanilah Kami"
//   - anything else: the whole heading becomes the title
var (
	codeAlternation  = strings.Join(Songbooks, "|")
	strictTitleRegex = regexp.MustCompile(`(?i)^(` + codeAlternation + `)\s+0*(\d+)\s*(?:[-–—]|,)\s+(.*)$`)
	fuzzyTitleRegex  = regexp.MustCompile(`(?i)\b(` + codeAlternation + `)\s+0*(\d+)\b`)
)

// SplitTitle splits a raw heading into songbook code, song number and title
// text. It tries the strict "<CODE> <digits> <separator> <rest>" pattern
// first, then searches for "<CODE> <digits>" anywhere and treats the
// remainder as the title. When neither matches, the normalized heading is
// returned whole as the title with no songbook identity (empty code, zero
// number).
func SplitTitle(raw string) (songbook string, number int, titleText string) {
	t := textutil.Normalize(raw)

	if m := strictTitleRegex.FindStringSubmatch(t); m != nil {
		number, _ = strconv.Atoi(m[2])
		return strings.ToUpper(m[1]), number, strings.TrimSpace(m[3])
	}

	if loc := fuzzyTitleRegex.FindStringSubmatchIndex(t); loc != nil {
		songbook = strings.ToUpper(t[loc[2]:loc[3]])
		number, _ = strconv.Atoi(t[loc[4]:loc[5]])
		rest := strings.TrimLeft(t[loc[1]:], " \t")
		rest = strings.TrimPrefix(rest, "-")
		rest = strings.TrimPrefix(rest, ",")
		return songbook, number, strings.TrimSpace(rest)
	}

	return "", 0, t
}
