// Package hymn holds the data model shared by the scrapers and the store:
// one Record per (songbook, number) pair, with its lyrics as an ordered list
// of blocks of verse/refrain parts.
package hymn

import "time"

// Songbooks is the set of known songbook codes.
var Songbooks = []string{"KJ", "PKJ", "NKB", "KPPK", "KPRI"}

func IsSongbook(code string) bool {
	for _, s := range Songbooks {
		if s == code {
			return true
		}
	}
	return false
}

type PartKind string

const (
	KindVerse   PartKind = "verse"
	KindRefrain PartKind = "refrain"
)

// LyricPart is a single verse or refrain. Number is kept as a string since
// the sources occasionally print non-numeric labels; it is empty for
// refrains and for unlabeled verses. Text is empty when the page supplied
// an empty part.
type LyricPart struct {
	Kind   PartKind `json:"kind"`
	Number string   `json:"no,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// LyricBlock is one verse-grouping unit as printed on the page. Number is
// the sequence label of the block, not necessarily contiguous across blocks.
type LyricBlock struct {
	Number string      `json:"no,omitempty"`
	Parts  []LyricPart `json:"parts"`
}

// HasParts reports whether any block carries at least one part.
func HasParts(blocks []LyricBlock) bool {
	for _, b := range blocks {
		if len(b.Parts) > 0 {
			return true
		}
	}
	return false
}

// Record is one scraped hymn. Optional text fields are empty when the
// source page did not yield them. Blocks is nil when no lyrics page was
// found, and non-nil but empty when the page exists with no content.
type Record struct {
	Songbook        string
	Number          int
	TitleText       string
	Info            string
	Tune            string
	Beat            string
	Blocks          []LyricBlock
	SourceURL       string
	LyricsSourceURL string
	FetchedAt       time.Time
	Warnings        []string
}
