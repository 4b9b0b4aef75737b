// Package alkitabapp scrapes song lyrics from alkitab.app. Songs live at
// /<CODE>/<number>; a handful of entries are only reachable with an "A"
// appended to the number, which ResolveLyrics falls back to when the
// canonical address reports no content.
package alkitabapp

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"kidung-scraper/lib/htmlutil"
	"kidung-scraper/lib/hymn"
	"kidung-scraper/lib/textutil"
)

const BaseURL = "https://alkitab.app"

// literal marker the site renders for out-of-range song numbers
const noSuchSongMarker = "no such song"

var (
	trailingDigits = regexp.MustCompile(`(\d+)\s*$`)
	firstDigits    = regexp.MustCompile(`\d+`)
)

func SongURL(songbook string, number int) string {
	return fmt.Sprintf("%s/%s/%d", BaseURL, strings.ToUpper(songbook), number)
}

func pageSaysNoSuchSong(body string) bool {
	return strings.Contains(strings.ToLower(body), noSuchSongMarker)
}

// SongPage is everything an alkitab.app song page carries. KPPK and KPRI
// songs exist nowhere else, so for those the page's own judul/pengarang/
// nadaDasar fields are the only metadata source. Absent fields are empty.
type SongPage struct {
	RawTitle      string
	Songbook      string
	Number        int
	TitleText     string
	OriginalTitle string
	LyricAuthor   string
	MusicAuthor   string
	Key           string
	Blocks        []hymn.LyricBlock
}

// ParseSongPage extracts the metadata fields and ordered lyric blocks of
// a song page. ok is false when the page has no song container at all;
// a true ok with empty Blocks means the page exists but currently
// carries no blocks.
func ParseSongPage(page string) (sp SongPage, ok bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return SongPage{}, false
	}

	song := doc.Find("div.lagu").First()
	if song.Length() == 0 {
		return SongPage{}, false
	}

	sp.RawTitle = fieldText(song, "div.judul")
	sp.Songbook, sp.Number, sp.TitleText = hymn.SplitTitle(sp.RawTitle)
	sp.OriginalTitle = fieldText(song, "div.judul_asli")
	sp.LyricAuthor = fieldText(song, "div.pengarang_lirik")
	sp.MusicAuthor = fieldText(song, "div.pengarang_musik")
	sp.Key = fieldText(song, "div.nadaDasar")

	sp.Blocks = []hymn.LyricBlock{}
	song.Find("div.lirik").Each(func(_ int, sel *goquery.Selection) {
		sp.Blocks = append(sp.Blocks, parseBlock(sel))
	})
	return sp, true
}

// ParseSong extracts just the ordered lyric blocks, for callers that get
// their metadata elsewhere.
func ParseSong(page string) ([]hymn.LyricBlock, bool) {
	sp, ok := ParseSongPage(page)
	if !ok {
		return nil, false
	}
	return sp.Blocks, true
}

func fieldText(sel *goquery.Selection, selector string) string {
	return textutil.Normalize(htmlutil.FlatText(sel.Find(selector).First()))
}

func parseBlock(sel *goquery.Selection) hymn.LyricBlock {
	var block hymn.LyricBlock

	label := textutil.Normalize(htmlutil.FlatText(sel.Find("div.lirik_no").First()))
	if label != "" {
		// "Bait 2" -> "2"; anything without a trailing digit run is kept verbatim
		if m := trailingDigits.FindStringSubmatch(label); m != nil {
			block.Number = m[1]
		} else {
			block.Number = label
		}
	}

	sel.Find("div.bait").Each(func(_ int, unit *goquery.Selection) {
		var lines []string
		unit.Find(".baris").Each(func(_ int, line *goquery.Selection) {
			text := textutil.Normalize(htmlutil.FlatText(line))
			if text != "" {
				lines = append(lines, text)
			}
		})
		text := strings.Join(lines, "\n")

		if unit.HasClass("reff") {
			block.Parts = append(block.Parts, hymn.LyricPart{
				Kind: hymn.KindRefrain,
				Text: text,
			})
			return
		}

		var number string
		if raw := textutil.Normalize(htmlutil.FlatText(unit.Find(".bait-no").First())); raw != "" {
			number = firstDigits.FindString(raw)
			if number == "" {
				number = raw
			}
		}
		block.Parts = append(block.Parts, hymn.LyricPart{
			Kind:   hymn.KindVerse,
			Number: number,
			Text:   text,
		})
	})

	return block
}
