// Package gkiharapan extracts hymn metadata from the songbook pages of
// gkiharapanindah.org, a WordPress site whose markup drifts slightly
// between posts. Selectors are tried most-specific first.
package gkiharapan

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"kidung-scraper/lib/htmlutil"
	"kidung-scraper/lib/hymn"
	"kidung-scraper/lib/textutil"
)

// ErrNoArticle means the page has none of the expected article containers;
// the song cannot be scraped from it.
var ErrNoArticle = errors.New("article element not found with expected selectors")

var (
	articleSelectors = []string{"article.entry", "article.post", "article"}
	headingSelectors = []string{"h1.entry-title", "h1"}
)

// Metadata is everything the source page knows about a song. Songbook is
// empty and Number zero when the heading carried no structured identity.
type Metadata struct {
	Songbook  string
	Number    int
	TitleText string
	Info      string
	Tune      string
	Beat      string
	RawTitle  string
}

func ExtractMetadata(page string) (Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return Metadata{}, err
	}

	article := htmlutil.SelectFirst(doc.Selection, articleSelectors...)
	if article == nil {
		return Metadata{}, ErrNoArticle
	}

	var meta Metadata
	if heading := htmlutil.SelectFirst(article, headingSelectors...); heading != nil {
		meta.RawTitle = textutil.CollapseSpaces(htmlutil.FlatText(heading))
	}
	meta.Songbook, meta.Number, meta.TitleText = hymn.SplitTitle(meta.RawTitle)

	content := article.Find("div.entry-content").First()
	if content.Length() == 0 {
		content = article
	}

	var paragraphs []string
	content.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := textutil.Normalize(htmlutil.LineText(p))
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		meta.Info = paragraphs[0]
	}

	// the tonal ("do = ...") and beat ("... ketuk") markings can sit in
	// any paragraph, each on its own line
	for _, line := range strings.Split(strings.Join(paragraphs, "\n"), "\n") {
		l := strings.ToLower(line)
		if meta.Tune == "" && strings.HasPrefix(l, "do =") {
			meta.Tune = line
		}
		if meta.Beat == "" && strings.Contains(l, "ketuk") {
			meta.Beat = line
		}
		if meta.Tune != "" && meta.Beat != "" {
			break
		}
	}

	return meta, nil
}
