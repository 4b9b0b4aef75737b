package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// SelectFirst returns the first non-empty match from a priority-ordered
// list of selectors, or nil when none of them match.
func SelectFirst(root *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, s := range selectors {
		sel := root.Find(s)
		if sel.Length() > 0 {
			return sel.First()
		}
	}
	return nil
}

// joinedText collects every text node under sel in document order, trims
// each, drops empties and joins the rest with sep.
func joinedText(sel *goquery.Selection, sep string) string {
	var chunks []string
	for _, n := range sel.Nodes {
		collectText(n, &chunks)
	}
	return strings.Join(chunks, sep)
}

func collectText(node *html.Node, chunks *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		if t := strings.TrimSpace(node.Data); t != "" {
			*chunks = append(*chunks, t)
		}
		return
	}
	child := node.FirstChild
	for child != nil {
		collectText(child, chunks)
		child = child.NextSibling
	}
}

// LineText renders sel with one line per text node, so that markup line
// breaks (<br>, nested spans) survive as newlines.
func LineText(sel *goquery.Selection) string {
	return joinedText(sel, "\n")
}

// FlatText renders sel as a single line with text nodes joined by spaces.
func FlatText(sel *goquery.Selection) string {
	return joinedText(sel, " ")
}
