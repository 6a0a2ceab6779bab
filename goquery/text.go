package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// flattenText joins every text node under the selection with single spaces.
// Whitespace runs inside text nodes are collapsed and script or style
// content is skipped, so labels and values rendered in separate elements
// come out as "ICAO: KBOS".
func flattenText(sel *goquery.Selection) string {
	var words []string
	for _, n := range sel.Nodes {
		collectWords(n, &words)
	}
	return strings.Join(words, " ")
}

func collectWords(n *html.Node, words *[]string) {
	switch n.Type {
	case html.TextNode:
		*words = append(*words, strings.Fields(n.Data)...)
		return
	case html.ElementNode:
		if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectWords(c, words)
	}
}
