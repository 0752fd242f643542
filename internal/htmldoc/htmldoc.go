// Package htmldoc wraps goquery with the tree and text helpers the
// extraction strategies share. Patch pages span a decade of markup and
// the text nodes carry non-breaking spaces, stray control characters,
// and deep inline nesting, so all visible text goes through Collapse.
package htmldoc

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// Parse builds a queryable document from raw page bytes.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Text returns the collapsed text content of every node in the selection,
// descendants included.
func Text(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	return Collapse(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

// Collapse trims s, drops non-printable runes, and squeezes whitespace
// runs, non-breaking spaces included, down to single spaces.
func Collapse(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return ' '
		case r < ' ' && r != '\t' && r != '\n' && r != '\r':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}
