package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jbalsam/patchvault/internal/htmldoc"
	"github.com/jbalsam/patchvault/internal/record"
)

// ModernNav reads the in-page navigation list that current patch pages
// render: the first <ul> holding same-page anchors, where <strong> text
// marks a section and each following anchor is one change item.
type ModernNav struct{}

// Name identifies the strategy in logs and metrics.
func (ModernNav) Name() string { return "modern-nav" }

// Parse walks the qualifying list in document order. Anchors seen
// before the first section marker have no home and are dropped, as are
// sections that end up with no items.
func (ModernNav) Parse(doc *goquery.Document) (*record.Sections, bool) {
	var nav *goquery.Selection
	doc.Find("ul").EachWithBreak(func(_ int, ul *goquery.Selection) bool {
		if ul.Find(`a[href^="#"]`).Length() > 0 {
			nav = ul
			return false
		}
		return true
	})
	if nav == nil {
		return nil, false
	}

	secs := record.NewSections()
	current := ""
	nav.Find("strong, a").Each(func(_ int, el *goquery.Selection) {
		text := htmldoc.Text(el)
		if text == "" {
			return
		}
		if goquery.NodeName(el) == "strong" {
			current = text
			secs.Append(current)
			return
		}
		if current == "" {
			return
		}
		secs.Append(current, text)
	})

	secs.Prune()
	if secs.Len() == 0 {
		return nil, false
	}
	return secs, true
}
