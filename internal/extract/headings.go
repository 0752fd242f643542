package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/jbalsam/patchvault/internal/htmldoc"
	"github.com/jbalsam/patchvault/internal/record"
)

// HeadingFallback records the bare page outline when no richer layout
// matches: every <h1> after the first becomes an item-less section.
// The resulting skeleton record still lands in the archive, so the
// patch is at least listed.
type HeadingFallback struct{}

// Name identifies the strategy in logs and metrics.
func (HeadingFallback) Name() string { return "heading-fallback" }

// Parse requires at least two h1 elements; the first is assumed to be
// the page title. Item-less sections are this strategy's contract, so
// nothing is pruned.
func (HeadingFallback) Parse(doc *goquery.Document) (*record.Sections, bool) {
	h1s := doc.Find("h1")
	if h1s.Length() < 2 {
		return nil, false
	}

	secs := record.NewSections()
	h1s.Slice(1, h1s.Length()).Each(func(_ int, h1 *goquery.Selection) {
		if text := htmldoc.Text(h1); text != "" {
			secs.Append(text)
		}
	})
	if secs.Len() == 0 {
		return nil, false
	}
	return secs, true
}
