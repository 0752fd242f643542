package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jbalsam/patchvault/internal/htmldoc"
	"github.com/jbalsam/patchvault/internal/record"
)

// legacySkip holds the h3 headings that are page furniture rather than
// change items on the older article template.
var legacySkip = map[string]struct{}{
	"overview":     {},
	"gameplay":     {},
	"rewards":      {},
	"requirement":  {},
	"beginner":     {},
	"1st job":      {},
	"2nd job":      {},
	"3rd job":      {},
	"4th job":      {},
	"hyper skills": {},
}

// LegacyHeading reads the older article layout where each <h1> with an
// emphasized child opens a category and the <h3><strong> rows beneath
// it, up to the next <h1>, name the individual changes.
type LegacyHeading struct{}

// Name identifies the strategy in logs and metrics.
func (LegacyHeading) Name() string { return "legacy-heading" }

// Parse visits every qualifying h1. Headings without an emphasized
// child and stoplisted rows are skipped one by one; a bad element never
// aborts the page.
func (LegacyHeading) Parse(doc *goquery.Document) (*record.Sections, bool) {
	secs := record.NewSections()
	doc.Find("h1").Each(func(_ int, h1 *goquery.Selection) {
		head := h1.Find("strong").First()
		if head.Length() == 0 {
			return
		}
		name := htmldoc.Text(head)
		if name == "" || strings.HasPrefix(strings.ToLower(name), "check out") {
			return
		}
		secs.Append(name)
		h1.NextUntil("h1").Filter("h3").Each(func(_ int, h3 *goquery.Selection) {
			item := htmldoc.Text(h3.Find("strong").First())
			if item == "" {
				return
			}
			if _, skip := legacySkip[strings.ToLower(item)]; skip {
				return
			}
			secs.Append(name, item)
		})
	})

	secs.Prune()
	if secs.Len() == 0 {
		return nil, false
	}
	return secs, true
}
