package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jbalsam/patchvault/internal/htmldoc"
	"github.com/jbalsam/patchvault/internal/record"
)

// WaybackTOC reads archived snapshots that open with an explicit
// "Table of Contents" heading. Bold siblings after it mark sections and
// each following list contributes its anchor texts as items. The walk
// stops at the next <h1> or at an <hr>, after which snapshots resume
// unrelated body markup.
type WaybackTOC struct{}

// Name identifies the strategy in logs and metrics.
func (WaybackTOC) Name() string { return "wayback-toc" }

// Parse locates the contents heading and walks its siblings. List rows
// without an anchor are skipped individually.
func (WaybackTOC) Parse(doc *goquery.Document) (*record.Sections, bool) {
	var toc *goquery.Selection
	doc.Find("h1").EachWithBreak(func(_ int, h1 *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(htmldoc.Text(h1)), "table of contents") {
			toc = h1
			return false
		}
		return true
	})
	if toc == nil {
		return nil, false
	}

	secs := record.NewSections()
	current := ""
	toc.NextUntil("h1, hr").Each(func(_ int, sib *goquery.Selection) {
		switch goquery.NodeName(sib) {
		case "b", "strong":
			if text := htmldoc.Text(sib); text != "" {
				current = text
				secs.Append(current)
			}
		case "ul":
			appendAnchorItems(secs, current, sib)
		default:
			if ul := sib.Find("ul").First(); ul.Length() > 0 {
				appendAnchorItems(secs, current, ul)
			}
		}
	})

	secs.Prune()
	if secs.Len() == 0 {
		return nil, false
	}
	return secs, true
}

func appendAnchorItems(secs *record.Sections, section string, ul *goquery.Selection) {
	if section == "" {
		return
	}
	ul.Find("li").Each(func(_ int, li *goquery.Selection) {
		item := htmldoc.Text(li.Find("a").First())
		if item == "" {
			return
		}
		secs.Append(section, item)
	})
}
