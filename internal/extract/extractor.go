package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jbalsam/patchvault/internal/htmldoc"
	"github.com/jbalsam/patchvault/internal/record"
)

// Default selectors for the metadata markers on the publisher's news
// template. Both the id and class spellings occur in the wild.
const (
	DefaultTitleSelector = "#m-news-detail-header h4, .m-news-detail-header h4"
	DefaultDateSelector  = "#m-news-detail-header .info, .m-news-detail-header .info"
)

// Clock abstracts time so synthetic version IDs are testable.
type Clock interface {
	Now() time.Time
}

// Metadata carries the page-level fields resolved before section parsing.
type Metadata struct {
	Version record.VersionID
	Date    string
	Title   string
}

// ExtractorConfig names the CSS selectors used for the date and title
// markers. Zero values fall back to the defaults above.
type ExtractorConfig struct {
	TitleSelector string
	DateSelector  string
}

// Extractor resolves a page's version, date, and title with ordered
// fallbacks. It never fails: a page without a version gets a synthetic
// ID and missing date or title stay empty.
type Extractor struct {
	clock    Clock
	titleSel string
	dateSel  string
}

// NewExtractor builds an Extractor using the given selectors and clock.
func NewExtractor(cfg ExtractorConfig, clock Clock) *Extractor {
	if cfg.TitleSelector == "" {
		cfg.TitleSelector = DefaultTitleSelector
	}
	if cfg.DateSelector == "" {
		cfg.DateSelector = DefaultDateSelector
	}
	return &Extractor{
		clock:    clock,
		titleSel: cfg.TitleSelector,
		dateSel:  cfg.DateSelector,
	}
}

// Extract resolves the page metadata. The version is searched in the
// URL, then the document title, then the first h1; when all miss, the
// clock stamps a synthetic ID so the page can still be archived.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) Metadata {
	return Metadata{
		Version: e.resolveVersion(doc, pageURL),
		Date:    htmldoc.Text(doc.Find(e.dateSel).First()),
		Title:   e.resolveTitle(doc),
	}
}

func (e *Extractor) resolveVersion(doc *goquery.Document, pageURL string) record.VersionID {
	if v, ok := record.FindVersion(pageURL); ok {
		return v
	}
	if v, ok := record.FindVersion(htmldoc.Text(doc.Find("title").First())); ok {
		return v
	}
	if v, ok := record.FindVersion(htmldoc.Text(doc.Find("h1").First())); ok {
		return v
	}
	return record.Synthetic(e.clock.Now())
}

func (e *Extractor) resolveTitle(doc *goquery.Document) string {
	raw := htmldoc.Text(doc.Find(e.titleSel).First())
	if raw == "" {
		raw = htmldoc.Text(doc.Find("h1").First())
	}
	return CleanTitle(raw)
}

var (
	bracketPrefix = regexp.MustCompile(`^\s*\[[^\]]*\]\s*`)
	versionPrefix = regexp.MustCompile(`(?i)^v[\s.-]?\d+\s*[-–—]?\s*`)
	titleSuffix   = regexp.MustCompile(`(?i)\s*(patch notes|update notes|update highlights)\s*$`)
)

// CleanTitle strips the editorial noise around a page title: a leading
// bracket annotation, a leading version prefix, the trailing boilerplate
// suffix, and leftover dashes.
func CleanTitle(raw string) string {
	s := htmldoc.Collapse(raw)
	s = bracketPrefix.ReplaceAllString(s, "")
	s = versionPrefix.ReplaceAllString(s, "")
	s = titleSuffix.ReplaceAllString(s, "")
	return strings.Trim(s, " -–—")
}
