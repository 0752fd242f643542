package fetch

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HeuristicDetector implements the Detector interface using simple HTML
// signals.
type HeuristicDetector struct {
	minHTMLBytes int
	signals      []string
	keywords     [][]byte
}

// NewHeuristicDetector constructs a Detector with the configured thresholds.
// Signal selectors mark a body a layout strategy can already parse; keywords
// mark a script-driven shell that needs the renderer.
func NewHeuristicDetector(minBytes int, signals, keywords []string) *HeuristicDetector {
	lowerKeywords := make([][]byte, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lowerKeywords = append(lowerKeywords, bytes.ToLower([]byte(kw)))
	}
	return &HeuristicDetector{
		minHTMLBytes: minBytes,
		signals:      signals,
		keywords:     lowerKeywords,
	}
}

// ShouldPromote reports whether the static body warrants a rendered pass.
func (d *HeuristicDetector) ShouldPromote(page Page) bool {
	if d == nil {
		return false
	}
	if page.Rendered {
		return false
	}
	switch {
	case d.bodyBelowThreshold(page.Body):
		return true
	case d.containsKeywords(page.Body):
		return true
	default:
		return d.missingSignals(page.Body)
	}
}

func (d *HeuristicDetector) bodyBelowThreshold(body []byte) bool {
	return d.minHTMLBytes > 0 && len(body) < d.minHTMLBytes
}

func (d *HeuristicDetector) containsKeywords(body []byte) bool {
	if len(body) == 0 || len(d.keywords) == 0 {
		return false
	}
	lowerBody := bytes.ToLower(body)
	for _, kw := range d.keywords {
		if len(kw) == 0 {
			continue
		}
		if bytes.Contains(lowerBody, kw) {
			return true
		}
	}
	return false
}

// missingSignals reports whether none of the signal selectors match. Any
// single match means the body is parseable as delivered.
func (d *HeuristicDetector) missingSignals(body []byte) bool {
	if len(d.signals) == 0 || len(body) == 0 {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return true
	}
	for _, sel := range d.signals {
		if sel == "" {
			continue
		}
		if doc.Find(sel).Length() > 0 {
			return false
		}
	}
	return true
}
