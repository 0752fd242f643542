// Package archive renders patch records into the aggregate document and
// merges new records into it without ever duplicating a version.
package archive

import (
	"strings"

	"github.com/jbalsam/patchvault/internal/record"
)

// RenderBlock formats one record as a collapsible block. The summary
// line carries the version, then the date in parentheses, then the
// title after a dash, whichever of those exist. Sections render one
// line per item, so item-less sections contribute no body. The URL
// stanza appears only when the record has a source URL.
func RenderBlock(rec record.PatchRecord) string {
	var b strings.Builder
	b.WriteString("<details>\n  <summary>\n    ")
	b.WriteString(headline(rec))
	b.WriteString("\n  </summary>\n")
	if rec.SourceURL != "" {
		b.WriteString("\n  URL: ")
		b.WriteString(rec.SourceURL)
		b.WriteString("\n\n")
	}
	rec.Sections.Each(func(name string, items []string) {
		for _, item := range items {
			b.WriteString("  - ")
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(item)
			b.WriteString("\n")
		}
	})
	b.WriteString("</details>\n")
	return b.String()
}

func headline(rec record.PatchRecord) string {
	s := rec.Version.String()
	if rec.Date != "" {
		s += " (" + rec.Date + ")"
	}
	if rec.Title != "" {
		s += " - " + rec.Title
	}
	return s
}
