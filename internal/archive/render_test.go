// Package archive includes tests for the block renderer.
package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jbalsam/patchvault/internal/record"
)

func buildRecord(version record.VersionID, date, title, url string, sections map[string][]string, order []string) record.PatchRecord {
	secs := record.NewSections()
	for _, name := range order {
		secs.Append(name, sections[name]...)
	}
	return record.PatchRecord{
		Version:   version,
		Date:      date,
		Title:     title,
		SourceURL: url,
		Sections:  secs,
	}
}

// TestRenderBlockFull pins the exact layout with every field present.
func TestRenderBlockFull(t *testing.T) {
	t.Parallel()

	rec := buildRecord("v205", "Aug 30, 2022", "Grand Athenaeum", "https://example.com/news/v205",
		map[string][]string{
			"Combat": {"New Skill A"},
			"Items":  {"New Hat"},
		}, []string{"Combat", "Items"})

	want := "<details>\n" +
		"  <summary>\n" +
		"    v205 (Aug 30, 2022) - Grand Athenaeum\n" +
		"  </summary>\n" +
		"\n" +
		"  URL: https://example.com/news/v205\n" +
		"\n" +
		"  - Combat: New Skill A\n" +
		"  - Items: New Hat\n" +
		"</details>\n"
	assert.Equal(t, want, RenderBlock(rec))
}

// TestRenderBlockWithoutURL drops the URL stanza and its blank lines.
func TestRenderBlockWithoutURL(t *testing.T) {
	t.Parallel()

	rec := buildRecord("v205", "Aug 30, 2022", "", "",
		map[string][]string{"Combat": {"New Skill A"}}, []string{"Combat"})

	want := "<details>\n" +
		"  <summary>\n" +
		"    v205 (Aug 30, 2022)\n" +
		"  </summary>\n" +
		"  - Combat: New Skill A\n" +
		"</details>\n"
	assert.Equal(t, want, RenderBlock(rec))
}

// TestRenderBlockSkeleton renders an empty body for item-less sections.
func TestRenderBlockSkeleton(t *testing.T) {
	t.Parallel()

	rec := buildRecord("unknown-1661865600", "", "", "",
		map[string][]string{"World Select": nil, "Events": nil}, []string{"World Select", "Events"})

	want := "<details>\n" +
		"  <summary>\n" +
		"    unknown-1661865600\n" +
		"  </summary>\n" +
		"</details>\n"
	assert.Equal(t, want, RenderBlock(rec))
}

// TestHeadlineVariants covers the optional date and title segments.
func TestHeadlineVariants(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		date  string
		title string
		want  string
	}{
		{name: "version only", want: "v142"},
		{name: "with date", date: "Dec 15, 2013", want: "v142 (Dec 15, 2013)"},
		{name: "with title", title: "Mega Burning", want: "v142 - Mega Burning"},
		{name: "full", date: "Dec 15, 2013", title: "Mega Burning", want: "v142 (Dec 15, 2013) - Mega Burning"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := buildRecord("v142", tc.date, tc.title, "", nil, nil)
			assert.Equal(t, tc.want, headline(rec))
		})
	}
}
