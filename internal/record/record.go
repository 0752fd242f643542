package record

// PatchRecord is one extracted patch: its version, the page-level
// metadata, and the section content. Records are immutable once built;
// a re-scrape replaces the whole unit or is discarded, never merged
// field by field.
type PatchRecord struct {
	Version   VersionID
	Date      string
	Title     string
	SourceURL string
	Sections  *Sections
}
