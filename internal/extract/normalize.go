package extract

import (
	"fmt"

	"github.com/jbalsam/patchvault/internal/record"
)

// Normalize validates the parse output and binds it into the immutable
// record the store and renderer consume. An empty section set is the
// per-page hard failure; nothing downstream ever sees such a record.
func Normalize(meta Metadata, secs *record.Sections, pageURL string) (record.PatchRecord, error) {
	if secs.Len() == 0 {
		return record.PatchRecord{}, fmt.Errorf("normalize %s: %w", pageURL, ErrNoSections)
	}
	return record.PatchRecord{
		Version:   meta.Version,
		Date:      meta.Date,
		Title:     meta.Title,
		SourceURL: pageURL,
		Sections:  secs,
	}, nil
}
