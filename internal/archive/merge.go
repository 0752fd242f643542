package archive

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jbalsam/patchvault/internal/record"
)

// summaryVersion finds the version token at the head of each rendered
// block. It matches the synthetic form too; otherwise every run would
// re-add records whose pages never revealed a number.
var summaryVersion = regexp.MustCompile(`(?i)<summary>\s*(v\d+|unknown-\d+)`)

// ExistingVersions scans an aggregate document for the versions it
// already holds.
func ExistingVersions(existing string) map[record.VersionID]struct{} {
	found := make(map[record.VersionID]struct{})
	for _, m := range summaryVersion.FindAllStringSubmatch(existing, -1) {
		found[record.VersionID(strings.ToLower(m[1]))] = struct{}{}
	}
	return found
}

// Merge prepends the records missing from existing, newest first, and
// returns the combined document plus the number of blocks added. The
// filter is part of the contract here, not the caller's problem: a
// version already present, or repeated within records, is dropped.
// With nothing to add the document comes back byte-identical.
func Merge(records []record.PatchRecord, existing string) (string, int) {
	seen := ExistingVersions(existing)
	var fresh []record.PatchRecord
	for _, rec := range records {
		if _, dup := seen[rec.Version]; dup {
			continue
		}
		seen[rec.Version] = struct{}{}
		fresh = append(fresh, rec)
	}
	if len(fresh) == 0 {
		return existing, 0
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].Version.Num() > fresh[j].Version.Num()
	})

	blocks := make([]string, len(fresh))
	for i, rec := range fresh {
		blocks[i] = RenderBlock(rec)
	}
	rendered := strings.Join(blocks, "\n")
	if existing == "" {
		return rendered, len(fresh)
	}
	return rendered + "\n" + existing, len(fresh)
}
