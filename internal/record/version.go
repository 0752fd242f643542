// Package record defines the patch note data model: version identifiers,
// ordered section content, and the JSON unit each patch is persisted as.
package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// versionToken matches a 2 or 3 digit patch number, optionally separated
// from the leading v by a dot, dash, or space. Longer digit runs never
// match, which keeps years and build numbers out.
var versionToken = regexp.MustCompile(`(?i)\bv[\s.-]?(\d{2,3})\b`)

// VersionID identifies one patch. The canonical form is "v" followed by
// the patch number. Pages that never reveal a number get a synthetic
// "unknown-<unix seconds>" ID so they can still be archived and deduped.
type VersionID string

// FindVersion scans free text for a patch number and returns it in
// canonical form. The second return is false when no token matches.
func FindVersion(text string) (VersionID, bool) {
	m := versionToken.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return VersionID("v" + m[1]), true
}

// Synthetic builds the fallback VersionID for a page without a number.
func Synthetic(ts time.Time) VersionID {
	return VersionID(fmt.Sprintf("unknown-%d", ts.Unix()))
}

// IsSynthetic reports whether the ID is the unknown fallback form.
func (v VersionID) IsSynthetic() bool {
	return strings.HasPrefix(string(v), "unknown-")
}

// Num returns the numeric component used for ordering, higher meaning
// newer. IDs without digits sort as zero.
func (v VersionID) Num() int {
	s := string(v)
	i := strings.IndexFunc(s, isDigit)
	if i < 0 {
		return 0
	}
	j := i
	for j < len(s) && isDigit(rune(s[j])) {
		j++
	}
	n, err := strconv.Atoi(s[i:j])
	if err != nil {
		return 0
	}
	return n
}

func (v VersionID) String() string {
	return string(v)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
