// Package record includes tests for version token matching and ordering.
package record

import (
	"testing"
	"time"
)

// TestFindVersion covers the token forms seen across the publication
// history, including the runs of digits that must not match.
func TestFindVersion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want VersionID
		ok   bool
	}{
		{name: "bare", in: "v205", want: "v205", ok: true},
		{name: "upper", in: "V205", want: "v205", ok: true},
		{name: "dot separator", in: "v.205", want: "v205", ok: true},
		{name: "dash separator", in: "v-99", want: "v99", ok: true},
		{name: "space separator", in: "v 142", want: "v142", ok: true},
		{name: "inside url", in: "https://example.com/news/v205-patch-notes", want: "v205", ok: true},
		{name: "inside title", in: "[Updated] v205 - Grand Athenaeum Patch Notes", want: "v205", ok: true},
		{name: "two digits", in: "update v42 live", want: "v42", ok: true},
		{name: "four digits", in: "v2050"},
		{name: "one digit", in: "v5"},
		{name: "no boundary before", in: "xv205"},
		{name: "no v", in: "version 205 released"},
		{name: "empty", in: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := FindVersion(tc.in)
			if ok != tc.ok {
				t.Fatalf("FindVersion(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("FindVersion(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

// TestVersionNum checks the ordering key for canonical and synthetic IDs.
func TestVersionNum(t *testing.T) {
	t.Parallel()

	cases := []struct {
		id   VersionID
		want int
	}{
		{id: "v205", want: 205},
		{id: "v100", want: 100},
		{id: "v99", want: 99},
		{id: "unknown-1661865600", want: 1661865600},
		{id: "nodigits", want: 0},
		{id: "", want: 0},
	}
	for _, tc := range cases {
		if got := tc.id.Num(); got != tc.want {
			t.Fatalf("VersionID(%q).Num() = %d, want %d", tc.id, got, tc.want)
		}
	}
}

// TestSynthetic pins the fallback ID format to unix seconds.
func TestSynthetic(t *testing.T) {
	t.Parallel()

	ts := time.Unix(1661865600, 0).UTC()
	got := Synthetic(ts)
	if got != "unknown-1661865600" {
		t.Fatalf("Synthetic() = %q, want unknown-1661865600", got)
	}
	if !got.IsSynthetic() {
		t.Fatal("expected synthetic ID to report IsSynthetic")
	}
	if VersionID("v205").IsSynthetic() {
		t.Fatal("v205 must not report IsSynthetic")
	}
}
