// Package store includes tests for the filesystem backend.
package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jbalsam/patchvault/internal/record"
)

func testRecord(version record.VersionID, item string) record.PatchRecord {
	secs := record.NewSections()
	secs.Append("Combat", item)
	return record.PatchRecord{
		Version:   version,
		Date:      "Aug 30, 2022",
		Title:     "Grand Athenaeum",
		SourceURL: "https://example.com/news/" + version.String(),
		Sections:  secs,
	}
}

func newTestFSStore(t *testing.T) *FSStore {
	t.Helper()
	s, err := NewFSStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return s
}

// TestFSStorePutOutcomes walks the store, skip, and replace transitions.
func TestFSStorePutOutcomes(t *testing.T) {
	t.Parallel()

	s := newTestFSStore(t)
	ctx := context.Background()

	outcome, err := s.Put(ctx, testRecord("v205", "New Skill A"), false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeStored, outcome)

	outcome, err = s.Put(ctx, testRecord("v205", "Changed Skill"), false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, outcome)

	outcome, err = s.Put(ctx, testRecord("v205", "Changed Skill"), true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeReplaced, outcome)

	recs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	items, _ := recs[0].Sections.Items("Combat")
	assert.Equal(t, []string{"Changed Skill"}, items, "replace must swap the whole unit")
}

// TestFSStoreSkipKeepsOriginal proves a skipped put leaves the unit
// byte-identical.
func TestFSStoreSkipKeepsOriginal(t *testing.T) {
	t.Parallel()

	s := newTestFSStore(t)
	ctx := context.Background()

	_, err := s.Put(ctx, testRecord("v100", "Original"), false)
	require.NoError(t, err)
	before, err := os.ReadFile(filepath.Join(s.Dir(), "v100.json"))
	require.NoError(t, err)

	_, err = s.Put(ctx, testRecord("v100", "Replacement"), false)
	require.NoError(t, err)
	after, err := os.ReadFile(filepath.Join(s.Dir(), "v100.json"))
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

// TestFSStoreLeavesNoTempFiles checks the atomic write cleans up.
func TestFSStoreLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	s := newTestFSStore(t)
	_, err := s.Put(context.Background(), testRecord("v205", "New Skill A"), false)
	require.NoError(t, err)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.Contains(entry.Name(), ".tmp-"),
			"unexpected temp file %s", entry.Name())
	}
}

// TestFSStoreListSkipsJunk ignores subdirectories, foreign files, and
// corrupt units without failing the listing.
func TestFSStoreListSkipsJunk(t *testing.T) {
	t.Parallel()

	s := newTestFSStore(t)
	ctx := context.Background()
	_, err := s.Put(ctx, testRecord("v205", "New Skill A"), false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("{not json"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("ignore me"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "nested.json"), 0o750))

	recs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, record.VersionID("v205"), recs[0].Version)
}

// TestFSStoreVersionFromFilename derives the version key from the file
// name rather than the unit body.
func TestFSStoreVersionFromFilename(t *testing.T) {
	t.Parallel()

	s := newTestFSStore(t)
	ctx := context.Background()
	_, err := s.Put(ctx, testRecord("unknown-1661865600", "Mystery"), false)
	require.NoError(t, err)

	recs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, record.VersionID("unknown-1661865600"), recs[0].Version)
	assert.True(t, recs[0].Version.IsSynthetic())
}

// TestFSStorePutCanceledContext refuses work once the batch is gone.
func TestFSStorePutCanceledContext(t *testing.T) {
	t.Parallel()

	s := newTestFSStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Put(ctx, testRecord("v205", "New Skill A"), false)
	assert.Error(t, err)
}
