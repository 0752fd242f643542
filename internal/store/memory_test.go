// Package store includes tests for the in-memory backend.
package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryStorePolicy checks the backend honors skip and overwrite.
func TestMemoryStorePolicy(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	outcome, err := s.Put(ctx, testRecord("v205", "New Skill A"), false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeStored, outcome)

	outcome, err = s.Put(ctx, testRecord("v205", "Other"), false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSkipped, outcome)

	outcome, err = s.Put(ctx, testRecord("v205", "Other"), true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeReplaced, outcome)

	recs, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

// TestOutcomeString pins the metric label names.
func TestOutcomeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "stored", OutcomeStored.String())
	assert.Equal(t, "replaced", OutcomeReplaced.String())
	assert.Equal(t, "skipped", OutcomeSkipped.String())
	assert.Equal(t, "unknown", PutOutcome(99).String())
}
