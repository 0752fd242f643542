// Package store persists one JSON unit per patch version. Backends
// share the same skip-or-overwrite policy: an existing unit is only
// replaced when the caller asks for it, and skipping is a normal
// outcome rather than an error.
package store

import (
	"context"

	"github.com/jbalsam/patchvault/internal/record"
)

// PutOutcome reports what Put did with a record.
type PutOutcome int

const (
	// OutcomeStored means a unit was written for the first time.
	OutcomeStored PutOutcome = iota
	// OutcomeReplaced means an existing unit was overwritten.
	OutcomeReplaced
	// OutcomeSkipped means an existing unit was kept because overwrite
	// was off.
	OutcomeSkipped
)

// String names the outcome for logs and metrics labels.
func (o PutOutcome) String() string {
	switch o {
	case OutcomeStored:
		return "stored"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Store is the per-version archive of patch records.
type Store interface {
	// Put persists one record under its version key.
	Put(ctx context.Context, rec record.PatchRecord, overwrite bool) (PutOutcome, error)
	// List returns every readable record. Order is unspecified; callers
	// sort as they need.
	List(ctx context.Context) ([]record.PatchRecord, error)
}

func unitName(v record.VersionID) string {
	return v.String() + ".json"
}
