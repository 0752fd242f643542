package store

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jbalsam/patchvault/internal/record"
)

// MockStore is a testify mock of the Store interface for pipeline tests.
type MockStore struct {
	mock.Mock
}

// Put is the mock implementation of the Put method.
func (m *MockStore) Put(ctx context.Context, rec record.PatchRecord, overwrite bool) (PutOutcome, error) {
	args := m.Called(ctx, rec, overwrite)
	return args.Get(0).(PutOutcome), args.Error(1) //nolint:wrapcheck
}

// List is the mock implementation of the List method.
func (m *MockStore) List(ctx context.Context) ([]record.PatchRecord, error) {
	args := m.Called(ctx)
	recs, _ := args.Get(0).([]record.PatchRecord)
	return recs, args.Error(1) //nolint:wrapcheck
}
