package iocache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetSnapshotStore implements the CacheManager interface.
func (m *MockCacheManager) GetSnapshotStore() contract.SnapshotStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.SnapshotStore)
	return store
}

// MockSnapshotStore is a mock implementation of SnapshotStore for testing.
// Merge is not mocked; it delegates to MergeRecords.
type MockSnapshotStore struct {
	mock.Mock
}

var _ contract.SnapshotStore = &MockSnapshotStore{} // Compile-time check

// Read implements the SnapshotStore interface.
func (m *MockSnapshotStore) Read(ctx context.Context) (*schema.CacheSnapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*schema.CacheSnapshot)
	return snap, args.Error(1)
}

// CoveringSubset implements the SnapshotStore interface.
func (m *MockSnapshotStore) CoveringSubset(ctx context.Context, start, end time.Time) (schema.RecordSet, bool, error) {
	args := m.Called(ctx, start, end)
	records, _ := args.Get(0).(schema.RecordSet)
	return records, args.Bool(1), args.Error(2)
}

// Merge implements the SnapshotStore interface.
func (m *MockSnapshotStore) Merge(existing, incoming schema.RecordSet, policy schema.MergePolicy) schema.RecordSet {
	return MergeRecords(existing, incoming, policy)
}

// Write implements the SnapshotStore interface.
func (m *MockSnapshotStore) Write(ctx context.Context, records schema.RecordSet, start, end time.Time) error {
	args := m.Called(ctx, records, start, end)
	return args.Error(0)
}

// GetStatus implements the SnapshotStore interface.
func (m *MockSnapshotStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the SnapshotStore interface.
func (m *MockSnapshotStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
