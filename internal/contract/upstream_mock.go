package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/huangsam/repopulse/schema"
)

// MockUpstreamClient is a mock type for the UpstreamClient type.
type MockUpstreamClient struct {
	mock.Mock
}

var _ UpstreamClient = &MockUpstreamClient{} // Compile-time check

// FetchRange implements the UpstreamClient interface.
func (m *MockUpstreamClient) FetchRange(ctx context.Context, credential, owner, repo string, start, end time.Time) (schema.RecordSet, error) {
	ret := m.Called(ctx, credential, owner, repo, start, end)
	records, _ := ret.Get(0).(schema.RecordSet)
	return records, ret.Error(1)
}

// Ping implements the UpstreamClient interface.
func (m *MockUpstreamClient) Ping(ctx context.Context, credential, owner, repo string) error {
	ret := m.Called(ctx, credential, owner, repo)
	return ret.Error(0)
}
