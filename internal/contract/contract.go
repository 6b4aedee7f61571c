// Package contract provides interfaces and shared utilities for the repopulse internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/repopulse/schema"
)

// UpstreamClient defines the operations needed from the hosting API.
// This allows the orchestration logic to be tested without network access.
type UpstreamClient interface {
	// FetchRange returns every issue and pull request created in [start, end].
	FetchRange(ctx context.Context, credential, owner, repo string, start, end time.Time) (schema.RecordSet, error)

	// Ping verifies the credential can read the repository.
	Ping(ctx context.Context, credential, owner, repo string) error
}

// SnapshotStore defines the persisted record cache.
// Implementations back it with a file, an embedded database, or a remote database.
type SnapshotStore interface {
	// Read returns the full snapshot, or nil when the cache was never written.
	Read(ctx context.Context) (*schema.CacheSnapshot, error)

	// CoveringSubset returns the records created in [start, end] only when the
	// covered range fully contains it. The bool is false on any miss.
	CoveringSubset(ctx context.Context, start, end time.Time) (schema.RecordSet, bool, error)

	// Merge de-duplicates existing and incoming by number per kind using policy.
	Merge(existing, incoming schema.RecordSet, policy schema.MergePolicy) schema.RecordSet

	// Write replaces the snapshot. The covered range becomes the union of the
	// stored range and [start, end].
	Write(ctx context.Context, records schema.RecordSet, start, end time.Time) error

	// GetStatus returns status information about the store.
	GetStatus() (schema.CacheStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSnapshotStore() SnapshotStore
}
