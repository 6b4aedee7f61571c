package iocache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// storeFactories builds each local backend against a temp directory.
func storeFactories(t *testing.T) map[string]func() contract.SnapshotStore {
	t.Helper()
	return map[string]func() contract.SnapshotStore{
		"file": func() contract.SnapshotStore {
			s, err := NewFileSnapshotStore(filepath.Join(t.TempDir(), "cache.json"))
			require.NoError(t, err)
			return s
		},
		"sqlite": func() contract.SnapshotStore {
			s, err := NewSQLSnapshotStore(snapshotTable, schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestSnapshotStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("absent before first write", func(t *testing.T) {
				store := factory()
				defer func() { _ = store.Close() }()

				snap, err := store.Read(ctx)
				require.NoError(t, err)
				assert.Nil(t, snap)

				_, ok, err := store.CoveringSubset(ctx, jan1, jan31)
				require.NoError(t, err)
				assert.False(t, ok)

				status, err := store.GetStatus()
				require.NoError(t, err)
				assert.False(t, status.Initialized)
			})

			t.Run("first write covers exactly the range", func(t *testing.T) {
				store := factory()
				defer func() { _ = store.Close() }()

				require.NoError(t, store.Write(ctx, januaryRecords(), jan1, jan31))
				snap, err := store.Read(ctx)
				require.NoError(t, err)
				require.NotNil(t, snap)
				assert.True(t, snap.DateRange.Start.Equal(jan1))
				assert.True(t, snap.DateRange.End.Equal(jan31))
				assert.Len(t, snap.Issues, 3)
				assert.Len(t, snap.PullRequests, 1)
				assert.False(t, snap.LastUpdated.IsZero())
			})

			t.Run("covered request is a hit with the in-range subset", func(t *testing.T) {
				store := factory()
				defer func() { _ = store.Close() }()
				require.NoError(t, store.Write(ctx, januaryRecords(), jan1, jan31))

				got, ok, err := store.CoveringSubset(ctx, jan1, jan15)
				require.NoError(t, err)
				require.True(t, ok)
				assert.Len(t, got.Issues, 2, "both bounds are inclusive")
				assert.Len(t, got.PullRequests, 1)
			})

			t.Run("partial overlap is a miss", func(t *testing.T) {
				store := factory()
				defer func() { _ = store.Close() }()
				require.NoError(t, store.Write(ctx, januaryRecords(), jan1, jan31))

				_, ok, err := store.CoveringSubset(ctx, jan15, feb29)
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("later write extends to the union", func(t *testing.T) {
				store := factory()
				defer func() { _ = store.Close() }()
				require.NoError(t, store.Write(ctx, januaryRecords(), jan15, jan31))

				feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
				merged := store.Merge(januaryRecords(), schema.RecordSet{Issues: []schema.Issue{issueAt(9, feb)}}, schema.LastWriteWins)
				require.NoError(t, store.Write(ctx, merged, jan1, feb29))

				snap, err := store.Read(ctx)
				require.NoError(t, err)
				assert.True(t, snap.DateRange.Start.Equal(jan1))
				assert.True(t, snap.DateRange.End.Equal(feb29))
				assert.Len(t, snap.Issues, 4)

				// A narrower write never shrinks coverage.
				require.NoError(t, store.Write(ctx, merged, jan15, jan31))
				snap, err = store.Read(ctx)
				require.NoError(t, err)
				assert.True(t, snap.DateRange.Start.Equal(jan1))
				assert.True(t, snap.DateRange.End.Equal(feb29))

				status, err := store.GetStatus()
				require.NoError(t, err)
				assert.True(t, status.Initialized)
				assert.Equal(t, 4, status.TotalIssues)
				assert.Equal(t, 1, status.TotalPRs)
				require.NotNil(t, status.CoveredRange)
				assert.Positive(t, status.SizeBytes)
			})

			t.Run("disjoint write moves coverage to the new range", func(t *testing.T) {
				store := factory()
				defer func() { _ = store.Close() }()
				require.NoError(t, store.Write(ctx, januaryRecords(), jan1, jan31))

				mar1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
				mar31 := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
				march := schema.RecordSet{Issues: []schema.Issue{issueAt(9, mar1.AddDate(0, 0, 4))}}
				merged := store.Merge(januaryRecords(), march, schema.LastWriteWins)
				require.NoError(t, store.Write(ctx, merged, mar1, mar31))

				snap, err := store.Read(ctx)
				require.NoError(t, err)
				assert.True(t, snap.DateRange.Start.Equal(mar1))
				assert.True(t, snap.DateRange.End.Equal(mar31))
				assert.Len(t, snap.Issues, 4, "records outside the covered range are kept")

				// Nothing was fetched for February, so it must not be served.
				_, ok, err := store.CoveringSubset(ctx, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), feb29)
				require.NoError(t, err)
				assert.False(t, ok)

				_, ok, err = store.CoveringSubset(ctx, jan1, mar31)
				require.NoError(t, err)
				assert.False(t, ok)

				got, ok, err := store.CoveringSubset(ctx, mar1, mar31)
				require.NoError(t, err)
				require.True(t, ok)
				require.Len(t, got.Issues, 1)
				assert.Equal(t, 9, got.Issues[0].Number)
			})
		})
	}
}

func TestFileSnapshotStoreVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99,"issues":[],"pullRequests":[]}`), 0o600))

	store, err := NewFileSnapshotStore(path)
	require.NoError(t, err)
	snap, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestFileSnapshotStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	store, err := NewFileSnapshotStore(path)
	require.NoError(t, err)
	_, err = store.Read(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrPersistence)

	err = store.Write(context.Background(), januaryRecords(), jan1, jan31)
	assert.ErrorIs(t, err, contract.ErrPersistence)
}

func TestFileSnapshotStoreMissingDirectory(t *testing.T) {
	_, err := NewFileSnapshotStore(filepath.Join(t.TempDir(), "nope", "cache.json"))
	assert.Error(t, err)
}

func TestFileSnapshotStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSnapshotStore(filepath.Join(dir, "cache.json"))
	require.NoError(t, err)
	require.NoError(t, store.Write(context.Background(), januaryRecords(), jan1, jan31))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cache.json", entries[0].Name())
	assert.Equal(t, filepath.Join(dir, "cache.json"), store.Path())
}

func TestSQLSnapshotStoreNoneBackend(t *testing.T) {
	store, err := NewSQLSnapshotStore(snapshotTable, schema.NoneBackend, "")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Write(ctx, januaryRecords(), jan1, jan31))
	snap, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestSQLSnapshotStoreInvalidTable(t *testing.T) {
	_, err := NewSQLSnapshotStore("bad;table", schema.SQLiteBackend, ":memory:")
	assert.Error(t, err)
}

func TestSQLSnapshotStoreVersionMismatch(t *testing.T) {
	store, err := NewSQLSnapshotStore(snapshotTable, schema.SQLiteBackend, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.set(ctx, snapshotKey, []byte(`{}`), snapshotVersion+1, time.Now().Unix()))
	snap, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`t`", quoteTableName("t", schema.MySQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.PostgreSQLBackend))
	assert.Equal(t, `"t"`, quoteTableName("t", schema.SQLiteBackend))
	assert.NoError(t, validateTableName("repopulse_snapshot"))
	assert.Error(t, validateTableName(""))
	assert.Error(t, validateTableName("1abc"))
}
