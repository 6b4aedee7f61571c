package iocache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// FileSnapshotStore keeps the snapshot as one JSON document on disk.
type FileSnapshotStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

var _ contract.SnapshotStore = &FileSnapshotStore{} // Compile-time check

// NewFileSnapshotStore returns a store backed by the document at path.
// The file is created on first write.
func NewFileSnapshotStore(path string) (*FileSnapshotStore, error) {
	if path == "" {
		path = contract.GetSnapshotFilePath()
	}
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("cache directory %q is not accessible. Ensure it exists and is writable", dir)
	}
	return &FileSnapshotStore{path: path, now: time.Now}, nil
}

// Path returns the document location.
func (s *FileSnapshotStore) Path() string {
	return s.path
}

// Read implements the SnapshotStore interface.
func (s *FileSnapshotStore) Read(_ context.Context) (*schema.CacheSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *FileSnapshotStore) readLocked() (*schema.CacheSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &contract.PersistenceError{Op: "read", Err: err}
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, &contract.PersistenceError{Op: "read", Err: err}
	}
	return snap, nil
}

// CoveringSubset implements the SnapshotStore interface.
func (s *FileSnapshotStore) CoveringSubset(ctx context.Context, start, end time.Time) (schema.RecordSet, bool, error) {
	snap, err := s.Read(ctx)
	if err != nil {
		return schema.RecordSet{}, false, err
	}
	records, ok := coveringSubset(snap, start, end)
	return records, ok, nil
}

// Merge implements the SnapshotStore interface.
func (s *FileSnapshotStore) Merge(existing, incoming schema.RecordSet, policy schema.MergePolicy) schema.RecordSet {
	return MergeRecords(existing, incoming, policy)
}

// Write implements the SnapshotStore interface. The document is replaced
// atomically through a temporary file in the same directory.
func (s *FileSnapshotStore) Write(_ context.Context, records schema.RecordSet, start, end time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.readLocked()
	if err != nil {
		return &contract.PersistenceError{Op: "write", Err: err}
	}
	data, err := encodeSnapshot(nextSnapshot(prev, records, start, end, s.now()))
	if err != nil {
		return &contract.PersistenceError{Op: "write", Err: err}
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return &contract.PersistenceError{Op: "write", Err: err}
	}
	return nil
}

// GetStatus implements the SnapshotStore interface.
func (s *FileSnapshotStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(schema.FileBackend),
		Location:  s.path,
		Connected: true,
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return status, nil
	}
	if err != nil {
		return status, fmt.Errorf("failed to stat cache file: %w", err)
	}
	status.SizeBytes = info.Size()

	snap, err := s.readLocked()
	if err != nil {
		return status, err
	}
	snapshotStatus(&status, snap)
	return status, nil
}

// Close implements the SnapshotStore interface.
func (s *FileSnapshotStore) Close() error {
	return nil
}

// writeFileAtomic writes data to a temp file and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, os.FileMode(0o600)); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
