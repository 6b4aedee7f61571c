package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// NewSnapshotStore builds the store for backend. connStr is the database DSN
// (or the SQLite path), filePath is the document path for the file backend.
func NewSnapshotStore(backend schema.DatabaseBackend, connStr, filePath string) (contract.SnapshotStore, error) {
	switch backend {
	case schema.FileBackend, "":
		return NewFileSnapshotStore(filePath)
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend, schema.NoneBackend:
		return NewSQLSnapshotStore(snapshotTable, backend, connStr)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be file, sqlite, mysql, postgresql, or none", backend)
	}
}

// InitStores initializes the global cache manager with the snapshot store.
func InitStores(backend schema.DatabaseBackend, connStr, filePath string) error {
	var initErr error

	initOnce.Do(func() {
		store, err := NewSnapshotStore(backend, connStr, filePath)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize snapshot cache: %w", err)
			return
		}
		Manager.Lock()
		Manager.snapshot = store
		Manager.Unlock()
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.snapshot != nil {
			_ = Manager.snapshot.Close()
		}
	})
}

// ClearCache clears the cache for the specified backend.
// For the file and SQLite backends, it deletes the file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, filePath, connStr string) error {
	switch backend {
	case schema.FileBackend:
		if filePath == "" {
			filePath = contract.GetSnapshotFilePath()
		}
		return removeFile(filePath)

	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetCacheDBFilePath()
		}
		return removeFile(connStr)

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName, err := driverFor(backend)
		if err != nil {
			return err
		}
		return clearSQLTable(driverName, backend, connStr, snapshotTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// removeFile removes path, ignoring a missing file.
func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove cache file %s: %w", path, err)
	}
	return nil
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName string, backend schema.DatabaseBackend, connStr, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
