package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// SQLSnapshotStore keeps the snapshot as a single row in a key/value table.
// The none backend is served by a store without a database handle.
type SQLSnapshotStore struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
	now       func() time.Time
}

var _ contract.SnapshotStore = &SQLSnapshotStore{} // Compile-time check

// NewSQLSnapshotStore initializes a SQL-backed store for the given backend.
func NewSQLSnapshotStore(tableName string, backend schema.DatabaseBackend, connStr string) (*SQLSnapshotStore, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}
	if backend == schema.NoneBackend {
		return &SQLSnapshotStore{tableName: tableName, backend: backend, now: time.Now}, nil
	}

	driverName, err := driverFor(backend)
	if err != nil {
		return nil, err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetCacheDBFilePath()
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s cache: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if _, err := db.Exec(getCreateTableQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &SQLSnapshotStore{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
		now:       time.Now,
	}, nil
}

// getCreateTableQuery returns the CREATE TABLE query for the given backend.
func getCreateTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key VARCHAR(255) PRIMARY KEY,
				cache_value LONGBLOB NOT NULL,
				cache_version INT NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BYTEA NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				cache_key TEXT PRIMARY KEY,
				cache_value BLOB NOT NULL,
				cache_version INTEGER NOT NULL,
				cache_timestamp INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Read implements the SnapshotStore interface.
func (ps *SQLSnapshotStore) Read(ctx context.Context) (*schema.CacheSnapshot, error) {
	if ps.db == nil {
		return nil, nil
	}
	value, version, err := ps.get(ctx, snapshotKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &contract.PersistenceError{Op: "read", Err: err}
	}
	if version != snapshotVersion {
		return nil, nil
	}
	snap, err := decodeSnapshot(value)
	if err != nil {
		return nil, &contract.PersistenceError{Op: "read", Err: err}
	}
	return snap, nil
}

// CoveringSubset implements the SnapshotStore interface.
func (ps *SQLSnapshotStore) CoveringSubset(ctx context.Context, start, end time.Time) (schema.RecordSet, bool, error) {
	snap, err := ps.Read(ctx)
	if err != nil {
		return schema.RecordSet{}, false, err
	}
	records, ok := coveringSubset(snap, start, end)
	return records, ok, nil
}

// Merge implements the SnapshotStore interface.
func (ps *SQLSnapshotStore) Merge(existing, incoming schema.RecordSet, policy schema.MergePolicy) schema.RecordSet {
	return MergeRecords(existing, incoming, policy)
}

// Write implements the SnapshotStore interface.
func (ps *SQLSnapshotStore) Write(ctx context.Context, records schema.RecordSet, start, end time.Time) error {
	if ps.db == nil {
		return nil
	}
	prev, err := ps.Read(ctx)
	if err != nil {
		return &contract.PersistenceError{Op: "write", Err: err}
	}
	now := ps.now()
	data, err := encodeSnapshot(nextSnapshot(prev, records, start, end, now))
	if err != nil {
		return &contract.PersistenceError{Op: "write", Err: err}
	}
	if err := ps.set(ctx, snapshotKey, data, snapshotVersion, now.Unix()); err != nil {
		return &contract.PersistenceError{Op: "write", Err: err}
	}
	return nil
}

// get retrieves a value by key from the table.
func (ps *SQLSnapshotStore) get(ctx context.Context, key string) ([]byte, int, error) {
	var value []byte
	var version int

	quotedTableName := quoteTableName(ps.tableName, ps.backend)
	query := fmt.Sprintf(`SELECT cache_value, cache_version FROM %s WHERE cache_key = %s`, quotedTableName, ps.getPlaceholder())
	if err := ps.db.QueryRowContext(ctx, query, key).Scan(&value, &version); err != nil {
		return nil, 0, err
	}
	return value, version, nil
}

// set inserts or replaces a key/value pair in the table.
func (ps *SQLSnapshotStore) set(ctx context.Context, key string, value []byte, version int, timestamp int64) error {
	_, err := ps.db.ExecContext(ctx, ps.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// getPlaceholder returns the parameter placeholder for the backend.
func (ps *SQLSnapshotStore) getPlaceholder() string {
	switch ps.backend {
	case schema.PostgreSQLBackend:
		return "$1"
	default: // SQLite and MySQL
		return "?"
	}
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ps *SQLSnapshotStore) getUpsertQuery() string {
	quotedTableName := quoteTableName(ps.tableName, ps.backend)
	switch ps.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE cache_value = new.cache_value, cache_version = new.cache_version, cache_timestamp = new.cache_timestamp`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (cache_key) DO UPDATE SET cache_value = EXCLUDED.cache_value, cache_version = EXCLUDED.cache_version, cache_timestamp = EXCLUDED.cache_timestamp`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (cache_key, cache_value, cache_version, cache_timestamp) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Close closes the underlying DB connection.
func (ps *SQLSnapshotStore) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}

// GetStatus implements the SnapshotStore interface.
func (ps *SQLSnapshotStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(ps.backend),
		Location:  ps.location(),
		Connected: ps.db != nil,
	}
	if ps.db == nil {
		return status, nil
	}

	snap, err := ps.Read(context.Background())
	if err != nil {
		return status, err
	}
	snapshotStatus(&status, snap)
	status.SizeBytes = ps.tableSize()
	return status, nil
}

// location describes where the data lives without exposing credentials.
func (ps *SQLSnapshotStore) location() string {
	switch ps.backend {
	case schema.SQLiteBackend:
		return ps.connStr
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ps.connStr)
		if err != nil {
			return ps.tableName
		}
		return fmt.Sprintf("%s/%s.%s", cfg.Addr, cfg.DBName, ps.tableName)
	case schema.PostgreSQLBackend:
		cfg, err := pgx.ParseConfig(ps.connStr)
		if err != nil {
			return ps.tableName
		}
		return fmt.Sprintf("%s:%d/%s.%s", cfg.Host, cfg.Port, cfg.Database, ps.tableName)
	default:
		return ""
	}
}

// tableSize estimates the storage used by the snapshot table.
func (ps *SQLSnapshotStore) tableSize() int64 {
	var size int64
	switch ps.backend {
	case schema.SQLiteBackend:
		row := ps.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ps.connStr)
		if err != nil || cfg.DBName == "" {
			return 0
		}
		row := ps.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, ps.tableName)
		if err := row.Scan(&size); err != nil {
			return 0
		}
	case schema.PostgreSQLBackend:
		row := ps.db.QueryRow("SELECT pg_total_relation_size($1)", ps.tableName)
		if err := row.Scan(&size); err != nil {
			return 0
		}
	}
	return size
}
