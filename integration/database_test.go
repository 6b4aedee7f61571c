//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/huangsam/repopulse/internal/iocache"
	"github.com/huangsam/repopulse/schema"
)

// startMySQL starts a MySQL container and returns its DSN.
func startMySQL(t *testing.T) string {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "repopulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mysqlC.Terminate(ctx) })

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	return fmt.Sprintf("root:secret123@tcp(%s:%s)/repopulse?parseTime=true", host, port.Port())
}

// startPostgres starts a PostgreSQL container and returns its DSN.
func startPostgres(t *testing.T) string {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
}

func TestSnapshotStoreWithMySQL(t *testing.T) {
	connStr := startMySQL(t)
	verifySnapshotStore(t, schema.MySQLBackend, connStr)
	verifyCLI(t, "mysql", connStr)
}

func TestSnapshotStoreWithPostgres(t *testing.T) {
	connStr := startPostgres(t)
	verifySnapshotStore(t, schema.PostgreSQLBackend, connStr)
	verifyCLI(t, "postgresql", connStr)
}

func TestSnapshotStoreWithSQLite(t *testing.T) {
	connStr := filepath.Join(t.TempDir(), "cache.db")
	verifySnapshotStore(t, schema.SQLiteBackend, connStr)
	verifyCLI(t, "sqlite", connStr)
}

// verifySnapshotStore writes two overlapping ranges and checks the covered
// range, the merged records and the coverage checks.
func verifySnapshotStore(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, iocache.ClearCache(backend, "", connStr))

	store, err := iocache.NewSnapshotStore(backend, connStr, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	snap, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	first := schema.RecordSet{Issues: []schema.Issue{
		{Number: 1, Title: "first", State: schema.StateOpen, CreatedAt: jan.AddDate(0, 0, 3), Author: "alice"},
	}}
	require.NoError(t, store.Write(ctx, first, jan, feb))

	snap, err = store.Read(ctx)
	require.NoError(t, err)
	second := store.Merge(snap.Records(), schema.RecordSet{Issues: []schema.Issue{
		{Number: 2, Title: "second", State: schema.StateOpen, CreatedAt: feb.AddDate(0, 0, 3), Author: "bob"},
	}}, schema.LastWriteWins)
	require.NoError(t, store.Write(ctx, second, feb, mar))

	records, ok, err := store.CoveringSubset(ctx, jan.AddDate(0, 0, 1), mar)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, records.Issues, 2)
	assert.Equal(t, 1, records.Issues[0].Number)
	assert.Equal(t, 2, records.Issues[1].Number)

	_, ok, err = store.CoveringSubset(ctx, jan, mar.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, ok)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 2, status.TotalIssues)
	require.NotNil(t, status.CoveredRange)
	assert.True(t, status.CoveredRange.Start.Equal(jan))
	assert.True(t, status.CoveredRange.End.Equal(mar))
}

// verifyCLI drives the cache commands and a report through the binary.
func verifyCLI(t *testing.T, backend, connStr string) {
	t.Helper()
	srv, listings := fakeGitHub(t)
	env := []string{
		"REPOPULSE_CACHE_BACKEND=" + backend,
		"REPOPULSE_CACHE_DB_CONNECT=" + connStr,
	}

	_, err := runRepopulse(t, env, "cache", "clear")
	require.NoError(t, err)

	_, err = runRepopulse(t, env, "cache", "migrate")
	require.NoError(t, err)

	_, err = runRepopulse(t, env, append([]string{"prime"}, targetArgs(srv.URL)...)...)
	require.NoError(t, err)

	out, err := runRepopulse(t, env, append([]string{"report", "--output", "json", "--view", "kpis"}, targetArgs(srv.URL)...)...)
	require.NoError(t, err)
	var got struct {
		KPIs schema.KPIs          `json:"kpis"`
		Meta schema.DashboardMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, schema.CacheHit, got.Meta.Cache)
	assert.Equal(t, 1, got.KPIs.TotalIssues)
	assert.EqualValues(t, 1, listings.Load())

	out, err = runRepopulse(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache Backend: "+backend)
}
