package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/iocache"
	"github.com/huangsam/repopulse/schema"
)

// loadCacheConfig reads the cache-related config values without the full
// shared setup, so cache commands work without a repository or token.
func loadCacheConfig() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	if backend == "" {
		backend = schema.FileBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be file, sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	cfg.CacheFile = viper.GetString("cache-file")
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// cacheSetup loads minimal configuration needed for cache operations and
// opens the snapshot store.
func cacheSetup(_ *cobra.Command, _ []string) error {
	if err := loadCacheConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.CacheFile); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheConfigSetup loads the cache config but does NOT open the store, so
// clear and migrate work on a missing or fresh database.
func cacheConfigSetup(_ *cobra.Command, _ []string) error {
	return loadCacheConfig()
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by dashboard commands. This avoids target
// validation for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the issue and pull request snapshot cache",
	Long: `Manage the snapshot cache that lets dashboard requests skip the hosting API.

The cache holds every issue and pull request created inside its covered range.
A request whose range lies inside the covered range is served from the cache;
anything else is fetched and merged in, widening the covered range.

Supported backends: file (default), SQLite, MySQL, PostgreSQL, or None

Subcommands:
  status  - Show covered range, record counts and connection info
  clear   - Remove all cached data
  export  - Export cached records to Parquet files
  migrate - Apply schema migrations for database backends

Examples:
  # Check cache status
  repopulse cache status

  # Clear cache after deleting issues upstream
  repopulse cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached records",
	Long: `Delete the snapshot from the configured backend.

Use this when:
- Records were deleted or transferred upstream
- The snapshot file is corrupt and reads keep failing
- Switching to a different repository with the same cache location

For file and SQLite: Deletes the file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear the file cache (default)
  repopulse cache clear

  # Clear MySQL cache (set connection string via env variable)
  REPOPULSE_CACHE_BACKEND=mysql REPOPULSE_CACHE_DB_CONNECT="..." repopulse cache clear`,
	PreRunE: cacheConfigSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, cfg.CacheFile, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache coverage and connection details",
	Long: `Show detailed information about the snapshot cache.

Displays:
- Backend type and connection status
- Number of cached issues and pull requests
- Covered date range and last update
- Cache size

Examples:
  # Check cache status
  repopulse cache status`,
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetSnapshotStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// cacheExportCmd exports the snapshot to Parquet.
var cacheExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cached records to Parquet files",
	Long: `Write the cached issues and pull requests to two Parquet files:
<output-file>.issues.parquet and <output-file>.pull_requests.parquet.

Examples:
  # Export for analysis in DuckDB or pandas
  repopulse cache export --output-file ./widgets`,
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteCacheExport(rootCtx, os.Stdout, iocache.Manager.GetSnapshotStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export cache", err)
		}
	},
}

// cacheMigrateCmd applies database migrations.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations for the cache table",
	Long: `Run the embedded migrations for sqlite, mysql or postgresql backends.

Examples:
  # Migrate to the latest version
  repopulse cache migrate --cache-backend sqlite

  # Roll back everything
  repopulse cache migrate --cache-backend postgresql --cache-db-connect "..." --target-version 0`,
	PreRunE: cacheConfigSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.MigrateCache(os.Stdout, cfg.CacheBackend, cfg.CacheDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to migrate cache", err)
		}
	},
}
