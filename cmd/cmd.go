// Package cmd defines the command-line interface for repopulse.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(primeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheExportCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("repository", "r", "", "Repository as owner/name")
	rootCmd.PersistentFlags().String("owner", "", "Repository owner (used with --repo when --repository is empty)")
	rootCmd.PersistentFlags().String("repo", "", "Repository name (used with --owner when --repository is empty)")
	rootCmd.PersistentFlags().String("token", "", "Hosting API token (prefer REPOPULSE_TOKEN or GITHUB_TOKEN)")
	rootCmd.PersistentFlags().String("api-url", "", "GitHub Enterprise API base URL")
	rootCmd.PersistentFlags().String("start", "", "Start date in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("end", "", "End date in ISO8601 or time ago (defaults to now)")
	rootCmd.PersistentFlags().String("lookback", contract.DefaultLookback, "Time window before --end when --start is empty")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("view", string(schema.AllView), "Single view to print: kpis, labels, contributors, timeline, activity, throughput, cycle-time, aging, linkage, pr-size, author, reviewer, issues, pulls")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.FileBackend), "Cache backend: file or sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for sqlite/mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-file", "", "Snapshot file for the file backend (defaults to ~/.repopulse_cache.json)")
	rootCmd.PersistentFlags().String("merge-policy", string(schema.LastWriteWins), "Merge policy: last-write-wins or newest-upstream")
	rootCmd.PersistentFlags().String("aging-policy", string(schema.OpenAgePolicy), "Issue aging policy: open-age or linked-merge")
	rootCmd.PersistentFlags().String("label-deny", "", "Comma-separated labels excluded from label frequency (replaces the default list)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Log format: console or json")
	rootCmd.PersistentFlags().String("env-file", contract.DefaultEnvFile, "Path to a .env file loaded before reading the environment")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", contract.DefaultListenAddr, "Address to listen on")
	serveCmd.Flags().String("request-timeout", contract.DefaultRequestTimeout.String(), "Per-request timeout (e.g., 30s, 2m)")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of doctorCmd to Viper
	doctorCmd.Flags().Bool("probe", false, "Call the hosting API to verify repository access")
	if err := viper.BindPFlags(doctorCmd.Flags()); err != nil {
		contract.LogFatal("Error binding doctor flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
