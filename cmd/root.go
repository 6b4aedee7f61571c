package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/huangsam/repopulse/core"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/internal/iocache"
	"github.com/huangsam/repopulse/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// cacheManager is the global persistence manager instance.
var cacheManager contract.CacheManager

// logger is the structured logger built from the validated config.
var logger = zap.NewNop().Sugar()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "repopulse",
	Short:              "Dashboard analytics for repository issues and pull requests.",
	Long:               `Repopulse turns a repository's issues and pull requests into throughput, cycle time, aging and contributor views, backed by a local snapshot cache.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in the env file, config file and ENV variables if set.
func initConfig() {
	loadEnvFile()
	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("REPOPULSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Conventional CI variables act as fallbacks for the target.
	bindEnvFallback("token", "REPOPULSE_TOKEN", "GITHUB_TOKEN")
	bindEnvFallback("repository", "REPOPULSE_REPOSITORY", "GITHUB_REPOSITORY")
	bindEnvFallback("owner", "REPOPULSE_OWNER", "GITHUB_OWNER")
	bindEnvFallback("repo", "REPOPULSE_REPO", "GITHUB_REPO")

	// Set defaults in Viper
	viper.SetDefault("lookback", contract.DefaultLookback)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("view", schema.AllView)
	viper.SetDefault("cache-backend", schema.FileBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("cache-file", "")
	viper.SetDefault("merge-policy", schema.LastWriteWins)
	viper.SetDefault("aging-policy", schema.OpenAgePolicy)
	viper.SetDefault("label-deny", "")
	viper.SetDefault("listen", contract.DefaultListenAddr)
	viper.SetDefault("request-timeout", contract.DefaultRequestTimeout.String())
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("log-format", contract.DefaultLogFormat)
	viper.SetDefault("color", "yes")
}

// loadEnvFile loads the .env file into the process environment. Variables
// that are already set win. A missing default file is fine.
func loadEnvFile() {
	envFile := viper.GetString("env-file")
	if envFile == "" {
		envFile = contract.DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !viper.IsSet("env-file") {
			return
		}
		contract.LogWarn("Could not load env file", err)
	}
}

// setConfigFile points viper at --config or the default .repopulse locations.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".repopulse") // Name of config file (without extension)
	viper.SetConfigType("yaml")       // We'll use YAML format
	viper.AddConfigPath(".")          // Look in the current directory
	viper.AddConfigPath("$HOME")      // Look in the home directory
}

// bindEnvFallback binds key to the first set variable among envs.
func bindEnvFallback(key string, envs ...string) {
	if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
		contract.LogFatal("Error binding env for "+key, err)
	}
}

// readConfigFile merges the config file when one exists.
func readConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and initializes the cache and logger.
func sharedSetup(_ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := readConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	color.NoColor = !cfg.UseColors

	log, err := contract.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger = log

	// 4. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.CacheFile); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	if cacheManager == nil {
		cacheManager = iocache.Manager
	}
	return nil
}

// newService builds the dashboard service from the validated config.
func newService() (*core.DashboardService, error) {
	return core.NewServiceFromConfig(cfg, cacheManager, logger)
}

// runExecutor wires the service and runs one of the core entry points.
func runExecutor(ctx context.Context, exec core.ExecutorFunc) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	return exec(ctx, cfg, svc)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	_ = logger.Sync()
}
