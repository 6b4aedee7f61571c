package contract

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/repopulse/schema"
)

// Default values for configuration.
const (
	DefaultLookback       = "90 days"
	DefaultPrecision      = 1
	DefaultListenAddr     = ":8080"
	DefaultRequestTimeout = 2 * time.Minute
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultEnvFile        = ".env"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// repositoryRe matches the owner/name shape of a repository identifier.
var repositoryRe = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?)/([A-Za-z0-9._-]+)$`)

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Repository string
	Owner      string
	Repo       string
	Token      string // Please use env var as this is plaintext
	APIURL     string

	StartTime time.Time
	EndTime   time.Time

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	View       schema.ReportView
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheFile      string

	MergePolicy   schema.MergePolicy
	AgingPolicy   schema.AgingPolicy
	LabelDenyList []string

	ListenAddr     string
	RequestTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Target ---
	Repository string `mapstructure:"repository"`
	Owner      string `mapstructure:"owner"`
	Repo       string `mapstructure:"repo"`
	Token      string `mapstructure:"token"`
	APIURL     string `mapstructure:"api-url"`

	// --- Range ---
	Start    string `mapstructure:"start"`
	End      string `mapstructure:"end"`
	Lookback string `mapstructure:"lookback"`

	// --- Output ---
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	View       string `mapstructure:"view"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	// --- Cache ---
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheFile      string `mapstructure:"cache-file"`

	// --- Aggregation ---
	MergePolicy string `mapstructure:"merge-policy"`
	AgingPolicy string `mapstructure:"aging-policy"`
	LabelDeny   string `mapstructure:"label-deny"`

	// --- Server ---
	Listen         string `mapstructure:"listen"`
	RequestTimeout string `mapstructure:"request-timeout"`

	// --- Logging ---
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.LabelDenyList != nil {
		clone.LabelDenyList = slices.Clone(c.LabelDenyList)
	}
	return &clone
}

// CloneWithTimeWindow creates a copy of the Config and sets the new StartTime and EndTime.
func (c *Config) CloneWithTimeWindow(start time.Time, end time.Time) *Config {
	clone := c.Clone()
	clone.StartTime = start
	clone.EndTime = end
	return clone
}

// DashboardRequest builds the orchestrator request from the configured target and range.
func (c *Config) DashboardRequest() schema.DashboardRequest {
	return schema.DashboardRequest{
		Repository: c.Repository,
		Start:      c.StartTime,
		End:        c.EndTime,
		Credential: c.Token,
	}
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	return ProcessAndValidateAt(cfg, input, time.Now())
}

// ProcessAndValidateAt is ProcessAndValidate with an explicit clock for relative dates.
func ProcessAndValidateAt(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input, now); err != nil {
		return err
	}
	if err := processTarget(cfg, input); err != nil {
		return err
	}
	return processPolicies(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.FileBackend, schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseRepository splits an owner/name identifier.
func ParseRepository(repository string) (owner, name string, err error) {
	m := repositoryRe.FindStringSubmatch(strings.TrimSpace(repository))
	if m == nil {
		return "", "", NewValidationError("repository", "invalid repository %q. Use the format owner/name", repository)
	}
	if m[2] == "." || m[2] == ".." {
		return "", "", NewValidationError("repository", "invalid repository name %q", m[2])
	}
	return m[1], m[2], nil
}

// ValidateDashboardRequest checks a request before any cache or upstream access.
func ValidateDashboardRequest(req schema.DashboardRequest) (owner, name string, err error) {
	if strings.TrimSpace(req.Repository) == "" {
		return "", "", NewValidationError("repository", "repository is required")
	}
	owner, name, err = ParseRepository(req.Repository)
	if err != nil {
		return "", "", err
	}
	if req.Start.IsZero() {
		return "", "", NewValidationError("startDate", "start date is required")
	}
	if req.End.IsZero() {
		return "", "", NewValidationError("endDate", "end date is required")
	}
	if req.Start.After(req.End) {
		return "", "", NewValidationError("startDate", "start time (%s) cannot be after end time (%s)",
			req.Start.Format(DateTimeFormat), req.End.Format(DateTimeFormat))
	}
	if strings.TrimSpace(req.Credential) == "" {
		return "", "", NewValidationError("credential", "a hosting API token is required")
	}
	return owner, name, nil
}

// validateBackendConfigs validates the cache backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.FileBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be file, sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	cfg.CacheFile = input.CacheFile
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// validateSimpleInputs processes and validates the output and server fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.APIURL = strings.TrimSpace(input.APIURL)

	cfg.UseColors = true
	if input.Color != "" {
		colors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = colors
	}

	if input.Precision < 0 || input.Precision > 3 {
		return fmt.Errorf("precision must be between 0 and 3 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	cfg.View = schema.ReportView(strings.ToLower(input.View))
	if cfg.View == "" {
		cfg.View = schema.AllView
	}
	if _, ok := schema.ValidReportViews[cfg.View]; !ok {
		return fmt.Errorf("invalid view '%s'", input.View)
	}
	if cfg.Output == schema.CSVOut && cfg.View == schema.AllView {
		return fmt.Errorf("csv output requires a single --view")
	}

	cfg.ListenAddr = input.Listen
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	cfg.RequestTimeout = DefaultRequestTimeout
	if input.RequestTimeout != "" {
		d, err := time.ParseDuration(input.RequestTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid request timeout '%s'", input.RequestTimeout)
		}
		cfg.RequestTimeout = d
	}

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log format '%s'. must be console or json", input.LogFormat)
	}
	return nil
}

// processTimeRange handles the date parsing and time range validation.
func processTimeRange(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.EndTime = now
	if input.End != "" {
		t, err := ParseDateInput(input.End, now, true)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		cfg.EndTime = t
	}

	if input.Start != "" {
		t, err := ParseDateInput(input.Start, now, false)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		cfg.StartTime = t
	} else {
		lookback := input.Lookback
		if lookback == "" {
			lookback = DefaultLookback
		}
		d, err := ParseLookbackDuration(lookback)
		if err != nil {
			return err
		}
		cfg.StartTime = cfg.EndTime.Add(-d)
	}

	if cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}
	return nil
}

// processTarget resolves the repository and credential. Both are optional at
// this stage because the server accepts them per request.
func processTarget(cfg *Config, input *ConfigRawInput) error {
	cfg.Token = strings.TrimSpace(input.Token)

	repository := strings.TrimSpace(input.Repository)
	if repository == "" && input.Owner != "" && input.Repo != "" {
		repository = strings.TrimSpace(input.Owner) + "/" + strings.TrimSpace(input.Repo)
	}
	if repository == "" {
		return nil
	}
	owner, name, err := ParseRepository(repository)
	if err != nil {
		return err
	}
	cfg.Repository = owner + "/" + name
	cfg.Owner = owner
	cfg.Repo = name
	return nil
}

// processPolicies validates merge and aging policies and the label deny-list.
func processPolicies(cfg *Config, input *ConfigRawInput) error {
	cfg.MergePolicy = schema.MergePolicy(strings.ToLower(input.MergePolicy))
	if cfg.MergePolicy == "" {
		cfg.MergePolicy = schema.LastWriteWins
	}
	if _, ok := schema.ValidMergePolicies[cfg.MergePolicy]; !ok {
		return fmt.Errorf("invalid merge policy '%s'. must be last-write-wins or newest-upstream", input.MergePolicy)
	}

	cfg.AgingPolicy = schema.AgingPolicy(strings.ToLower(input.AgingPolicy))
	if cfg.AgingPolicy == "" {
		cfg.AgingPolicy = schema.OpenAgePolicy
	}
	if _, ok := schema.ValidAgingPolicies[cfg.AgingPolicy]; !ok {
		return fmt.Errorf("invalid aging policy '%s'. must be open-age or linked-merge", input.AgingPolicy)
	}

	cfg.LabelDenyList = slices.Clone(schema.DefaultLabelDenyList)
	if strings.TrimSpace(input.LabelDeny) != "" {
		cfg.LabelDenyList = nil
		for p := range strings.SplitSeq(input.LabelDeny, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.LabelDenyList = append(cfg.LabelDenyList, trimmed)
			}
		}
	}
	return nil
}

// RequireTarget checks that a repository and credential are configured, for
// commands that build a dashboard without a per-request target.
func RequireTarget(cfg *Config) error {
	_, _, err := ValidateDashboardRequest(cfg.DashboardRequest())
	return err
}
