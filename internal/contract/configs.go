package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/hubtrend/internal/hubclient"
	"github.com/huangsam/hubtrend/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit   = 10
	MaxResultLimit       = 1000
	DefaultTargetedLimit = hubclient.DefaultTargetedLimit
	MaxTargetedLimit     = 1000
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DateFormat is the representation of snapshot and prediction days.
const DateFormat = time.DateOnly

// ValidLogLevels lists the accepted log levels.
var ValidLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// ValidLogFormats lists the accepted log formats.
var ValidLogFormats = map[string]struct{}{
	"console": {},
	"json":    {},
}

// Config holds the runtime configuration for a hubtrend run.
// This struct remains the "final, validated" config.
type Config struct {
	BaseURL string
	Token   string // Please use HF_TOKEN as this is plaintext
	Timeout time.Duration

	ResultLimit   int // Number of top models shown in summaries
	TargetedLimit int
	Task          string
	Library       string

	Output     schema.OutputMode
	OutputFile string

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat string

	SkipMissingID bool // Drop records without an identifier instead of merging them under one key
	Snapshot      bool // Write a daily snapshot per ingested model
	UseColors     bool // Enable colored labels in table output
	Width         int  // Terminal width override (0 = auto-detect)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	TaskStr    string
	LibraryStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	BaseURL        string `mapstructure:"base-url"`
	Token          string `mapstructure:"token"`
	Timeout        string `mapstructure:"timeout"`
	Limit          int    `mapstructure:"limit"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`
	LogLevel       string `mapstructure:"log-level"`
	LogFormat      string `mapstructure:"log-format"`
	Color          string `mapstructure:"color"`
	Width          int    `mapstructure:"width"`

	// --- Fields from fetchCmd and targetedCmd flags ---
	SkipMissingID bool `mapstructure:"skip-missing-id"`
	Snapshot      bool `mapstructure:"snapshot"`
	TargetedLimit int  `mapstructure:"targeted-limit"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ClientConfig builds the hub client configuration from the validated config.
func (c *Config) ClientConfig() hubclient.Config {
	return hubclient.Config{
		BaseURL: c.BaseURL,
		Token:   c.Token,
		Timeout: c.Timeout,
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processClientInputs(cfg, input); err != nil {
		return err
	}
	if err := processTargetedInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
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

// validateBackendConfig validates the store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := input.StoreBackend
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates output and logging fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.SkipMissingID = input.SkipMissingID
	cfg.Snapshot = input.Snapshot
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	cfg.LogLevel = strings.ToLower(input.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if _, ok := ValidLogLevels[cfg.LogLevel]; !ok {
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	cfg.LogFormat = strings.ToLower(input.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if _, ok := ValidLogFormats[cfg.LogFormat]; !ok {
		return fmt.Errorf("invalid log format '%s'. must be console or json", input.LogFormat)
	}

	return nil
}

// processClientInputs validates the endpoint, token and timeout of the hub client.
func processClientInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.BaseURL = strings.TrimSpace(input.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = hubclient.DefaultBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base-url '%s'. must be an absolute http(s) URL", input.BaseURL)
	}

	cfg.Token = strings.TrimSpace(input.Token)

	cfg.Timeout = hubclient.DefaultTimeout
	if input.Timeout != "" {
		timeout, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout '%s': %w", input.Timeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive (received %s)", input.Timeout)
		}
		cfg.Timeout = timeout
	}
	return nil
}

// processTargetedInputs handles the positional task and library of targeted runs.
func processTargetedInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Task = strings.TrimSpace(input.TaskStr)
	cfg.Library = strings.TrimSpace(input.LibraryStr)

	cfg.TargetedLimit = input.TargetedLimit
	if cfg.TargetedLimit <= 0 {
		cfg.TargetedLimit = DefaultTargetedLimit
	}
	if cfg.TargetedLimit > MaxTargetedLimit {
		return fmt.Errorf("targeted-limit cannot exceed %d (received %d)", MaxTargetedLimit, input.TargetedLimit)
	}
	return nil
}
