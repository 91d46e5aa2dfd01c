package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/leslieo2/status-lights/internal/constants"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration with precedence:
// 1. Explicit CLI flags (highest priority)
// 2. Environment variables
// 3. Configuration file values
// 4. Default configuration values (lowest priority)
func LoadConfig(configFile string, cliFlags *CLIFlags) (*Config, error) {
	config := DefaultConfig()

	if configFile != "" {
		if err := loadFromFile(configFile, config); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	loadFromEnv(config)

	if cliFlags != nil {
		overrideWithCLI(config, cliFlags)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// CLIFlags holds the values bound by BindFlags. Only flags the user set
// explicitly override other configuration sources.
type CLIFlags struct {
	ConfigFile        *string
	SummaryURL        *string
	PageURL           *string
	AggregateName     *string
	Interval          *time.Duration
	Timeout           *time.Duration
	LogLevel          *string
	LogFormat         *string
	MetricsEnabled    *bool
	MetricsPort       *string
	TracingEnabled    *bool
	HotReload         *bool
	HotReloadDebounce *time.Duration
	Headless          *bool

	set *pflag.FlagSet
}

// BindFlags registers the command line flags on fs.
func BindFlags(fs *pflag.FlagSet) *CLIFlags {
	defaults := DefaultConfig()
	return &CLIFlags{
		ConfigFile:        fs.String("config", "", "Path to a YAML or JSON configuration file"),
		SummaryURL:        fs.String("summary-url", defaults.Source.SummaryURL, "Status page summary endpoint"),
		PageURL:           fs.String("page-url", defaults.Source.PageURL, "Status page opened from the menu"),
		AggregateName:     fs.String("aggregate-name", defaults.Source.AggregateName, "Component name excluded from the display"),
		Interval:          fs.Duration("interval", defaults.Refresh.Interval, "Period between scheduled refreshes"),
		Timeout:           fs.Duration("timeout", defaults.Source.Timeout, "Timeout for a single fetch"),
		LogLevel:          fs.String("log-level", defaults.Observability.Logging.Level, "Log level (debug, info, warn, error)"),
		LogFormat:         fs.String("log-format", defaults.Observability.Logging.Format, "Log format (json, console)"),
		MetricsEnabled:    fs.Bool("metrics-enabled", defaults.Observability.Metrics.Enabled, "Serve the local diagnostics endpoint"),
		MetricsPort:       fs.String("metrics-port", defaults.Observability.Metrics.Port, "Port of the diagnostics endpoint"),
		TracingEnabled:    fs.Bool("tracing-enabled", defaults.Observability.Tracing.Enabled, "Export fetch traces to stdout"),
		HotReload:         fs.Bool("hot-reload", defaults.HotReload.Enabled, "Reload the config file when it changes"),
		HotReloadDebounce: fs.Duration("hot-reload-debounce", defaults.HotReload.Debounce, "Debounce for config file changes"),
		Headless:          fs.Bool("headless", defaults.Headless, "Run without a tray icon and log state changes"),
		set:               fs,
	}
}

func (f *CLIFlags) changed(name string) bool {
	if f.set == nil {
		return false
	}
	flag := f.set.Lookup(name)
	return flag != nil && flag.Changed
}

// loadFromFile decodes a YAML or JSON file over config. JSON is read with
// the YAML decoder so durations such as "30s" decode the same way in both.
func loadFromFile(filePath string, config *Config) error {
	if !filepath.IsAbs(filePath) {
		absPath, err := filepath.Abs(filePath)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for %s: %w", filePath, err)
		}
		filePath = absPath
	}

	if err := validateFilePath(filePath); err != nil {
		return fmt.Errorf("invalid config file path %s: %w", filePath, err)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".yaml", ".yml", ".json":
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 - file path validated by validateFilePath()
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(config *Config) {
	if val := os.Getenv(constants.EnvSummaryURL); val != "" {
		config.Source.SummaryURL = val
	}
	if val := os.Getenv(constants.EnvPageURL); val != "" {
		config.Source.PageURL = val
	}
	if val := os.Getenv(constants.EnvAggregateName); val != "" {
		config.Source.AggregateName = val
	}
	if val := os.Getenv(constants.EnvTimeout); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Source.Timeout = duration
		}
	}
	if val := os.Getenv(constants.EnvUserAgent); val != "" {
		config.Source.UserAgent = val
	}
	if val := os.Getenv(constants.EnvInterval); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Refresh.Interval = duration
		}
	}
	if val := os.Getenv(constants.EnvSkipInFlight); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			config.Refresh.SkipInFlight = enabled
		}
	}
	if val := os.Getenv(constants.EnvCacheTTL); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Cache.TTL = duration
		}
	}
	if val := os.Getenv(constants.EnvLogLevel); val != "" {
		config.Observability.Logging.Level = val
	}
	if val := os.Getenv(constants.EnvLogFormat); val != "" {
		config.Observability.Logging.Format = val
	}
	if val := os.Getenv(constants.EnvMetricsEnabled); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			config.Observability.Metrics.Enabled = enabled
		}
	}
	if val := os.Getenv(constants.EnvMetricsPort); val != "" {
		config.Observability.Metrics.Port = val
	}
	if val := os.Getenv(constants.EnvTracingEnabled); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			config.Observability.Tracing.Enabled = enabled
		}
	}
	if val := os.Getenv(constants.EnvHotReload); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			config.HotReload.Enabled = enabled
		}
	}
	if val := os.Getenv(constants.EnvHotReloadDebounce); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.HotReload.Debounce = duration
		}
	}
}

// overrideWithCLI overrides configuration with CLI flag values
// Only explicitly set CLI flags override other configuration sources
func overrideWithCLI(config *Config, flags *CLIFlags) {
	if flags.SummaryURL != nil && flags.changed("summary-url") {
		config.Source.SummaryURL = *flags.SummaryURL
	}
	if flags.PageURL != nil && flags.changed("page-url") {
		config.Source.PageURL = *flags.PageURL
	}
	if flags.AggregateName != nil && flags.changed("aggregate-name") {
		config.Source.AggregateName = *flags.AggregateName
	}
	if flags.Interval != nil && flags.changed("interval") {
		config.Refresh.Interval = *flags.Interval
	}
	if flags.Timeout != nil && flags.changed("timeout") {
		config.Source.Timeout = *flags.Timeout
	}

	if flags.LogLevel != nil && flags.changed("log-level") {
		config.Observability.Logging.Level = *flags.LogLevel
	}
	if flags.LogFormat != nil && flags.changed("log-format") {
		config.Observability.Logging.Format = *flags.LogFormat
	}
	if flags.MetricsEnabled != nil && flags.changed("metrics-enabled") {
		config.Observability.Metrics.Enabled = *flags.MetricsEnabled
	}
	if flags.MetricsPort != nil && flags.changed("metrics-port") {
		config.Observability.Metrics.Port = *flags.MetricsPort
	}
	if flags.TracingEnabled != nil && flags.changed("tracing-enabled") {
		config.Observability.Tracing.Enabled = *flags.TracingEnabled
	}

	if flags.HotReload != nil && flags.changed("hot-reload") {
		config.HotReload.Enabled = *flags.HotReload
	}
	if flags.HotReloadDebounce != nil && flags.changed("hot-reload-debounce") {
		config.HotReload.Debounce = *flags.HotReloadDebounce
	}
	if flags.Headless != nil && flags.changed("headless") {
		config.Headless = *flags.Headless
	}
}

// validateFilePath checks if the file path is safe to read
func validateFilePath(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains directory traversal attempts")
	}

	return nil
}
