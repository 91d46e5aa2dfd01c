package config

import (
	"time"

	"github.com/leslieo2/status-lights/internal/constants"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Source:        DefaultSourceConfig(),
		Refresh:       DefaultRefreshConfig(),
		Cache:         CacheConfig{TTL: constants.DefaultCacheTTL},
		HotReload:     DefaultHotReloadConfig(),
		Observability: DefaultObservabilityConfig(),
		Headless:      false,
	}
}

// DefaultSourceConfig returns the GitHub status page configuration
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		SummaryURL:    constants.DefaultSummaryURL,
		PageURL:       constants.DefaultPageURL,
		AggregateName: constants.DefaultAggregateName,
		Timeout:       constants.DefaultFetchTimeout,
		UserAgent:     constants.DefaultUserAgent,
	}
}

// DefaultRefreshConfig returns the default refresh configuration
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Interval:     constants.DefaultRefreshInterval,
		ManualRate:   constants.DefaultManualRate,
		ManualBurst:  constants.DefaultManualBurst,
		SkipInFlight: true,
	}
}

// DefaultObservabilityConfig returns the default observability configuration
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    "9464",
			Path:    constants.PathMetrics,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			ServiceName: "status-lights",
			Version:     "1.0.0",
			Environment: "development",
		},
	}
}

// DefaultHotReloadConfig returns default hot reload configuration
func DefaultHotReloadConfig() HotReloadConfig {
	return HotReloadConfig{
		Enabled:  false,
		Debounce: 500 * time.Millisecond,
	}
}
