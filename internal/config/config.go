package config

import (
	"errors"
	"time"
)

// Config represents the unified configuration structure
type Config struct {
	Source        SourceConfig        `json:"source" yaml:"source"`
	Refresh       RefreshConfig       `json:"refresh" yaml:"refresh"`
	Cache         CacheConfig         `json:"cache" yaml:"cache"`
	HotReload     HotReloadConfig     `json:"hot_reload" yaml:"hot_reload"`
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`
	Headless      bool                `json:"headless" yaml:"headless"`
}

// SourceConfig describes the status page being polled
type SourceConfig struct {
	SummaryURL    string        `json:"summary_url" yaml:"summary_url"`
	PageURL       string        `json:"page_url" yaml:"page_url"`
	AggregateName string        `json:"aggregate_name" yaml:"aggregate_name"`
	Timeout       time.Duration `json:"timeout" yaml:"timeout"`
	UserAgent     string        `json:"user_agent" yaml:"user_agent"`
}

// RefreshConfig controls when fetches happen
type RefreshConfig struct {
	Interval     time.Duration `json:"interval" yaml:"interval"`
	ManualRate   float64       `json:"manual_rate" yaml:"manual_rate"`
	ManualBurst  int           `json:"manual_burst" yaml:"manual_burst"`
	SkipInFlight bool          `json:"skip_in_flight" yaml:"skip_in_flight"`
}

// CacheConfig controls the response validator cache
type CacheConfig struct {
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// Validate validates the source configuration
func (s *SourceConfig) Validate() error {
	var errs []error

	if err := validateURL(s.SummaryURL, "summary_url"); err != nil {
		errs = append(errs, err)
	}
	if err := validateURL(s.PageURL, "page_url"); err != nil {
		errs = append(errs, err)
	}
	if s.AggregateName == "" {
		errs = append(errs, errors.New("aggregate_name cannot be empty"))
	}
	if s.Timeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate validates the refresh configuration
func (r *RefreshConfig) Validate() error {
	var errs []error

	if r.Interval < time.Second {
		errs = append(errs, errors.New("interval must be at least 1s"))
	}
	if r.ManualRate < 0 {
		errs = append(errs, errors.New("manual_rate must be non-negative"))
	}
	if r.ManualRate > 0 && r.ManualBurst < 1 {
		errs = append(errs, errors.New("manual_burst must be at least 1 when manual_rate is set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate validates the cache configuration
func (c *CacheConfig) Validate() error {
	if c.TTL <= 0 {
		return errors.New("ttl must be positive")
	}
	return nil
}
