package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}

	if cfg.Refresh.Interval != 300*time.Second {
		t.Errorf("Refresh.Interval got %v, want 300s", cfg.Refresh.Interval)
	}
	if cfg.Source.AggregateName != "GitHub Status" {
		t.Errorf("Source.AggregateName got %q", cfg.Source.AggregateName)
	}
	if !cfg.Refresh.SkipInFlight {
		t.Error("in-flight guard should be on by default")
	}
	if cfg.Observability.Metrics.Enabled || cfg.Observability.Tracing.Enabled {
		t.Error("metrics and tracing should be off by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "Valid Config",
			mutate: func(*Config) {},
		},
		{
			name:    "Relative summary URL",
			mutate:  func(c *Config) { c.Source.SummaryURL = "/api/v2/summary.json" },
			wantErr: true,
		},
		{
			name:    "Non-http page URL",
			mutate:  func(c *Config) { c.Source.PageURL = "file:///tmp/status.html" },
			wantErr: true,
		},
		{
			name:    "Empty aggregate name",
			mutate:  func(c *Config) { c.Source.AggregateName = "" },
			wantErr: true,
		},
		{
			name:    "Zero timeout",
			mutate:  func(c *Config) { c.Source.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "Interval below one second",
			mutate:  func(c *Config) { c.Refresh.Interval = 10 * time.Millisecond },
			wantErr: true,
		},
		{
			name:    "Negative manual rate",
			mutate:  func(c *Config) { c.Refresh.ManualRate = -1 },
			wantErr: true,
		},
		{
			name:    "Rate without burst",
			mutate:  func(c *Config) { c.Refresh.ManualBurst = 0 },
			wantErr: true,
		},
		{
			name: "Unlimited manual refresh",
			mutate: func(c *Config) {
				c.Refresh.ManualRate = 0
				c.Refresh.ManualBurst = 0
			},
		},
		{
			name:    "Zero cache TTL",
			mutate:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: true,
		},
		{
			name:    "Negative debounce",
			mutate:  func(c *Config) { c.HotReload.Debounce = -time.Second },
			wantErr: true,
		},
		{
			name:    "Invalid log level",
			mutate:  func(c *Config) { c.Observability.Logging.Level = "trace" },
			wantErr: true,
		},
		{
			name:    "Invalid log format",
			mutate:  func(c *Config) { c.Observability.Logging.Format = "xml" },
			wantErr: true,
		},
		{
			name: "Metrics port ignored while disabled",
			mutate: func(c *Config) {
				c.Observability.Metrics.Port = "0"
			},
		},
		{
			name: "Invalid metrics port",
			mutate: func(c *Config) {
				c.Observability.Metrics.Enabled = true
				c.Observability.Metrics.Port = "70000"
			},
			wantErr: true,
		},
		{
			name: "Tracing without service name",
			mutate: func(c *Config) {
				c.Observability.Tracing.Enabled = true
				c.Observability.Tracing.ServiceName = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		wantErr bool
	}{
		{"valid", "9464", false},
		{"empty", "", true},
		{"not a number", "abc", true},
		{"too low", "0", true},
		{"too high", "65536", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validatePort(tt.port, "port"); (err != nil) != tt.wantErr {
				t.Errorf("validatePort(%q) error = %v, wantErr %v", tt.port, err, tt.wantErr)
			}
		})
	}
}

func TestMetricsConfig_Address(t *testing.T) {
	m := MetricsConfig{Host: "127.0.0.1", Port: "9464"}
	if got := m.Address(); got != "127.0.0.1:9464" {
		t.Errorf("Address() got %q", got)
	}
}
