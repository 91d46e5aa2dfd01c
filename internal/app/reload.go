package app

import (
	"context"
	"fmt"

	"github.com/leslieo2/status-lights/internal/config"
	"github.com/leslieo2/status-lights/internal/observability"
	"github.com/leslieo2/status-lights/internal/statuspage"
)

// NewFetcher builds the status page client described by cfg.
func NewFetcher(cfg *config.Config) *statuspage.Client {
	return statuspage.NewClient(statuspage.Config{
		URL:           cfg.Source.SummaryURL,
		AggregateName: cfg.Source.AggregateName,
		Timeout:       cfg.Source.Timeout,
		UserAgent:     cfg.Source.UserAgent,
		CacheTTL:      cfg.Cache.TTL,
	})
}

// SettingsFromConfig extracts the runtime settings from cfg. A new fetcher
// is only built when the source section differs from previous.
func SettingsFromConfig(cfg, previous *config.Config) Settings {
	settings := Settings{
		Interval:     cfg.Refresh.Interval,
		ManualRate:   cfg.Refresh.ManualRate,
		ManualBurst:  cfg.Refresh.ManualBurst,
		SkipInFlight: cfg.Refresh.SkipInFlight,
	}
	if previous == nil || previous.Source != cfg.Source || previous.Cache != cfg.Cache {
		settings.Fetcher = NewFetcher(cfg)
	}
	return settings
}

// ConfigReloader re-reads the configuration file and applies what can change
// without a restart: the source, the refresh settings and the log level.
type ConfigReloader struct {
	path       string
	flags      *config.CLIFlags
	controller *Controller
	logger     *observability.Logger
	current    *config.Config
}

func NewConfigReloader(path string, flags *config.CLIFlags, current *config.Config, controller *Controller, logger *observability.Logger) *ConfigReloader {
	return &ConfigReloader{
		path:       path,
		flags:      flags,
		controller: controller,
		logger:     logger,
		current:    current,
	}
}

func (r *ConfigReloader) Name() string {
	return "config"
}

// Reload keeps the running configuration when the new one is invalid.
func (r *ConfigReloader) Reload(ctx context.Context) error {
	next, err := config.LoadConfig(r.path, r.flags)
	if err != nil {
		return fmt.Errorf("reload %s: %w", r.path, err)
	}

	if err := r.controller.Apply(ctx, SettingsFromConfig(next, r.current)); err != nil {
		return err
	}

	r.current = next
	return r.logger.SetLevel(next.Observability.Logging.Level)
}
