package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leslieo2/status-lights/internal/app"
	"github.com/leslieo2/status-lights/internal/config"
	"github.com/leslieo2/status-lights/internal/hotreload"
	"github.com/leslieo2/status-lights/internal/lights"
	"github.com/leslieo2/status-lights/internal/observability"
	"github.com/leslieo2/status-lights/internal/server"
	"github.com/leslieo2/status-lights/internal/tray"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	pflag.Usage = printUsage
	flags := config.BindFlags(pflag.CommandLine)
	pflag.Parse()

	// Load configuration with precedence (CLI > Env > File > Defaults)
	cfg, err := config.LoadConfig(*flags.ConfigFile, flags)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Observability.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, flags, logger); err != nil {
		logger.Error("Exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, flags *config.CLIFlags, logger *observability.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var metrics *observability.Metrics
	if cfg.Observability.Metrics.Enabled {
		metrics = observability.NewMetrics()
		if err := metrics.Register(); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}

	tracer, err := observability.NewTracer(cfg.Observability.Tracing)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to shut down tracer", zap.Error(err))
		}
	}()

	presenter := lights.NewPresenter()

	// The controller needs its view up front, and the tray needs the
	// controller for refresh clicks, so the tray forwards through refresher.
	var refresher refreshFunc
	var view app.View
	var menu *tray.Tray
	if cfg.Headless {
		view = app.NewLogView(logger.Logger)
	} else {
		menu = tray.New(cfg.Source.PageURL, presenter.Slots(), &refresher, logger.Logger)
		view = menu
	}

	controller, err := app.New(app.Config{
		Fetcher:      app.NewFetcher(cfg),
		View:         view,
		Presenter:    presenter,
		Logger:       logger.Logger,
		Metrics:      metrics,
		Tracer:       tracer,
		Interval:     cfg.Refresh.Interval,
		ManualRate:   cfg.Refresh.ManualRate,
		ManualBurst:  cfg.Refresh.ManualBurst,
		SkipInFlight: cfg.Refresh.SkipInFlight,
	})
	if err != nil {
		return err
	}
	refresher.fn = controller.Refresh

	logger.Info("Starting status lights",
		zap.String("version", version),
		zap.String("summary_url", cfg.Source.SummaryURL),
		zap.Duration("interval", cfg.Refresh.Interval),
		zap.Bool("headless", cfg.Headless),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return controller.Run(ctx)
	})

	if cfg.Observability.Metrics.Enabled {
		diagnostics := server.New(cfg.Observability.Metrics, controller, metrics, logger.Logger,
			server.WithTracer(tracer),
			server.WithVersion(version),
		)
		g.Go(func() error {
			return diagnostics.Start(ctx)
		})
	}

	if cfg.HotReload.Enabled && *flags.ConfigFile != "" {
		manager, err := newHotReload(cfg, flags, controller, logger)
		if err != nil {
			cancel()
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			return manager.Run(ctx)
		})
	}

	if menu != nil {
		// systray owns the main goroutine until Quit or cancellation.
		menu.Run(ctx, cancel)
		cancel()
	}

	err = g.Wait()
	logger.Info("Stopped")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newHotReload(cfg *config.Config, flags *config.CLIFlags, controller *app.Controller, logger *observability.Logger) (*hotreload.Manager, error) {
	manager, err := hotreload.NewManager(logger.Logger)
	if err != nil {
		return nil, fmt.Errorf("create hot reload manager: %w", err)
	}
	manager.SetDebounceTime(cfg.HotReload.Debounce)

	if err := manager.AddWatch(*flags.ConfigFile); err != nil {
		manager.Close()
		return nil, fmt.Errorf("watch %s: %w", *flags.ConfigFile, err)
	}
	reloader := app.NewConfigReloader(*flags.ConfigFile, flags, cfg, controller, logger)
	if err := manager.RegisterReloadable(reloader); err != nil {
		manager.Close()
		return nil, fmt.Errorf("register config reloader: %w", err)
	}

	logger.Info("Hot reload enabled", zap.String("config", *flags.ConfigFile))
	return manager, nil
}

type refreshFunc struct {
	fn func() bool
}

func (r *refreshFunc) Refresh() bool {
	if r.fn == nil {
		return false
	}
	return r.fn()
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nShows the component status of a status page as colored lights in the menu bar.\n")
	fmt.Fprintf(os.Stderr, "\nFlags:\n")
	pflag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nEnvironment variables:\n")
	fmt.Fprintf(os.Stderr, "  STATUS_LIGHTS_SUMMARY_URL, STATUS_LIGHTS_PAGE_URL, STATUS_LIGHTS_AGGREGATE_NAME\n")
	fmt.Fprintf(os.Stderr, "  STATUS_LIGHTS_TIMEOUT, STATUS_LIGHTS_USER_AGENT, STATUS_LIGHTS_INTERVAL\n")
	fmt.Fprintf(os.Stderr, "  STATUS_LIGHTS_SKIP_IN_FLIGHT, STATUS_LIGHTS_CACHE_TTL\n")
	fmt.Fprintf(os.Stderr, "  STATUS_LIGHTS_LOG_LEVEL, STATUS_LIGHTS_LOG_FORMAT\n")
	fmt.Fprintf(os.Stderr, "  STATUS_LIGHTS_METRICS_ENABLED, STATUS_LIGHTS_METRICS_PORT, STATUS_LIGHTS_TRACING_ENABLED\n")
	fmt.Fprintf(os.Stderr, "  STATUS_LIGHTS_HOT_RELOAD, STATUS_LIGHTS_HOT_RELOAD_DEBOUNCE\n")
	fmt.Fprintf(os.Stderr, "\nExample usage:\n")
	fmt.Fprintf(os.Stderr, "  %s\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --headless --log-level debug\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --config ./status-lights.yaml --hot-reload --metrics-enabled\n", os.Args[0])
}
