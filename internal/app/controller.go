package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/einride/clock-go/pkg/clock"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/leslieo2/status-lights/internal/constants"
	"github.com/leslieo2/status-lights/internal/lights"
	"github.com/leslieo2/status-lights/internal/observability"
	"github.com/leslieo2/status-lights/internal/statuspage"
	"github.com/leslieo2/status-lights/internal/throttle"
)

// ErrStopped is returned by Apply once Run has returned.
var ErrStopped = errors.New("app: controller stopped")

// Fetcher retrieves one snapshot of the status page.
type Fetcher interface {
	Fetch(ctx context.Context) (snapshot statuspage.Snapshot, notModified bool, err error)
}

// Config contains the dependencies of a controller. Fetcher and View are
// required; the rest default to production values.
type Config struct {
	Fetcher      Fetcher
	View         View
	Presenter    *lights.Presenter
	Clock        clock.Clock
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Tracer       *observability.Tracer
	Interval     time.Duration
	ManualRate   float64
	ManualBurst  int
	SkipInFlight bool
}

// Settings are the parts of the configuration that can change while running.
type Settings struct {
	// Fetcher replaces the current fetcher when non-nil and triggers a fetch.
	// Results still outstanding from the previous fetcher are discarded.
	Fetcher      Fetcher
	Interval     time.Duration
	ManualRate   float64
	ManualBurst  int
	SkipInFlight bool
}

type fetchResult struct {
	snapshot    statuspage.Snapshot
	notModified bool
	err         error
	trigger     string
	fetchID     string
	generation  uint64
	duration    time.Duration
}

// Controller owns the application state. Run is the only goroutine that
// mutates it; other goroutines read the copy returned by Current.
type Controller struct {
	presenter *lights.Presenter
	view      View
	clock     clock.Clock
	logger    *zap.Logger
	metrics   *observability.Metrics
	tracer    *observability.Tracer
	limiter   *throttle.Limiter

	refresh  chan struct{}
	results  chan fetchResult
	settings chan Settings
	done     chan struct{}
	current  atomic.Value

	// mutable, only accessible by the controller goroutine
	state        State
	fetcher      Fetcher
	interval     time.Duration
	skipInFlight bool
	// generation counts fetcher swaps; inFlight only counts fetches of the
	// current generation.
	generation uint64
	inFlight   int
}

// New creates a controller. It does not start fetching until Run is called.
func New(cfg Config) (*Controller, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("app: fetcher is required")
	}
	if cfg.View == nil {
		return nil, errors.New("app: view is required")
	}
	if cfg.Presenter == nil {
		cfg.Presenter = lights.NewPresenter()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = observability.NewNopTracer()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = constants.DefaultRefreshInterval
	}

	c := &Controller{
		presenter:    cfg.Presenter,
		view:         cfg.View,
		clock:        cfg.Clock,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		tracer:       cfg.Tracer,
		limiter:      throttle.NewLimiter(cfg.ManualRate, cfg.ManualBurst).WithClock(cfg.Clock),
		refresh:      make(chan struct{}, 1),
		results:      make(chan fetchResult, 1),
		settings:     make(chan Settings),
		done:         make(chan struct{}),
		state:        State{StartedAt: cfg.Clock.Now()},
		fetcher:      cfg.Fetcher,
		interval:     cfg.Interval,
		skipInFlight: cfg.SkipInFlight,
	}
	c.current.Store(c.state)
	return c, nil
}

// Current returns a copy of the latest published state.
func (c *Controller) Current() State {
	return c.current.Load().(State)
}

// Refresh requests a fetch outside the schedule. It never blocks. It reports
// false when the request was throttled or one is already queued.
func (c *Controller) Refresh() bool {
	if !c.limiter.Allow() {
		c.metrics.RecordThrottled()
		c.logger.Debug("Manual refresh throttled")
		return false
	}
	select {
	case c.refresh <- struct{}{}:
		return true
	default:
		return false
	}
}

// Apply hands new settings to the running controller.
func (c *Controller) Apply(ctx context.Context, settings Settings) error {
	select {
	case c.settings <- settings:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run renders the loading frame, fetches once immediately and then on every
// tick until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)

	c.render()
	c.startFetch(ctx, "startup")

	ticker := c.clock.NewTicker(c.interval)
	defer func() { ticker.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			c.startFetch(ctx, "tick")
		case <-c.refresh:
			c.startFetch(ctx, "manual")
		case result := <-c.results:
			c.handleResult(result)
		case settings := <-c.settings:
			if c.applySettings(settings) {
				ticker.Stop()
				ticker = c.clock.NewTicker(c.interval)
			}
			if settings.Fetcher != nil {
				c.startFetch(ctx, "reload")
			}
		}
	}
}

func (c *Controller) startFetch(ctx context.Context, trigger string) {
	if c.skipInFlight && c.inFlight > 0 {
		c.metrics.RecordFetch(constants.OutcomeSkipped, 0)
		c.logger.Debug("Fetch skipped, previous fetch still in flight", zap.String("trigger", trigger))
		return
	}
	c.inFlight++

	fetcher := c.fetcher
	generation := c.generation
	fetchID := uuid.NewString()
	go func() {
		started := c.clock.Now()
		ctx, span := c.tracer.StartSpan(ctx, "statuspage.fetch",
			attribute.String("trigger", trigger),
			attribute.String("fetch_id", fetchID))
		snapshot, notModified, err := fetcher.Fetch(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch failed")
		}
		span.SetAttributes(attribute.Bool("not_modified", notModified))
		span.End()

		result := fetchResult{
			snapshot:    snapshot,
			notModified: notModified,
			err:         err,
			trigger:     trigger,
			fetchID:     fetchID,
			generation:  generation,
			duration:    c.clock.Now().Sub(started),
		}
		select {
		case c.results <- result:
		case <-ctx.Done():
		}
	}()
}

func (c *Controller) handleResult(result fetchResult) {
	if result.generation != c.generation {
		c.metrics.RecordFetch(constants.OutcomeDiscarded, result.duration)
		c.logger.Debug("Discarded result of replaced fetcher",
			zap.String("trigger", result.trigger),
			zap.String("fetch_id", result.fetchID))
		return
	}
	c.inFlight--
	c.state.LastAttempt = c.clock.Now()

	if result.err != nil {
		c.state.LastError = result.err.Error()
		c.state.ConsecutiveFailures++
		c.metrics.RecordFetch(constants.OutcomeError, result.duration)
		c.metrics.SetHealthStatus(false)
		c.logger.Debug("Fetch failed",
			zap.String("trigger", result.trigger),
			zap.String("fetch_id", result.fetchID),
			zap.Int("consecutive_failures", c.state.ConsecutiveFailures),
			zap.Error(result.err))
		c.publish()
		return
	}

	outcome := constants.OutcomeSuccess
	if result.notModified {
		outcome = constants.OutcomeNotModified
	}
	c.metrics.RecordFetch(outcome, result.duration)
	c.metrics.RecordSnapshot(result.snapshot)
	c.metrics.SetHealthStatus(true)

	c.logChanges(c.state.Snapshot, result.snapshot)

	snapshot := result.snapshot
	c.state.Snapshot = &snapshot
	c.state.LastSuccess = snapshot.FetchedAt
	c.state.LastError = ""
	c.state.ConsecutiveFailures = 0

	c.publish()
	c.render()
}

// applySettings reports whether the interval changed.
func (c *Controller) applySettings(settings Settings) bool {
	if settings.Fetcher != nil {
		c.fetcher = settings.Fetcher
		c.generation++
		c.inFlight = 0
	}
	c.skipInFlight = settings.SkipInFlight
	c.limiter.SetRate(settings.ManualRate, settings.ManualBurst)

	if settings.Interval <= 0 || settings.Interval == c.interval {
		return false
	}
	c.logger.Info("Refresh interval changed",
		zap.Duration("from", c.interval),
		zap.Duration("to", settings.Interval))
	c.interval = settings.Interval
	return true
}

func (c *Controller) logChanges(previous *statuspage.Snapshot, next statuspage.Snapshot) {
	if previous != nil && previous.Equal(next) {
		return
	}
	for _, service := range next.Sorted() {
		if previous != nil && previous.Services[service.Name] == service.Status {
			continue
		}
		c.logger.Info("Component status",
			zap.String("component", service.Name),
			zap.String("status", string(service.Status)))
	}
}

func (c *Controller) render() {
	frame, err := c.presenter.Render(c.state.Snapshot)
	if err != nil {
		c.logger.Error("Failed to render frame", zap.Error(err))
		return
	}
	c.view.Show(frame)
}

func (c *Controller) publish() {
	c.current.Store(c.state.clone())
}
