// Package server exposes the diagnostics endpoints: health, readiness,
// Prometheus metrics and the current snapshot.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/einride/clock-go/pkg/clock"
	"go.uber.org/zap"

	"github.com/leslieo2/status-lights/internal/app"
	"github.com/leslieo2/status-lights/internal/config"
	"github.com/leslieo2/status-lights/internal/constants"
	"github.com/leslieo2/status-lights/internal/observability"
)

// StateSource provides the state served by the diagnostics endpoints.
type StateSource interface {
	Current() app.State
}

type Server struct {
	config  config.MetricsConfig
	state   StateSource
	version string
	clock   clock.Clock

	logger  *zap.Logger
	metrics *observability.Metrics
	tracer  *observability.Tracer
}

// Option customises a Server.
type Option func(*Server)

// WithClock replaces the system clock used for uptime and timestamps.
func WithClock(c clock.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithTracer wraps each diagnostics request in a span.
func WithTracer(t *observability.Tracer) Option {
	return func(s *Server) { s.tracer = t }
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

func New(cfg config.MetricsConfig, state StateSource, metrics *observability.Metrics, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		config:  cfg,
		state:   state,
		version: "dev",
		clock:   clock.System(),
		logger:  logger,
		metrics: metrics,
		tracer:  observability.NewNopTracer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Handler returns the diagnostics mux wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+constants.PathHealth, s.healthHandler)
	mux.HandleFunc("GET "+constants.PathReady, s.readinessHandler)
	mux.HandleFunc("GET "+constants.PathSnapshot, s.snapshotHandler)
	if s.metrics != nil {
		mux.Handle("GET "+s.metricsPath(), s.metrics.Handler())
	}
	return s.applyMiddleware(mux)
}

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("diagnostics listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		MaxHeaderBytes:    1 << 16,
	}

	s.logger.Info("Starting diagnostics server", zap.String("address", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("diagnostics server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down diagnostics server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("diagnostics shutdown: %w", err)
	}
	return nil
}

func (s *Server) metricsPath() string {
	if s.config.Path == "" {
		return constants.PathMetrics
	}
	return s.config.Path
}

func (s *Server) now() time.Time {
	return s.clock.Now()
}
