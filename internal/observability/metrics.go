package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leslieo2/status-lights/internal/statuspage"
)

// Metrics is safe to use through a nil pointer; every recorder is then a no-op.
type Metrics struct {
	FetchTotal             *prometheus.CounterVec
	FetchDuration          prometheus.Histogram
	ComponentStatus        *prometheus.GaugeVec
	ComponentsTracked      prometheus.Gauge
	LastSuccess            prometheus.Gauge
	HealthStatus           prometheus.Gauge
	ManualRefreshThrottled prometheus.Counter

	registry *prometheus.Registry
	handler  http.Handler
}

func NewMetrics() *Metrics {
	return &Metrics{
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "status_lights_fetch_total",
				Help: "Total number of status page fetches by outcome",
			},
			[]string{"outcome"},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "status_lights_fetch_duration_seconds",
				Help:    "Status page fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ComponentStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "status_lights_component_status",
				Help: "Current status of each tracked component (1 for the reported status)",
			},
			[]string{"component", "status"},
		),
		ComponentsTracked: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "status_lights_components_tracked",
				Help: "Number of components in the current snapshot",
			},
		),
		LastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "status_lights_last_success_timestamp_seconds",
				Help: "Unix time of the last successful fetch",
			},
		),
		HealthStatus: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "app_health_status",
				Help: "Application health status (1 = healthy, 0 = unhealthy)",
			},
		),
		ManualRefreshThrottled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "status_lights_manual_refresh_throttled_total",
				Help: "Manual refresh requests dropped by the rate limiter",
			},
		),
	}
}

// RecordFetch counts one fetch attempt and, for attempts that reached the
// network, its duration.
func (m *Metrics) RecordFetch(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(outcome).Inc()
	if duration > 0 {
		m.FetchDuration.Observe(duration.Seconds())
	}
}

// RecordSnapshot replaces the per-component gauges with the snapshot's contents.
func (m *Metrics) RecordSnapshot(snapshot statuspage.Snapshot) {
	if m == nil {
		return
	}
	m.ComponentStatus.Reset()
	for _, service := range snapshot.Sorted() {
		m.ComponentStatus.WithLabelValues(service.Name, string(service.Status)).Set(1)
	}
	m.ComponentsTracked.Set(float64(snapshot.Len()))
	if !snapshot.FetchedAt.IsZero() {
		m.LastSuccess.Set(float64(snapshot.FetchedAt.Unix()))
	}
}

func (m *Metrics) RecordThrottled() {
	if m == nil {
		return
	}
	m.ManualRefreshThrottled.Inc()
}

func (m *Metrics) SetHealthStatus(healthy bool) {
	if m == nil {
		return
	}
	if healthy {
		m.HealthStatus.Set(1)
	} else {
		m.HealthStatus.Set(0)
	}
}

func (m *Metrics) Handler() http.Handler {
	if m.handler != nil {
		return m.handler
	}
	return promhttp.Handler()
}

func (m *Metrics) Register() error {
	m.registry = prometheus.NewRegistry()

	collectors := []prometheus.Collector{
		m.FetchTotal,
		m.FetchDuration,
		m.ComponentStatus,
		m.ComponentsTracked,
		m.LastSuccess,
		m.HealthStatus,
		m.ManualRefreshThrottled,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return err
		}
	}

	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})

	return nil
}
