package observability

import "time"

// HealthStatus is the body served by the diagnostics health endpoint.
type HealthStatus struct {
	Status      string          `json:"status"`
	Timestamp   time.Time       `json:"timestamp"`
	Version     string          `json:"version"`
	Uptime      string          `json:"uptime"`
	LastSuccess *time.Time      `json:"last_success,omitempty"`
	LastError   string          `json:"last_error,omitempty"`
	Checks      map[string]bool `json:"checks"`
}

// NewHealthStatus reports healthy only when every check passed.
func NewHealthStatus(version string, started, now time.Time, checks map[string]bool) HealthStatus {
	status := "healthy"
	for _, ok := range checks {
		if !ok {
			status = "degraded"
			break
		}
	}
	return HealthStatus{
		Status:    status,
		Timestamp: now,
		Version:   version,
		Uptime:    now.Sub(started).Truncate(time.Second).String(),
		Checks:    checks,
	}
}
