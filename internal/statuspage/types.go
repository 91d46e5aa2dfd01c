package statuspage

import (
	"errors"
	"sort"
	"time"
)

// ErrFetch is the single failure category of a fetch. Transport errors, bad
// status codes and malformed payloads all wrap it.
var ErrFetch = errors.New("statuspage: fetch failed")

// Status is the raw health token of one component as reported upstream.
type Status string

const (
	StatusOperational         Status = "operational"
	StatusDegradedPerformance Status = "degraded_performance"
	StatusPartialOutage       Status = "partial_outage"
	StatusMajorOutage         Status = "major_outage"
	StatusUnderMaintenance    Status = "under_maintenance"
)

// Service is one named component and its status.
type Service struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// Snapshot is the complete name to status mapping of the tracked services at
// one point in time.
type Snapshot struct {
	Services    map[string]Status `json:"services"`
	Description string            `json:"description,omitempty"`
	FetchedAt   time.Time         `json:"fetched_at"`
}

// Len returns the number of tracked services.
func (s Snapshot) Len() int {
	return len(s.Services)
}

// Sorted returns the services in ascending name order.
func (s Snapshot) Sorted() []Service {
	services := make([]Service, 0, len(s.Services))
	for name, status := range s.Services {
		services = append(services, Service{Name: name, Status: status})
	}
	sort.Slice(services, func(i, j int) bool {
		return services[i].Name < services[j].Name
	})
	return services
}

// Equal reports whether both snapshots track the same services with the same
// statuses. Metadata is ignored.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.Services) != len(other.Services) {
		return false
	}
	for name, status := range s.Services {
		if got, ok := other.Services[name]; !ok || got != status {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	services := make(map[string]Status, len(s.Services))
	for name, status := range s.Services {
		services[name] = status
	}
	s.Services = services
	return s
}
