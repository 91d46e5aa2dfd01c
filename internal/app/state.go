// Package app drives the refresh cycle: it schedules fetches, owns the
// resulting state and hands rendered frames to a view.
package app

import (
	"time"

	"github.com/leslieo2/status-lights/internal/statuspage"
)

// State is everything the process knows about the status page. Snapshot is
// nil until the first successful fetch.
type State struct {
	Snapshot            *statuspage.Snapshot `json:"snapshot,omitempty"`
	StartedAt           time.Time            `json:"started_at"`
	LastAttempt         time.Time            `json:"last_attempt,omitempty"`
	LastSuccess         time.Time            `json:"last_success,omitempty"`
	LastError           string               `json:"last_error,omitempty"`
	ConsecutiveFailures int                  `json:"consecutive_failures"`
}

// HasData reports whether a snapshot has been received.
func (s State) HasData() bool {
	return s.Snapshot != nil
}

func (s State) clone() State {
	if s.Snapshot != nil {
		snapshot := s.Snapshot.Clone()
		s.Snapshot = &snapshot
	}
	return s
}
