package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/leslieo2/status-lights/internal/constants"
	"github.com/leslieo2/status-lights/internal/observability"
)

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.StartSpan(r.Context(), "health_check")
	defer span.End()

	state := s.state.Current()
	health := observability.NewHealthStatus(s.version, state.StartedAt, s.now(), map[string]bool{
		"fetched":       state.HasData(),
		"last_fetch_ok": state.LastError == "",
	})
	if !state.LastSuccess.IsZero() {
		lastSuccess := state.LastSuccess
		health.LastSuccess = &lastSuccess
	}
	health.LastError = state.LastError

	s.writeJSON(w, http.StatusOK, health)
}

// readinessHandler reports ready once the first snapshot has arrived.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.StartSpan(r.Context(), "readiness_check")
	defer span.End()

	if s.state.Current().HasData() {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
}

func (s *Server) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	_, span := s.tracer.StartSpan(r.Context(), "snapshot")
	defer span.End()

	s.writeJSON(w, http.StatusOK, s.state.Current())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}
