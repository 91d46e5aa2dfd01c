package server

import (
	"net/http"

	"github.com/leslieo2/status-lights/internal/server/middleware"
)

// applyMiddleware wraps handler; the last wrapper runs first.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	handler = middleware.SecurityHeadersMiddleware(middleware.SecurityHeadersConfig{
		AllowedHosts: s.allowedHosts(),
	})(handler)

	handler = middleware.LoggingMiddleware(s.logger)(handler)

	return handler
}

// allowedHosts limits a loopback listener to loopback names. A server bound
// to any other interface accepts every Host.
func (s *Server) allowedHosts() []string {
	switch s.config.Host {
	case "127.0.0.1", "localhost", "::1":
		return []string{"127.0.0.1", "localhost", "::1"}
	default:
		return nil
	}
}
