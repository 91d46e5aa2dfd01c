package middleware

import (
	"encoding/json"
	"net"
	"net/http"
)

// SecurityHeadersConfig defines configuration for security headers
type SecurityHeadersConfig struct {
	// AllowedHosts restricts the Host header, port excluded. Empty allows all.
	AllowedHosts []string
}

// SecurityHeadersMiddleware sets defensive response headers and rejects
// requests addressed to hosts outside AllowedHosts, which stops DNS rebinding
// against a loopback listener.
func SecurityHeadersMiddleware(config SecurityHeadersConfig) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(config.AllowedHosts))
	for _, host := range config.AllowedHosts {
		allowed[host] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Cache-Control", "no-store")

			if len(allowed) > 0 && !allowed[hostOnly(r.Host)] {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				response := map[string]interface{}{
					"error":   "FORBIDDEN",
					"message": "Host not allowed",
					"code":    "HOST_NOT_ALLOWED",
				}
				_ = json.NewEncoder(w).Encode(response)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hostOnly(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport
	}
	return host
}
