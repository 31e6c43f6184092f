package observability

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// HealthStatus is the health check response body.
type HealthStatus struct {
	Status         string `json:"status"`
	Service        string `json:"service"`
	Version        string `json:"version"`
	Timestamp      string `json:"timestamp"`
	ActiveSessions int    `json:"active_sessions"`
}

// HealthCheckHandler reports process liveness and the session count.
func HealthCheckHandler(sessionCount func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := HealthStatus{
			Status:    "healthy",
			Service:   "voice-server",
			Version:   "1.0.0",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if sessionCount != nil {
			status.ActiveSessions = sessionCount()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(status)
	}
}

// SessionLookup resolves a session id to its metrics snapshot. The function
// is injected to avoid an import cycle with the session package.
type SessionLookup func(id string) (interface{}, bool)

// SessionMetricsHandler serves per-session counters under
// /sessions/{id}/metrics. Unknown ids get a 404.
func SessionMetricsHandler(lookup SessionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Path shape: /sessions/{id}/metrics
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 3 || parts[0] != "sessions" || parts[2] != "metrics" {
			http.NotFound(w, r)
			return
		}

		snapshot, ok := lookup(parts[1])
		if !ok {
			http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(snapshot)
	}
}
