package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// storePinger defines the minimal interface for word store health checks.
type storePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	store         storePinger
	remoteEnabled bool
	version       string
}

// NewHealthHandler creates a HealthHandler. store is nil when the service
// runs without a local word store.
func NewHealthHandler(store storePinger, remoteEnabled bool, version string) *HealthHandler {
	return &HealthHandler{store: store, remoteEnabled: remoteEnabled, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. The service is ready when at least one page
// source can serve: a store that answers a ping, or the remote API.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	storeOK := h.store != nil && h.store.Ping(ctx) == nil
	if !storeOK && !h.remoteEnabled {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check. Pings the store with latency measurement
// and reports whether the remote source is enabled.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus)
	storeOK := false

	switch {
	case h.store == nil:
		components["store"] = CompStatus{Status: "disabled"}
	default:
		start := time.Now()
		err := h.store.Ping(ctx)
		latency := time.Since(start)
		if err != nil {
			components["store"] = CompStatus{Status: "down"}
		} else {
			storeOK = true
			components["store"] = CompStatus{Status: "ok", Latency: latency.String()}
		}
	}

	if h.remoteEnabled {
		components["remote"] = CompStatus{Status: "enabled"}
	} else {
		components["remote"] = CompStatus{Status: "disabled"}
	}

	overall, status := "ok", http.StatusOK
	switch {
	case storeOK:
	case h.remoteEnabled:
		overall = "degraded"
	default:
		overall, status = "down", http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
