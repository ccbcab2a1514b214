package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/JinxSeven/Risk-360/internal/connectivity"
	"github.com/JinxSeven/Risk-360/internal/grc"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	Mode       string                `json:"mode"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CheckedAt  time.Time      `json:"checked_at"`
	DurationMs int64          `json:"duration_ms"`
}

// HealthHandler reports the local store and the hosted backend. The local
// store is required; an unreachable backend only degrades the service to
// demo mode.
type HealthHandler struct {
	local   connectivity.Pinger
	probe   grc.Prober
	timeout time.Duration
}

func NewHealthHandler(local connectivity.Pinger, probe grc.Prober) *HealthHandler {
	return &HealthHandler{local: local, probe: probe, timeout: 2 * time.Second}
}

// pingHandler only says the process is up.
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "OK"}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *HealthHandler) checkLocal(ctx context.Context) CheckEntry {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	entry := CheckEntry{Status: HealthHealthy}
	if h.local == nil {
		entry.Status = HealthUnhealthy
		entry.Message = "local store not configured"
	} else if err := h.local.PingContext(ctx); err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = err.Error()
	}
	entry.CheckedAt = time.Now()
	entry.DurationMs = time.Since(start).Milliseconds()
	return entry
}

func (h *HealthHandler) checkBackend(ctx context.Context) CheckEntry {
	start := time.Now()
	entry := CheckEntry{Status: HealthHealthy, Details: map[string]any{"connected": true}}
	if h.probe == nil || !h.probe.IsConnected(ctx) {
		entry.Status = HealthDegraded
		entry.Message = "backend unreachable, serving demo data"
		entry.Details["connected"] = false
	}
	entry.CheckedAt = time.Now()
	entry.DurationMs = time.Since(start).Milliseconds()
	return entry
}

func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	local := h.checkLocal(r.Context())
	backend := h.checkBackend(r.Context())

	resp := HealthResponse{
		Status:    HealthHealthy,
		Mode:      "remote",
		CheckedAt: time.Now(),
		Components: map[string]CheckEntry{
			"local_store": local,
			"backend":     backend,
		},
	}
	if backend.Status != HealthHealthy {
		resp.Status = HealthDegraded
		resp.Mode = "demo"
	}
	if local.Status == HealthUnhealthy {
		resp.Status = HealthUnhealthy
	}

	statusCode := http.StatusOK
	if resp.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}
