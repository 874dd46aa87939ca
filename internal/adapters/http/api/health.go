// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/kibitz/pkg/metrics"
)

// healthResponse reports liveness and which collaborators are configured.
type healthResponse struct {
	Status    string `json:"status"`
	EngineURL bool   `json:"ben_url"`
	GeminiKey bool   `json:"gemini_key"`
}

// handleHealth handles GET /health requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		EngineURL: s.deps.EngineConfigured(),
		GeminiKey: s.deps.NarratorConfigured(),
	})
}

// handleMetrics serves the Prometheus registry on GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
