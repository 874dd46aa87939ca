// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// handleInfo handles GET / and GET /api/info requests.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// "/" is the ServeMux catch-all; anything but the two info paths is a 404.
	if r.URL.Path != "/" && r.URL.Path != "/api/info" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "Bridge Analysis Relay API",
		"status":  "running",
		"endpoints": map[string]string{
			"GET /":                      "This info page",
			"GET /health":                "Health check",
			"GET /metrics":               "Prometheus metrics",
			"POST /api/parse/pbn":        "Parse PBN into a board record",
			"POST /api/analyze/pbn":      "Full pipeline: parse, engine, key moments, report",
			"POST /api/analyze/quick":    "Parse and engine analysis without the report",
			"POST /api/analyze/manual":   "Engine analysis of a pre-built board",
			"POST /api/analyze/ben":      "Engine-only analysis",
			"POST /api/analyze/gemini":   "Narration-only analysis",
			"POST /api/analyze/combined": "Narration with engine context",
			"POST /api/analyze/compare":  "Compare all three",
		},
		"configuration": map[string]bool{
			"ben_configured":    s.deps.EngineConfigured(),
			"gemini_configured": s.deps.NarratorConfigured(),
		},
	})
}
