// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/kibitz/internal/adapters/engine"
	"github.com/okian/kibitz/internal/adapters/narrator"
	service "github.com/okian/kibitz/internal/app"
	"github.com/okian/kibitz/internal/domain/board"
	"github.com/okian/kibitz/internal/domain/pbn"
)

// Request bodies are bounded; a PBN record is a few kilobytes at most.
const maxRequestBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	EngineConfigured() bool
	NarratorConfigured() bool

	ParsePBN(ctx context.Context, text string) (pbn.Result, error)
	AnalyzePBN(ctx context.Context, text string) (service.Analysis, error)
	QuickAnalyze(ctx context.Context, text string) (service.Analysis, error)
	AnalyzeManual(ctx context.Context, b board.Board) (service.Analysis, error)
	EngineOnly(ctx context.Context, b board.Board) (service.EngineReport, error)
	NarrateOnly(ctx context.Context, b board.Board) (string, error)
	Combined(ctx context.Context, b board.Board) (service.EngineReport, string, error)
	Compare(ctx context.Context, b board.Board) service.ComparisonReport
}

// Server wires HTTP routes for the relay API.
type Server struct {
	deps Dependencies
}

// NewServer creates a new API server.
func NewServer(deps Dependencies) *Server {
	return &Server{deps: deps}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/", Middleware(s.handleInfo, "info"))
	mux.HandleFunc("/health", Middleware(s.handleHealth, "health"))
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/api/info", Middleware(s.handleInfo, "info"))
	mux.HandleFunc("/api/parse/pbn", Middleware(s.handleParsePBN, "parse_pbn"))
	mux.HandleFunc("/api/analyze/pbn", Middleware(s.handleAnalyzePBN, "analyze_pbn"))
	mux.HandleFunc("/api/analyze/quick", Middleware(s.handleAnalyzeQuick, "analyze_quick"))
	mux.HandleFunc("/api/analyze/manual", Middleware(s.handleAnalyzeManual, "analyze_manual"))
	mux.HandleFunc("/api/analyze/ben", Middleware(s.handleAnalyzeEngine, "analyze_ben"))
	mux.HandleFunc("/api/analyze/gemini", Middleware(s.handleAnalyzeNarrator, "analyze_gemini"))
	mux.HandleFunc("/api/analyze/combined", Middleware(s.handleAnalyzeCombined, "analyze_combined"))
	mux.HandleFunc("/api/analyze/compare", Middleware(s.handleAnalyzeCompare, "analyze_compare"))
}

// pbnRequest mirrors the JSON shape for the PBN endpoints. Clients may
// also post the raw PBN text directly.
type pbnRequest struct {
	PBN string `json:"pbn"`
}

// readPBN accepts either {"pbn": "..."} or a raw text body.
func readPBN(r *http.Request) (string, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		return "", err
	}
	var req pbnRequest
	if err := json.Unmarshal(raw, &req); err == nil && strings.TrimSpace(req.PBN) != "" {
		return req.PBN, nil
	}
	return string(raw), nil
}

// readBoard decodes a manual board request body.
func readBoard(r *http.Request) (board.Board, error) {
	var b board.Board
	err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&b)
	return b, err
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// isNotConfigured distinguishes misconfiguration (500, request not
// attempted) from collaborator transport failures (surfaced in the
// payload by the caller).
func isNotConfigured(err error) bool {
	return errors.Is(err, engine.ErrNotConfigured) || errors.Is(err, narrator.ErrNotConfigured)
}
