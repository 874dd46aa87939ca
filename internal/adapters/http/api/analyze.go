package api

import (
	"errors"
	"net/http"

	"github.com/okian/kibitz/internal/adapters/engine"
	service "github.com/okian/kibitz/internal/app"
	"github.com/okian/kibitz/internal/domain/board"
	"github.com/okian/kibitz/internal/domain/moments"
)

// analyzeResponse mirrors the wire shape of the PBN analysis endpoints.
type analyzeResponse struct {
	Success       bool             `json:"success"`
	Board         board.Board      `json:"board"`
	KeyMoments    []moments.Moment `json:"key_moments"`
	Report        string           `json:"report,omitempty"`
	BenAvailable  bool             `json:"ben_available"`
	TotalMistakes int              `json:"total_mistakes"`
	TotalIMPCost  float64          `json:"total_imp_cost"`
	Warnings      []string         `json:"warnings,omitempty"`
	Error         string           `json:"error,omitempty"`
}

// manualResponse mirrors the wire shape of POST /api/analyze/manual.
type manualResponse struct {
	Success       bool             `json:"success"`
	KeyMoments    []moments.Moment `json:"key_moments"`
	TotalMistakes int              `json:"total_mistakes"`
	TotalIMPCost  float64          `json:"total_imp_cost"`
	Analysis      string           `json:"analysis,omitempty"`
	BenAvailable  bool             `json:"ben_available"`
	Error         string           `json:"error,omitempty"`
}

// engineOnlyResponse mirrors the wire shape of POST /api/analyze/ben.
type engineOnlyResponse struct {
	Success   bool          `json:"success"`
	Source    string        `json:"source"`
	Raw       engine.Result `json:"raw"`
	Formatted string        `json:"formatted"`
}

// narrateOnlyResponse mirrors the wire shape of POST /api/analyze/gemini.
type narrateOnlyResponse struct {
	Success  bool   `json:"success"`
	Source   string `json:"source"`
	Analysis string `json:"analysis"`
}

// combinedResponse mirrors the wire shape of POST /api/analyze/combined.
type combinedResponse struct {
	Success        bool          `json:"success"`
	Source         string        `json:"source"`
	BenRaw         engine.Result `json:"ben_raw"`
	BenFormatted   string        `json:"ben_formatted"`
	GeminiAnalysis string        `json:"gemini_analysis"`
}

// compareResponse mirrors the wire shape of POST /api/analyze/compare.
type compareResponse struct {
	Success     bool                     `json:"success"`
	Board       board.Board              `json:"board"`
	Comparisons service.ComparisonReport `json:"comparisons"`
}

func toAnalyzeResponse(a service.Analysis, includeReport bool) analyzeResponse {
	resp := analyzeResponse{
		Success:       true,
		Board:         a.Board,
		KeyMoments:    a.Moments,
		BenAvailable:  a.EngineAvailable,
		TotalMistakes: a.TotalMistakes,
		TotalIMPCost:  a.TotalIMPCost,
		Warnings:      a.Warnings,
		Error:         a.EngineError,
	}
	if resp.KeyMoments == nil {
		resp.KeyMoments = []moments.Moment{}
	}
	if includeReport {
		resp.Report = a.Report
	}
	return resp
}

// handleAnalyzePBN handles POST /api/analyze/pbn: the full pipeline.
func (s *Server) handleAnalyzePBN(w http.ResponseWriter, r *http.Request) {
	s.analyzePBN(w, r, true)
}

// handleAnalyzeQuick handles POST /api/analyze/quick: no narration.
func (s *Server) handleAnalyzeQuick(w http.ResponseWriter, r *http.Request) {
	s.analyzePBN(w, r, false)
}

func (s *Server) analyzePBN(w http.ResponseWriter, r *http.Request, full bool) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	text, err := readPBN(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var a service.Analysis
	if full {
		a, err = s.deps.AnalyzePBN(r.Context(), text)
	} else {
		a, err = s.deps.QuickAnalyze(r.Context(), text)
	}
	if err != nil {
		if errors.Is(err, service.ErrUnparsableHands) {
			writeError(w, http.StatusBadRequest, errors.New("Could not parse hands"))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnalyzeResponse(a, full))
}

// handleAnalyzeManual handles POST /api/analyze/manual: a pre-built board
// through the engine and the extractor.
func (s *Server) handleAnalyzeManual(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	b, err := readBoard(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	a, err := s.deps.AnalyzeManual(r.Context(), b)
	if err != nil {
		if isNotConfigured(err) {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}
	resp := manualResponse{
		Success:       a.EngineAvailable,
		KeyMoments:    a.Moments,
		TotalMistakes: a.TotalMistakes,
		TotalIMPCost:  a.TotalIMPCost,
		Analysis:      a.Formatted,
		BenAvailable:  a.EngineAvailable,
		Error:         a.EngineError,
	}
	if resp.KeyMoments == nil {
		resp.KeyMoments = []moments.Moment{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAnalyzeEngine handles POST /api/analyze/ben: engine only.
func (s *Server) handleAnalyzeEngine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	b, err := readBoard(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rep, err := s.deps.EngineOnly(r.Context(), b)
	if err != nil {
		if isNotConfigured(err) {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		// Transport failures are a structured payload, not an aborted request.
		writeJSON(w, http.StatusOK, errorResponse{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, engineOnlyResponse{
		Success:   rep.Raw.Success,
		Source:    "ben",
		Raw:       rep.Raw,
		Formatted: rep.Formatted,
	})
}

// handleAnalyzeNarrator handles POST /api/analyze/gemini: narration only.
func (s *Server) handleAnalyzeNarrator(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	b, err := readBoard(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	text, err := s.deps.NarrateOnly(r.Context(), b)
	if err != nil {
		if isNotConfigured(err) {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, errorResponse{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, narrateOnlyResponse{
		Success:  true,
		Source:   "gemini",
		Analysis: text,
	})
}

// handleAnalyzeCombined handles POST /api/analyze/combined: narration with
// engine context.
func (s *Server) handleAnalyzeCombined(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	b, err := readBoard(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rep, text, err := s.deps.Combined(r.Context(), b)
	if err != nil {
		if isNotConfigured(err) {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, errorResponse{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, combinedResponse{
		Success:        true,
		Source:         "gemini+ben",
		BenRaw:         rep.Raw,
		BenFormatted:   rep.Formatted,
		GeminiAnalysis: text,
	})
}

// handleAnalyzeCompare handles POST /api/analyze/compare.
func (s *Server) handleAnalyzeCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	b, err := readBoard(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, compareResponse{
		Success:     true,
		Board:       b,
		Comparisons: s.deps.Compare(r.Context(), b),
	})
}
