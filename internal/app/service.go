// Package service provides the core business service that composes the
// parser, the analysis engine, the moment extractor and the narrator.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/okian/kibitz/internal/adapters/engine"
	"github.com/okian/kibitz/internal/adapters/narrator"
	"github.com/okian/kibitz/internal/domain/board"
	"github.com/okian/kibitz/internal/domain/moments"
	"github.com/okian/kibitz/internal/domain/pbn"
	"github.com/okian/kibitz/pkg/logger"
	"github.com/okian/kibitz/pkg/metrics"
)

// ErrUnparsableHands signals PBN input from which no deal could be read.
var ErrUnparsableHands = errors.New("could not parse hands")

// Analysis is the composite result of the PBN pipelines.
type Analysis struct {
	Board           board.Board
	Warnings        []string
	EngineAvailable bool
	// EngineError carries the collaborator failure when EngineAvailable is
	// false and the pipeline degraded to partial results.
	EngineError   string
	Raw           engine.Result
	Formatted     string
	Moments       []moments.Moment
	TotalMistakes int
	TotalIMPCost  float64
	// Report is the narrated prose; empty on the quick path.
	Report string
}

// EngineReport is the engine-only result.
type EngineReport struct {
	Raw       engine.Result
	Formatted string
}

// Comparison statuses, mirroring the wire contract.
const (
	StatusSuccess       = "success"
	StatusError         = "error"
	StatusNotConfigured = "not_configured"
	StatusNotAvailable  = "not_available"
)

// ComparisonEntry is one leg of a three-way comparison.
type ComparisonEntry struct {
	Status    string         `json:"status"`
	Analysis  string         `json:"analysis,omitempty"`
	Raw       *engine.Result `json:"raw,omitempty"`
	Formatted string         `json:"formatted,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// ComparisonReport compares narration alone, engine alone, and narration
// informed by the engine.
type ComparisonReport struct {
	NarratorOnly       ComparisonEntry `json:"gemini_only"`
	EngineOnly         ComparisonEntry `json:"ben_only"`
	NarratorWithEngine ComparisonEntry `json:"gemini_with_ben"`
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngine wires the analysis-engine collaborator. A nil client means
// the engine is not configured.
func WithEngine(c engine.Client) Option {
	return func(s *Service) {
		s.engine = c
	}
}

// WithNarrator wires the text-generation collaborator. A nil narrator
// means narration is not configured.
func WithNarrator(n narrator.Narrator) Option {
	return func(s *Service) {
		s.narrator = n
	}
}

// WithEngineTimeout bounds a single engine call on the quick-analysis and
// single-board paths. Zero leaves calls bounded only by the engine
// client's own transport timeout.
func WithEngineTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.engineTimeout = d
	}
}

// WithAnalysisTimeout bounds the engine and narration calls on the
// full-report path.
func WithAnalysisTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.analysisTimeout = d
	}
}

// WithExtractor replaces the default key-moment extractor.
func WithExtractor(e *moments.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// Service implements the API dependencies for the relay. Collaborators are
// injected once at startup; no shared mutable state exists across requests.
type Service struct {
	engine          engine.Client
	narrator        narrator.Narrator
	extractor       *moments.Extractor
	logger          logger.Logger
	engineTimeout   time.Duration
	analysisTimeout time.Duration
}

// bound derives a per-call context when a positive timeout is configured.
func bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		extractor: moments.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// EngineConfigured reports whether the engine collaborator is wired.
func (s *Service) EngineConfigured() bool { return s.engine != nil }

// NarratorConfigured reports whether the narration collaborator is wired.
func (s *Service) NarratorConfigured() bool { return s.narrator != nil }

// ParsePBN extracts a board from PBN text. An empty North hand means no
// deal could be read and is reported as ErrUnparsableHands.
func (s *Service) ParsePBN(ctx context.Context, text string) (pbn.Result, error) {
	res := pbn.Parse(text)
	metrics.RecordParseWarnings(len(res.Warnings))
	if !res.Board.HasHands() {
		return res, ErrUnparsableHands
	}
	metrics.RecordBoardParsed()
	if len(res.Warnings) > 0 {
		s.logger.Warn(ctx, "parser dropped tokens",
			logger.Int("warnings", len(res.Warnings)))
	}
	return res, nil
}

// AnalyzePBN runs the full pipeline: parse, engine analysis, key-moment
// extraction and narration. Collaborator failures degrade the result to
// partial output instead of failing the request.
func (s *Service) AnalyzePBN(ctx context.Context, text string) (Analysis, error) {
	return s.analyzePBN(ctx, text, true)
}

// QuickAnalyze runs the pipeline without the narration step.
func (s *Service) QuickAnalyze(ctx context.Context, text string) (Analysis, error) {
	return s.analyzePBN(ctx, text, false)
}

func (s *Service) analyzePBN(ctx context.Context, text string, narrate bool) (Analysis, error) {
	parsed, err := s.ParsePBN(ctx, text)
	if err != nil {
		return Analysis{}, err
	}

	// The full-report path holds the request for both collaborators, so it
	// runs under the longer analysis window.
	d := s.engineTimeout
	if narrate {
		d = s.analysisTimeout
	}
	ctx, cancel := bound(ctx, d)
	defer cancel()

	a := Analysis{Board: parsed.Board, Warnings: parsed.Warnings}
	s.runEngine(ctx, &a)

	if narrate {
		a.Report = s.narrate(ctx, a.Board, a.Formatted, a.Moments)
	}
	return a, nil
}

// AnalyzeManual analyzes a pre-built board through the engine and the
// extractor. The engine must be configured.
func (s *Service) AnalyzeManual(ctx context.Context, b board.Board) (Analysis, error) {
	if s.engine == nil {
		return Analysis{}, engine.ErrNotConfigured
	}
	ctx, cancel := bound(ctx, s.engineTimeout)
	defer cancel()
	a := Analysis{Board: b}
	s.runEngine(ctx, &a)
	return a, nil
}

// runEngine fills the engine-derived fields of a, degrading to an error
// payload when the collaborator is missing or fails.
func (s *Service) runEngine(ctx context.Context, a *Analysis) {
	if s.engine == nil {
		a.EngineError = engine.ErrNotConfigured.Error()
		return
	}
	res, err := s.engine.Analyze(ctx, a.Board)
	if err != nil {
		s.logger.Error(ctx, "engine call failed", logger.Error(err))
		a.EngineError = err.Error()
		return
	}
	a.Raw = res
	a.EngineAvailable = res.Success
	if !res.Success {
		a.EngineError = res.Error
		return
	}
	a.Formatted = engine.Format(res, a.Board)
	a.Moments = s.extractor.Extract(res.ToAnalysis(a.Board))
	a.TotalMistakes, a.TotalIMPCost = moments.Totals(a.Moments)
	for _, m := range a.Moments {
		metrics.RecordMomentExtracted(m.Kind)
	}
	metrics.RecordBoardIMPCost(a.TotalIMPCost)
}

// narrate generates the prose report. Failures are converted into an
// inline error string rather than propagated.
func (s *Service) narrate(ctx context.Context, b board.Board, engineText string, moms []moments.Moment) string {
	if s.narrator == nil {
		return "Report unavailable: " + narrator.ErrNotConfigured.Error()
	}
	prompt := narrator.BuildPrompt(b, narrator.PromptOptions{
		EngineText:   engineText,
		Moments:      moms,
		TruncatePlay: true,
	})
	report, err := s.narrator.Narrate(ctx, prompt)
	if err != nil {
		s.logger.Error(ctx, "narration failed", logger.Error(err))
		return "Report unavailable: " + err.Error()
	}
	return report
}

// EngineOnly analyzes a board through the engine without extraction.
func (s *Service) EngineOnly(ctx context.Context, b board.Board) (EngineReport, error) {
	if s.engine == nil {
		return EngineReport{}, engine.ErrNotConfigured
	}
	ctx, cancel := bound(ctx, s.engineTimeout)
	defer cancel()
	res, err := s.engine.Analyze(ctx, b)
	if err != nil {
		return EngineReport{}, err
	}
	return EngineReport{Raw: res, Formatted: engine.Format(res, b)}, nil
}

// NarrateOnly generates commentary for a board without engine input.
func (s *Service) NarrateOnly(ctx context.Context, b board.Board) (string, error) {
	if s.narrator == nil {
		return "", narrator.ErrNotConfigured
	}
	prompt := narrator.BuildPrompt(b, narrator.PromptOptions{})
	return s.narrator.Narrate(ctx, prompt)
}

// Combined narrates a board with the engine's analysis as context. Both
// collaborators must be configured.
func (s *Service) Combined(ctx context.Context, b board.Board) (EngineReport, string, error) {
	if s.narrator == nil {
		return EngineReport{}, "", narrator.ErrNotConfigured
	}
	rep, err := s.EngineOnly(ctx, b)
	if err != nil {
		return EngineReport{}, "", err
	}
	prompt := narrator.BuildPrompt(b, narrator.PromptOptions{EngineText: rep.Formatted})
	text, err := s.narrator.Narrate(ctx, prompt)
	if err != nil {
		return rep, "", err
	}
	return rep, text, nil
}

// Compare runs narration alone, the engine alone, and narration with
// engine context, reporting a per-leg status instead of failing the whole
// request.
func (s *Service) Compare(ctx context.Context, b board.Board) ComparisonReport {
	var rep ComparisonReport

	if s.narrator == nil {
		rep.NarratorOnly = ComparisonEntry{Status: StatusNotConfigured, Error: narrator.ErrNotConfigured.Error()}
	} else if text, err := s.NarrateOnly(ctx, b); err != nil {
		rep.NarratorOnly = ComparisonEntry{Status: StatusError, Error: err.Error()}
	} else {
		rep.NarratorOnly = ComparisonEntry{Status: StatusSuccess, Analysis: text}
	}

	var engineRes *engine.Result
	var engineFormatted string
	if s.engine == nil {
		rep.EngineOnly = ComparisonEntry{Status: StatusNotConfigured, Error: engine.ErrNotConfigured.Error()}
	} else if er, err := s.EngineOnly(ctx, b); err != nil {
		rep.EngineOnly = ComparisonEntry{Status: StatusError, Error: err.Error()}
	} else {
		status := StatusSuccess
		if !er.Raw.Success {
			status = StatusError
		}
		rep.EngineOnly = ComparisonEntry{Status: status, Raw: &er.Raw, Formatted: er.Formatted}
		if er.Raw.Success {
			engineRes = &er.Raw
			engineFormatted = er.Formatted
		}
	}

	if s.narrator == nil || engineRes == nil {
		rep.NarratorWithEngine = ComparisonEntry{
			Status: StatusNotAvailable,
			Error:  "requires both the engine and the narrator to be configured and working",
		}
		return rep
	}
	prompt := narrator.BuildPrompt(b, narrator.PromptOptions{EngineText: engineFormatted})
	if text, err := s.narrator.Narrate(ctx, prompt); err != nil {
		rep.NarratorWithEngine = ComparisonEntry{Status: StatusError, Error: err.Error()}
	} else {
		rep.NarratorWithEngine = ComparisonEntry{Status: StatusSuccess, Analysis: text}
	}
	return rep
}
