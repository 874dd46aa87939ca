// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Default collaborator timeouts in seconds. The engine endpoint allows a
// longer window for full-pipeline requests than for quick analysis.
const (
	defaultEngineTimeoutSec   = 120
	defaultAnalysisTimeoutSec = 300
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// EngineURL is the base URL of the external bridge-analysis engine.
	// Empty means the engine collaborator is not configured.
	EngineURL string `koanf:"engine_url"`

	// EngineTimeoutSec bounds a single engine call on the quick-analysis
	// and single-board paths.
	EngineTimeoutSec int `koanf:"engine_timeout_sec"`

	// AnalysisTimeoutSec bounds the collaborator calls on the full-report
	// path and caps the engine client's transport timeout.
	AnalysisTimeoutSec int `koanf:"analysis_timeout_sec"`

	// GeminiAPIKey authenticates against the text-generation service.
	// Empty means narration is not configured.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel selects the generation model.
	GeminiModel string `koanf:"gemini_model"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8080",
		EngineURL:          "",
		EngineTimeoutSec:   defaultEngineTimeoutSec,
		AnalysisTimeoutSec: defaultAnalysisTimeoutSec,
		GeminiAPIKey:       "",
		GeminiModel:        "gemini-1.5-flash",
	}
}

// EngineConfigured reports whether the analysis engine collaborator is set up.
func (c *Config) EngineConfigured() bool { return c.EngineURL != "" }

// GeminiConfigured reports whether the text-generation collaborator is set up.
func (c *Config) GeminiConfigured() bool { return c.GeminiAPIKey != "" }
