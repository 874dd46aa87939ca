package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if KIBITZ_CONFIG is set
//  3. env (prefix KIBITZ_)
//
// A missing collaborator credential or URL is not a load error; endpoints
// that need the collaborator report it as not configured at request time.
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("KIBITZ_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: KIBITZ_ADDR, KIBITZ_ENGINE_URL, ...
	// Map env keys like KIBITZ_ENGINE_URL -> engine_url (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("KIBITZ_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "kibitz_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.EngineTimeoutSec <= 0 {
		return nil, fmt.Errorf("%w: engine_timeout_sec must be positive", ErrInvalidConfig)
	}
	if cfg.AnalysisTimeoutSec <= 0 {
		return nil, fmt.Errorf("%w: analysis_timeout_sec must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
