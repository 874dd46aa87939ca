// Package narrator turns an analyzed board into a prose report through an
// external text-generation service.
package narrator

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/okian/kibitz/pkg/metrics"
)

// Narrator produces free-text commentary from an assembled prompt.
type Narrator interface {
	// Narrate submits the prompt and returns the raw text completion.
	Narrate(ctx context.Context, prompt string) (string, error)
}

// GeminiNarrator implements Narrator with Google's Gemini API.
type GeminiNarrator struct {
	client *genai.Client
	model  string
}

// NewGemini creates a GeminiNarrator. The model falls back to
// gemini-1.5-flash when empty.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiNarrator, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("narrator: create client: %w", err)
	}
	return &GeminiNarrator{client: client, model: model}, nil
}

// Narrate generates prose for the prompt. The response text is returned
// unmodified.
func (g *GeminiNarrator) Narrate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	metrics.RecordCollaboratorLatency("narrator", float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordCollaboratorCall("narrator", "error")
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	text := resp.Text()
	if text == "" {
		metrics.RecordCollaboratorCall("narrator", "error")
		return "", fmt.Errorf("%w: empty completion", ErrGeneration)
	}
	metrics.RecordCollaboratorCall("narrator", "success")
	return text, nil
}
