// Package engine is the HTTP client for the external bridge-analysis
// engine. The engine is consumed as an opaque JSON service; one request,
// one response, no retries.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/kibitz/internal/domain/board"
	"github.com/okian/kibitz/pkg/metrics"
)

const analyzePath = "/api/analyze/manual"

// Responses are capped to keep a misbehaving engine from ballooning memory.
const maxResponseBytes = 4 << 20

// Client analyzes boards through the external engine.
type Client interface {
	// Analyze submits one board and returns the engine's verdict.
	Analyze(ctx context.Context, b board.Board) (Result, error)
}

// Option applies a configuration option to the HTTP client.
type Option func(*httpClient)

// WithTimeout bounds a single engine call.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client against the engine at baseURL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze posts the board to {base}/api/analyze/manual and decodes the
// typed result. Transport and decode failures come back as wrapped errors;
// the caller converts them into structured failure payloads.
func (c *httpClient) Analyze(ctx context.Context, b board.Board) (Result, error) {
	start := time.Now()
	res, err := c.analyze(ctx, b)
	latency := float64(time.Since(start).Milliseconds())
	metrics.RecordCollaboratorLatency("engine", latency)
	if err != nil {
		metrics.RecordCollaboratorCall("engine", "error")
		return Result{}, err
	}
	metrics.RecordCollaboratorCall("engine", "success")
	return res, nil
}

func (c *httpClient) analyze(ctx context.Context, b board.Board) (Result, error) {
	body, err := json.Marshal(b)
	if err != nil {
		return Result{}, fmt.Errorf("engine: marshal board: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+analyzePath, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("engine: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("engine: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: status %d: %.200s", ErrUnavailable, resp.StatusCode, string(raw))
	}

	var out Result
	if err := json.Unmarshal(raw, &out); err != nil {
		return Result{}, fmt.Errorf("engine: decode response: %w", err)
	}
	return out, nil
}
