package engine

import "errors"

// Sentinel kinds for engine client errors.
var (
	ErrNotConfigured = errors.New("engine not configured")
	ErrUnavailable   = errors.New("engine unavailable")
)
