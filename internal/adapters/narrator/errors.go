package narrator

import "errors"

// Sentinel kinds for narrator errors.
var (
	ErrNotConfigured = errors.New("narrator not configured")
	ErrGeneration    = errors.New("text generation failed")
)
