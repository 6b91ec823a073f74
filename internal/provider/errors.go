package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying invocation failures. Providers wrap these with
// detail via fmt.Errorf("%w: ..."); callers test with errors.Is.
var (
	// ErrModelUnavailable means the referenced model is not loaded, not
	// running, or unknown to the backend.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrGenerationFailed means the backend accepted the call but could not
	// produce output.
	ErrGenerationFailed = errors.New("generation failed")
)

// Unavailable wraps ErrModelUnavailable with the offending model id.
func Unavailable(modelID string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: model %q", ErrModelUnavailable, modelID)
	}
	return fmt.Errorf("%w: model %q: %v", ErrModelUnavailable, modelID, cause)
}

// Failed wraps ErrGenerationFailed with the underlying cause.
func Failed(modelID string, cause error) error {
	return fmt.Errorf("%w: model %q: %v", ErrGenerationFailed, modelID, cause)
}
