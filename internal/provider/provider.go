// Package provider defines the contract between the workflow executor and a
// model-invocation backend. The executor treats an Invoker as an opaque,
// possibly slow, possibly failing remote operation: prompt in, text or
// error out.
package provider

import "context"

// DefaultMaxTokens and DefaultTemperature are the generation parameters used
// when a workflow does not override them.
const (
	DefaultMaxTokens   = 256
	DefaultTemperature = 0.7
)

// Params carries the generation parameters for a single invocation. They are
// passed explicitly per call; providers hold no mutable run configuration.
type Params struct {
	MaxTokens   int
	Temperature float64
}

// DefaultParams returns the standard generation parameters.
func DefaultParams() Params {
	return Params{MaxTokens: DefaultMaxTokens, Temperature: DefaultTemperature}
}

// Invoker is implemented by every model backend. Implementations must be
// safe for concurrent use; a whole workflow layer invokes in parallel.
type Invoker interface {
	// Invoke generates text for the given model and prompt. Failures must be
	// classified via ErrModelUnavailable or ErrGenerationFailed so the
	// executor can report them distinctly.
	Invoke(ctx context.Context, modelID, prompt string, p Params) (string, error)

	// Name returns the provider name, e.g. "ollama".
	Name() string
}
