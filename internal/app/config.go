package app

import (
	"errors"
	"time"
)

// AppConfig holds all the necessary configuration for an App instance to run.
type AppConfig struct {
	// WorkflowPath points at a .hcl or .json workflow definition.
	WorkflowPath string
	// Input is the original user input fed to the workflow's {input}
	// placeholders.
	Input string

	// Provider selects the registered model backend ("ollama", "openai",
	// "echo").
	Provider string
	// BaseURL overrides the provider's default server address.
	BaseURL string
	// APIKey authenticates hosted backends.
	APIKey string
	// InvokeTimeout is the client-side limit for a single model call. Zero
	// disables it.
	InvokeTimeout time.Duration

	// MaxInFlight caps concurrent model calls within a layer. Zero means
	// unbounded fan-out.
	MaxInFlight int
	// MaxTokens and Temperature override the workflow file's generation
	// parameters when set (MaxTokens > 0, Temperature >= 0).
	MaxTokens   int
	Temperature float64

	// ValidateOnly stops after structural validation, without executing.
	ValidateOnly bool

	HealthcheckPort int
	LogFormat       string
	LogLevel        string
}

// NewConfig validates the raw configuration and returns it ready for use.
func NewConfig(cfg AppConfig) (*AppConfig, error) {
	if cfg.WorkflowPath == "" {
		return nil, errors.New("WorkflowPath is a required configuration field and cannot be empty")
	}
	if cfg.Provider == "" {
		return nil, errors.New("Provider is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
