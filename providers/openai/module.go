// Package openai provides the provider for OpenAI-compatible chat completion
// APIs, including local servers (llama.cpp, vLLM) that speak the same
// protocol behind a custom base URL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/vk/promptgridgo/internal/provider"
	"github.com/vk/promptgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Invoker calls an OpenAI-compatible chat completion endpoint. Safe for
// concurrent use.
type Invoker struct {
	client *goopenai.Client
}

// New creates an Invoker from backend settings. An empty base URL targets
// the hosted OpenAI API.
func New(cfg registry.BackendConfig) *Invoker {
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Invoker{client: goopenai.NewClientWithConfig(clientCfg)}
}

// Name implements provider.Invoker.
func (i *Invoker) Name() string { return "openai" }

// Invoke implements provider.Invoker. The whole resolved prompt is sent as a
// single user message.
func (i *Invoker) Invoke(ctx context.Context, modelID, prompt string, p provider.Params) (string, error) {
	resp, err := i.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       modelID,
		MaxTokens:   p.MaxTokens,
		Temperature: float32(p.Temperature),
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound {
			return "", provider.Unavailable(modelID, err)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", provider.Failed(modelID, err)
	}

	if len(resp.Choices) == 0 {
		return "", provider.Failed(modelID, fmt.Errorf("response contained no choices"))
	}
	return resp.Choices[0].Message.Content, nil
}

// Register registers the provider factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("openai", func(cfg registry.BackendConfig) (provider.Invoker, error) {
		if cfg.BaseURL == "" && cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key or a custom base URL")
		}
		return New(cfg), nil
	})
}
