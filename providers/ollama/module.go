// Package ollama provides the provider for a local Ollama server using its
// non-streaming /api/generate endpoint.
package ollama

import (
	"context"
	"fmt"
	"net/http"

	"resty.dev/v3"

	"github.com/vk/promptgridgo/internal/provider"
	"github.com/vk/promptgridgo/internal/registry"
)

// DefaultBaseURL is the standard local Ollama address.
const DefaultBaseURL = "http://localhost:11434"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Invoker calls an Ollama server. Safe for concurrent use; resty clients
// share one underlying http.Transport.
type Invoker struct {
	client *resty.Client
}

// New creates an Invoker against the given base URL ("" for the default).
func New(cfg registry.BackendConfig) *Invoker {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().SetBaseURL(baseURL)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Invoker{client: client}
}

// Name implements provider.Invoker.
func (i *Invoker) Name() string { return "ollama" }

// generateRequest is the non-streaming /api/generate payload.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Invoke implements provider.Invoker.
func (i *Invoker) Invoke(ctx context.Context, modelID, prompt string, p provider.Params) (string, error) {
	body := generateRequest{
		Model:  modelID,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			NumPredict:  p.MaxTokens,
			Temperature: p.Temperature,
		},
	}

	res, err := i.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&generateResponse{}).
		SetError(&generateResponse{}).
		Post("/api/generate")
	if err != nil {
		// Transport-level failure: the server is not reachable, which is
		// indistinguishable from the model not being served.
		return "", provider.Unavailable(modelID, err)
	}

	if res.StatusCode() == http.StatusNotFound {
		return "", provider.Unavailable(modelID, fmt.Errorf("%s", errorMessage(res)))
	}
	if !res.IsSuccess() {
		return "", provider.Failed(modelID, fmt.Errorf("status %s: %s", res.Status(), errorMessage(res)))
	}

	parsed, ok := res.Result().(*generateResponse)
	if !ok || parsed == nil {
		return "", provider.Failed(modelID, fmt.Errorf("malformed response body"))
	}
	return parsed.Response, nil
}

func errorMessage(res *resty.Response) string {
	if parsed, ok := res.Error().(*generateResponse); ok && parsed != nil && parsed.Error != "" {
		return parsed.Error
	}
	return res.String()
}

// Register registers the provider factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("ollama", func(cfg registry.BackendConfig) (provider.Invoker, error) {
		return New(cfg), nil
	})
}
