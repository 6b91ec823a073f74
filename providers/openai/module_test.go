package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/promptgridgo/internal/provider"
	"github.com/vk/promptgridgo/internal/registry"
)

func TestInvoke(t *testing.T) {
	t.Run("successful chat completion against a compatible server", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req goopenai.ChatCompletionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "local-model", req.Model)
			require.Len(t, req.Messages, 1)
			assert.Equal(t, "hello there", req.Messages[0].Content)

			json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{
				Choices: []goopenai.ChatCompletionChoice{
					{Message: goopenai.ChatCompletionMessage{Content: "hi!"}},
				},
			})
		}))
		defer srv.Close()

		inv := New(registry.BackendConfig{BaseURL: srv.URL, APIKey: "test-key"})
		out, err := inv.Invoke(context.Background(), "local-model", "hello there", provider.DefaultParams())

		require.NoError(t, err)
		assert.Equal(t, "hi!", out)
	})

	t.Run("empty choice list maps to GenerationFailed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(goopenai.ChatCompletionResponse{})
		}))
		defer srv.Close()

		inv := New(registry.BackendConfig{BaseURL: srv.URL, APIKey: "test-key"})
		_, err := inv.Invoke(context.Background(), "m", "x", provider.DefaultParams())

		require.Error(t, err)
		assert.True(t, errors.Is(err, provider.ErrGenerationFailed))
	})

	t.Run("factory rejects a config with neither key nor base URL", func(t *testing.T) {
		r := registry.New()
		(&Module{}).Register(r)
		_, err := r.Build("openai", registry.BackendConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key")
	})
}
