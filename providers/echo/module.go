// Package echo provides a deterministic local provider that returns the
// resolved prompt instead of calling a model. It exists for demos and for
// exercising workflow wiring without an inference backend.
package echo

import (
	"context"
	"fmt"

	"github.com/vk/promptgridgo/internal/provider"
	"github.com/vk/promptgridgo/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Invoker echoes the prompt back, tagged with the model id.
type Invoker struct{}

// Name implements provider.Invoker.
func (i *Invoker) Name() string { return "echo" }

// Invoke implements provider.Invoker.
func (i *Invoker) Invoke(_ context.Context, modelID, prompt string, _ provider.Params) (string, error) {
	return fmt.Sprintf("[%s] %s", modelID, prompt), nil
}

// Register registers the provider factory with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterProvider("echo", func(_ registry.BackendConfig) (provider.Invoker, error) {
		return &Invoker{}, nil
	})
}
