package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/vk/promptgridgo/internal/provider"
)

// Module is the interface that all provider modules must implement to be
// registered with an application instance.
type Module interface {
	Register(r *Registry)
}

// BackendConfig holds the connection settings handed to a provider factory.
type BackendConfig struct {
	// BaseURL of the backend server. Empty means the provider's default.
	BaseURL string
	// APIKey for hosted backends. Local backends ignore it.
	APIKey string
	// Timeout for a single model invocation. Zero means no client-side limit
	// beyond context cancellation.
	Timeout time.Duration
}

// Factory constructs a ready-to-use Invoker from backend settings.
type Factory func(cfg BackendConfig) (provider.Invoker, error)

// Registry holds the registered provider factories for a single application
// instance.
type Registry struct {
	factories map[string]Factory
}

// New creates and initializes an empty Registry.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// RegisterProvider registers a factory under a backend name.
func (r *Registry) RegisterProvider(name string, f Factory) {
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("provider with name '%s' already registered", name))
	}
	slog.Debug("Registering provider factory.", "name", name)
	r.factories[name] = f
}

// Build constructs the Invoker for the named backend.
func (r *Registry) Build(name string, cfg BackendConfig) (provider.Invoker, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider '%s' (registered: %v)", name, r.Names())
	}
	return f(cfg)
}

// Names returns the registered backend names, sorted for stable output.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
