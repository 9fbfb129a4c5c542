// Package providers holds the embedding providers available to the pipeline.
// Providers register themselves by name; the pipeline looks them up through
// the factory registry so a config string can select the implementation.
package providers

import (
	"context"
	"fmt"
	"sync"
)

// Embedder converts text into a fixed-dimension vector. Implementations must
// be deterministic for identical input; retrieval reproducibility depends on
// it. Implementations must also be safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	// Dimension reports the output vector length for the configured model.
	Dimension() (int, error)
}

// Config carries the settings a factory needs to build an embedder.
type Config struct {
	// APIKey authenticates against the provider's service.
	APIKey string
	// Model selects the embedding model.
	Model string
	// BaseURL overrides the service endpoint, e.g. for OpenAI-compatible
	// gateways. Empty means the provider default.
	BaseURL string
}

// Factory builds an Embedder from a Config.
type Factory func(cfg Config) (Embedder, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
)

// Register adds a factory under a provider name. Later registrations with
// the same name win.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[name] = factory
}

// Get builds an embedder for the named provider.
func Get(name string, cfg Config) (Embedder, error) {
	mu.RLock()
	factory, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("embedding provider not found: %s", name)
	}
	return factory(cfg)
}

// List returns the registered provider names.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}
