// File: internal/provider/registry/registry.go
package registry

import (
	"bucketbridge/internal/config"
	"bucketbridge/pkg/storage"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Reports whether the configuration carries a usable block for the provider
type ProviderConfigCheck func(cfg *config.Config) bool

// Builds a storage client for the provider from the configuration
type ProviderInitializer func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error)

type ProviderRegistration struct {
	ConfigCheck ProviderConfigCheck
	Initializer ProviderInitializer
}

// Registry maps lowercase provider names to their registrations. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]ProviderRegistration
}

func New() *Registry {
	return &Registry{entries: make(map[string]ProviderRegistration)}
}

var defaultRegistry = New()

// Default returns the registry backend packages register themselves with from init()
func Default() *Registry {
	return defaultRegistry
}

// RegisterProvider adds a backend to the default registry and panics on a duplicate or incomplete registration
func RegisterProvider(name string, registration ProviderRegistration) {
	if err := defaultRegistry.Register(name, registration); err != nil {
		panic(err)
	}
}

func (r *Registry) Register(name string, registration ProviderRegistration) error {
	normalizedName := strings.ToLower(name)
	if normalizedName == "" {
		return fmt.Errorf("provider name must not be empty")
	}
	if registration.ConfigCheck == nil {
		return fmt.Errorf("provider %s registration missing ConfigCheck", normalizedName)
	}
	if registration.Initializer == nil {
		return fmt.Errorf("provider %s registration missing Initializer", normalizedName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[normalizedName]; exists {
		return fmt.Errorf("provider %s already registered", normalizedName)
	}
	r.entries[normalizedName] = registration
	return nil
}

// Names returns the registered provider names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) IsSupported(providerName string) bool {
	_, exists := r.Lookup(providerName)
	return exists
}

func (r *Registry) Lookup(providerName string) (ProviderRegistration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	registration, exists := r.entries[strings.ToLower(providerName)]
	return registration, exists
}

func GetSupportedProviders() []string {
	return defaultRegistry.Names()
}

func IsSupported(providerName string) bool {
	return defaultRegistry.IsSupported(providerName)
}
