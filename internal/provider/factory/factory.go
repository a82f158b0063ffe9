// File: internal/provider/factory/factory.go
package factory

import (
	"bucketbridge/internal/config"
	"bucketbridge/internal/provider/registry"
	"bucketbridge/pkg/storage"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Factory turns provider names into initialized storage clients
type Factory struct {
	cfg      *config.Config
	registry *registry.Registry
	logger   *slog.Logger
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	return NewFactoryWithRegistry(cfg, registry.Default(), logger)
}

func NewFactoryWithRegistry(cfg *config.Config, reg *registry.Registry, logger *slog.Logger) *Factory {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Factory{
		cfg:      cfg,
		registry: reg,
		logger:   logger,
	}
}

// SupportedProviders returns every registered provider name, sorted
func (f *Factory) SupportedProviders() []string {
	return f.registry.Names()
}

// ConfiguredProviders returns the registered providers with a usable configuration block, sorted
func (f *Factory) ConfiguredProviders() []string {
	var configured []string
	for _, name := range f.registry.Names() {
		if f.IsConfigured(name) {
			configured = append(configured, name)
		}
	}
	return configured
}

func (f *Factory) IsConfigured(providerName string) bool {
	registration, exists := f.registry.Lookup(providerName)
	if !exists {
		return false
	}
	return registration.ConfigCheck(f.cfg)
}

// GetStorageProvider initializes the client for one provider. The caller owns the client and must Close it.
func (f *Factory) GetStorageProvider(ctx context.Context, providerName string) (storage.Storage, error) {
	normalizedName := strings.ToLower(providerName)

	registration, exists := f.registry.Lookup(normalizedName)
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s. Supported providers are: %v", providerName, f.registry.Names())
	}

	if !registration.ConfigCheck(f.cfg) {
		return nil, fmt.Errorf("provider '%s' is not configured. Use 'bucketbridge config set %s.<key> <value>' (see 'bucketbridge config keys')", normalizedName, normalizedName)
	}

	client, err := registration.Initializer(ctx, f.cfg, f.logger.With("provider", normalizedName))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider %s: %w", normalizedName, err)
	}
	return client, nil
}
