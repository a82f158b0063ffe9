// File: pkg/storage/gcp/client.go
package gcp

import (
	"bucketbridge/internal/config"
	"bucketbridge/internal/provider/registry"
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const defaultSignedURLExpiry = 15 * time.Minute

func init() {
	registry.RegisterProvider("gcp", registry.ProviderRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
	})
}

// Checks if the GCP configuration block is present and valid
func isConfigured(cfg *config.Config) bool {
	return cfg.GCP != nil && cfg.GCP.Validate() == nil
}

// Initializes the GCP storage client from the configuration
func initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("GCP configuration missing or incomplete")
	}
	return NewGCPStorage(ctx, *cfg.GCP, logger)
}

// Identity used to sign URLs. When empty the SDK detects it from the client credentials.
type signer struct {
	googleAccessID string
	privateKey     []byte
	expiry         time.Duration
}

type GCPStorage struct {
	client    *gcpstorage.Client
	projectID string
	signer    signer
	// Options for the Cloud Monitoring client; the storage endpoint override never applies there
	monitoringOpts []option.ClientOption
	logger         *slog.Logger
}

var _ storage.Storage = (*GCPStorage)(nil)
var _ storage.UsageReporter = (*GCPStorage)(nil)

func NewGCPStorage(ctx context.Context, cfg config.GCPConfig, logger *slog.Logger) (*GCPStorage, error) {
	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
		if cfg.CredentialsFile == "" {
			// Emulators accept unauthenticated requests
			clientOpts = append(clientOpts, option.WithoutAuthentication())
		}
	}

	s := signer{googleAccessID: cfg.SignerEmail, expiry: cfg.SignedURLExpiry}
	if cfg.PrivateKeyFile != "" {
		key, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read GCP signing key: %w", err)
		}
		s.privateKey = key
	}

	client, err := gcpstorage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP storage client: %w", err)
	}

	g := newGCPStorage(client, cfg.Project, s, logger)
	g.monitoringOpts = monitoringClientOptions(cfg)
	return g, nil
}

// Only the credentials carry over to Cloud Monitoring. An emulator endpoint and the
// unauthenticated mode it implies are storage-only settings.
func monitoringClientOptions(cfg config.GCPConfig) []option.ClientOption {
	if cfg.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.CredentialsFile)}
}

func newGCPStorage(client *gcpstorage.Client, projectID string, s signer, logger *slog.Logger) *GCPStorage {
	if s.expiry <= 0 {
		s.expiry = defaultSignedURLExpiry
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GCPStorage{
		client:    client,
		projectID: projectID,
		signer:    s,
		logger:    logger,
	}
}

func (g *GCPStorage) ProviderName() common.Provider {
	return common.GCP
}

func (g *GCPStorage) Capabilities() storage.Capabilities {
	return storage.CapSignedUploadURL | storage.CapSignedDownloadURL | storage.CapCrossBucketCopy
}

func (g *GCPStorage) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
