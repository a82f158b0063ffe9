// File: pkg/storage/minio/client.go
package minio

import (
	"bucketbridge/internal/config"
	"bucketbridge/internal/provider/registry"
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	defaultRegion          = "us-east-1"
	defaultSignedURLExpiry = 15 * time.Minute
	maxPageSize            = 1000
)

func init() {
	registry.RegisterProvider("minio", registry.ProviderRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
	})
}

// Checks if the MinIO configuration block is present and valid
func isConfigured(cfg *config.Config) bool {
	return cfg.MinIO != nil && cfg.MinIO.Validate() == nil
}

func initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("MinIO configuration missing or incomplete")
	}
	return NewMinIOStorage(*cfg.MinIO, logger)
}

// MinIOStorage talks to MinIO or any S3-compatible server through minio-go.
// It is safe for concurrent use by multiple goroutines.
type MinIOStorage struct {
	client minioAPI
	region string
	expiry time.Duration
	logger *slog.Logger
}

var _ storage.Storage = (*MinIOStorage)(nil)

func NewMinIOStorage(cfg config.MinIOConfig, logger *slog.Logger) (*MinIOStorage, error) {
	endpoint, secure := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	region := cfg.Region
	if region == "" {
		// Presigning needs a region up front
		region = defaultRegion
	}

	client, err := miniogo.New(endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return newMinIOStorage(sdkClient{client}, region, cfg.SignedURLExpiry, logger), nil
}

func newMinIOStorage(client minioAPI, region string, expiry time.Duration, logger *slog.Logger) *MinIOStorage {
	if expiry <= 0 {
		expiry = defaultSignedURLExpiry
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MinIOStorage{
		client: client,
		region: region,
		expiry: expiry,
		logger: logger,
	}
}

// Accepts "host:port" or a full URL; a scheme in the URL wins over the use_ssl setting
func normalizeEndpoint(endpoint string, useSSL bool) (host string, secure bool) {
	secure = useSSL
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		if u, err := url.Parse(endpoint); err == nil {
			return u.Host, u.Scheme == "https"
		}
	}
	return endpoint, secure
}

func (m *MinIOStorage) ProviderName() common.Provider {
	return common.MinIO
}

func (m *MinIOStorage) Capabilities() storage.Capabilities {
	return storage.CapSignedUploadURL | storage.CapSignedDownloadURL | storage.CapCrossBucketCopy
}

// Close is a no-op; the SDK client holds no persistent connections
func (m *MinIOStorage) Close() error {
	return nil
}
