// File: pkg/storage/aws/client.go
package aws

import (
	"bucketbridge/internal/config"
	"bucketbridge/internal/provider/registry"
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"context"
	"fmt"
	"log/slog"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func init() {
	registry.RegisterProvider("aws", registry.ProviderRegistration{
		ConfigCheck: isConfigured,
		Initializer: initialize,
	})
}

// Checks if the AWS configuration block is present and valid
func isConfigured(cfg *config.Config) bool {
	return cfg.AWS != nil && cfg.AWS.Validate() == nil
}

func initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if !isConfigured(cfg) {
		return nil, fmt.Errorf("AWS configuration missing or incomplete")
	}
	return NewAWSStorage(ctx, *cfg.AWS, logger)
}

type AWSStorage struct {
	client       s3API
	region       string
	endpoint     string
	usePathStyle bool
	logger       *slog.Logger
}

var _ storage.Storage = (*AWSStorage)(nil)

// NewAWSStorage resolves credentials through the SDK default chain (optionally a named profile)
// and builds an S3 client for the configured region
func NewAWSStorage(ctx context.Context, cfg config.AWSConfig, logger *slog.Logger) (*AWSStorage, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = awssdk.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	s := newAWSStorage(client, cfg.Region, logger)
	s.endpoint = cfg.Endpoint
	s.usePathStyle = cfg.UsePathStyle
	return s, nil
}

func newAWSStorage(client s3API, region string, logger *slog.Logger) *AWSStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &AWSStorage{
		client: client,
		region: region,
		logger: logger,
	}
}

func (s *AWSStorage) ProviderName() common.Provider {
	return common.AWS
}

// S3 has no upload signing in this adapter and can only copy within a bucket
func (s *AWSStorage) Capabilities() storage.Capabilities {
	return 0
}

func (s *AWSStorage) Close() error {
	// The SDK client holds no resources that need releasing
	return nil
}
