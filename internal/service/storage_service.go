// File: internal/service/storage_service.go
package service

import (
	"bucketbridge/pkg/storage"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

const maxConcurrentProviders = 4

var (
	// Returned when a backend has no way to sign upload URLs
	ErrUploadURLUnsupported = errors.New("provider cannot issue upload URLs")
	// Returned when a backend cannot report bucket usage
	ErrUsageUnsupported = errors.New("provider cannot report bucket usage")
)

// ClientProvider hands out initialized storage clients; the caller closes them
type ClientProvider interface {
	GetStorageProvider(ctx context.Context, providerName string) (storage.Storage, error)
}

type StorageService struct {
	providers ClientProvider
	logger    *slog.Logger
}

func NewStorageService(providers ClientProvider, logger *slog.Logger) *StorageService {
	return &StorageService{
		providers: providers,
		logger:    logger.With("service", "StorageService"),
	}
}

// ProviderFailure records a provider that could not contribute to a fan-out listing
type ProviderFailure struct {
	Provider string
	Err      error
}

// BucketListing is the merged result of listing buckets across providers
type BucketListing struct {
	Buckets  []storage.Bucket
	Failures []ProviderFailure
}

// --- Bucket Operations ---

// ListAllBuckets lists buckets on every named provider concurrently.
// A failing provider is recorded and skipped; an error is returned only when every provider failed.
func (s *StorageService) ListAllBuckets(ctx context.Context, providerNames []string, maxResults int) (BucketListing, error) {
	var listing BucketListing
	if len(providerNames) == 0 {
		return listing, nil
	}

	s.logger.Debug("Starting ListAllBuckets operation", "providers", providerNames, "max_results", maxResults)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(maxConcurrentProviders)

	for _, pName := range providerNames {
		g.Go(func() error {
			buckets, err := s.listProviderBuckets(ctx, pName, maxResults)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("Skipping provider", "provider", pName, "error", err)
				listing.Failures = append(listing.Failures, ProviderFailure{Provider: pName, Err: err})
				return nil
			}
			listing.Buckets = append(listing.Buckets, buckets...)
			s.logger.Debug("Successfully fetched buckets", "provider", pName, "count", len(buckets))
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(listing.Buckets, func(i, j int) bool {
		if listing.Buckets[i].Provider != listing.Buckets[j].Provider {
			return listing.Buckets[i].Provider < listing.Buckets[j].Provider
		}
		return listing.Buckets[i].Name < listing.Buckets[j].Name
	})
	sort.Slice(listing.Failures, func(i, j int) bool {
		return listing.Failures[i].Provider < listing.Failures[j].Provider
	})

	if len(listing.Failures) == len(providerNames) {
		errs := make([]error, 0, len(listing.Failures))
		for _, f := range listing.Failures {
			errs = append(errs, fmt.Errorf("%s: %w", f.Provider, f.Err))
		}
		return listing, fmt.Errorf("no provider could list buckets: %w", errors.Join(errs...))
	}
	return listing, nil
}

func (s *StorageService) listProviderBuckets(ctx context.Context, providerName string, maxResults int) ([]storage.Bucket, error) {
	client, err := s.providers.GetStorageProvider(ctx, providerName)
	if err != nil {
		return nil, err
	}
	defer s.closeClient(client, providerName)

	if err := storage.ValidateMaxResults(maxResults); err != nil {
		return nil, storage.NewArgumentError("ListBuckets", client.ProviderName(), err)
	}
	return client.ListBuckets(ctx, maxResults)
}

func (s *StorageService) DescribeBucket(ctx context.Context, bucketName, providerName string) (storage.Bucket, error) {
	return withClient(ctx, s, providerName, "DescribeBucket", []any{"bucket", bucketName},
		func(client storage.Storage) (storage.Bucket, error) {
			return client.GetBucket(ctx, bucketName)
		})
}

func (s *StorageService) CreateBucket(ctx context.Context, bucketName, providerName, location string) (storage.Bucket, error) {
	return withClient(ctx, s, providerName, "CreateBucket", []any{"bucket", bucketName, "location", location},
		func(client storage.Storage) (storage.Bucket, error) {
			return client.CreateBucket(ctx, bucketName, location)
		})
}

func (s *StorageService) DeleteBucket(ctx context.Context, bucketName, providerName string) error {
	_, err := withClient(ctx, s, providerName, "DeleteBucket", []any{"bucket", bucketName},
		func(client storage.Storage) (struct{}, error) {
			return struct{}{}, client.DeleteBucket(ctx, bucketName)
		})
	return err
}

// BucketUsage reports the stored bytes of a bucket on backends that expose usage metrics
func (s *StorageService) BucketUsage(ctx context.Context, bucketName, providerName string) (int64, error) {
	return withClient(ctx, s, providerName, "BucketUsage", []any{"bucket", bucketName},
		func(client storage.Storage) (int64, error) {
			reporter, ok := client.(storage.UsageReporter)
			if !ok {
				return 0, fmt.Errorf("%s: %w", client.ProviderName(), ErrUsageUnsupported)
			}
			return reporter.BucketUsage(ctx, bucketName)
		})
}

// Capabilities initializes the provider only to report what it supports natively
func (s *StorageService) Capabilities(ctx context.Context, providerName string) (storage.Capabilities, error) {
	return withClient(ctx, s, providerName, "Capabilities", nil,
		func(client storage.Storage) (storage.Capabilities, error) {
			return client.Capabilities(), nil
		})
}

// --- Object Operations ---

func (s *StorageService) ListObjects(ctx context.Context, bucketName, providerName string, maxResults int) ([]storage.Object, error) {
	return withClient(ctx, s, providerName, "ListObjects", []any{"bucket", bucketName, "max_results", maxResults},
		func(client storage.Storage) ([]storage.Object, error) {
			if err := storage.ValidateMaxResults(maxResults); err != nil {
				return nil, storage.NewArgumentError("ListObjects", client.ProviderName(), err)
			}
			return client.ListObjects(ctx, bucketName, maxResults)
		})
}

func (s *StorageService) DescribeObject(ctx context.Context, bucketName, objectName, providerName string) (storage.Object, error) {
	return withClient(ctx, s, providerName, "DescribeObject", []any{"bucket", bucketName, "object", objectName},
		func(client storage.Storage) (storage.Object, error) {
			return client.GetObject(ctx, bucketName, objectName)
		})
}

func (s *StorageService) DownloadObject(ctx context.Context, bucketName, objectName, providerName string, rng storage.ByteRange) ([]byte, error) {
	return withClient(ctx, s, providerName, "DownloadObject", []any{"bucket", bucketName, "object", objectName, "range", rng.String()},
		func(client storage.Storage) ([]byte, error) {
			if err := rng.Validate(); err != nil {
				return nil, storage.NewArgumentError("DownloadObject", client.ProviderName(), err)
			}
			return client.DownloadObject(ctx, bucketName, objectName, rng)
		})
}

func (s *StorageService) UploadObject(ctx context.Context, bucketName, objectName, providerName string, data []byte) (storage.Object, error) {
	return withClient(ctx, s, providerName, "UploadObject", []any{"bucket", bucketName, "object", objectName, "bytes", len(data)},
		func(client storage.Storage) (storage.Object, error) {
			return client.UploadObject(ctx, bucketName, objectName, data)
		})
}

// UploadURL returns a signed PUT URL, or ErrUploadURLUnsupported when the backend cannot sign one
func (s *StorageService) UploadURL(ctx context.Context, bucketName, objectName, providerName string) (string, error) {
	return withClient(ctx, s, providerName, "UploadURL", []any{"bucket", bucketName, "object", objectName},
		func(client storage.Storage) (string, error) {
			url, err := client.UploadURL(ctx, bucketName, objectName)
			if err != nil {
				return "", err
			}
			if url == "" {
				return "", fmt.Errorf("%s: %w", client.ProviderName(), ErrUploadURLUnsupported)
			}
			return url, nil
		})
}

// DownloadURL returns a signed GET URL, or the public object URL on backends without signing.
// The second result reports whether the URL is signed.
func (s *StorageService) DownloadURL(ctx context.Context, bucketName, objectName, providerName string) (string, bool, error) {
	var signed bool
	url, err := withClient(ctx, s, providerName, "DownloadURL", []any{"bucket", bucketName, "object", objectName},
		func(client storage.Storage) (string, error) {
			signed = client.Capabilities().Has(storage.CapSignedDownloadURL)
			return client.DownloadURL(ctx, bucketName, objectName)
		})
	return url, signed, err
}

func (s *StorageService) CopyObject(ctx context.Context, providerName, srcBucket, srcObject, dstBucket, dstObject string) (storage.Object, error) {
	attrs := []any{"src_bucket", srcBucket, "src_object", srcObject, "dst_bucket", dstBucket, "dst_object", dstObject}
	return withClient(ctx, s, providerName, "CopyObject", attrs,
		func(client storage.Storage) (storage.Object, error) {
			return client.CopyObject(ctx, srcBucket, srcObject, dstBucket, dstObject)
		})
}

func (s *StorageService) DeleteObject(ctx context.Context, bucketName, objectName, providerName string) error {
	_, err := withClient(ctx, s, providerName, "DeleteObject", []any{"bucket", bucketName, "object", objectName},
		func(client storage.Storage) (struct{}, error) {
			return struct{}{}, client.DeleteObject(ctx, bucketName, objectName)
		})
	return err
}

// Initializes the provider's client, runs fn against it, closes it and logs the outcome
func withClient[T any](ctx context.Context, s *StorageService, providerName, op string, attrs []any, fn func(storage.Storage) (T, error)) (T, error) {
	var zero T
	logAttrs := append([]any{"provider", providerName}, attrs...)
	s.logger.Debug("Starting "+op+" operation", logAttrs...)

	client, err := s.providers.GetStorageProvider(ctx, providerName)
	if err != nil {
		s.logger.Error("Failed to initialize provider", "provider", providerName, "error", err)
		return zero, fmt.Errorf("error initializing provider: %w", err)
	}
	defer s.closeClient(client, providerName)

	result, err := fn(client)
	if err != nil {
		s.logger.Error("Operation failed", append([]any{"operation", op, "error", err}, logAttrs...)...)
		return zero, err
	}
	return result, nil
}

func (s *StorageService) closeClient(client storage.Storage, providerName string) {
	if err := client.Close(); err != nil {
		s.logger.Warn("Failed to close provider client", "provider", providerName, "error", err)
	}
}
