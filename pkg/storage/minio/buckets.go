// File: pkg/storage/minio/buckets.go
package minio

import (
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"context"
	"fmt"
	"net/http"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/s3utils"
)

// The server returns every bucket in one response; the result is truncated client-side
func (m *MinIOStorage) ListBuckets(ctx context.Context, maxResults int) ([]storage.Bucket, error) {
	const op = "ListBuckets"
	m.logger.Debug("Starting MinIO ListBuckets operation", "maxResults", maxResults)

	if err := storage.ValidateMaxResults(maxResults); err != nil {
		return nil, invalidArgument(op, "ListBuckets", err)
	}

	raw, err := m.client.ListBuckets(ctx)
	if err != nil {
		return nil, mapError(op, "ListBuckets", err)
	}

	buckets := make([]storage.Bucket, 0, len(raw))
	for _, b := range raw {
		buckets = append(buckets, mapBucketInfo(b))
	}
	return storage.Truncate(buckets, maxResults), nil
}

// The client is pinned to a region, so GetBucketLocation would answer from configuration
// without asking the server. Existence is checked with a HEAD on the bucket instead.
func (m *MinIOStorage) GetBucket(ctx context.Context, bucketName string) (storage.Bucket, error) {
	const op = "GetBucket"
	m.logger.Debug("Starting MinIO GetBucket operation", "bucket", bucketName)

	if err := checkBucketName(op, "BucketExists", bucketName); err != nil {
		return storage.Bucket{}, err
	}

	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return storage.Bucket{}, mapError(op, "BucketExists", err)
	}
	if !exists {
		return storage.Bucket{}, storage.NewError(op, &Error{
			Operation:  "BucketExists",
			Code:       CodeNoSuchBucket,
			APICode:    "NoSuchBucket",
			Message:    fmt.Sprintf("bucket %q does not exist", bucketName),
			StatusCode: http.StatusNotFound,
		})
	}

	return storage.Bucket{
		ID:       bucketName,
		Name:     bucketName,
		Location: m.region,
		Provider: common.MinIO,
	}, nil
}

func (m *MinIOStorage) CreateBucket(ctx context.Context, bucketName, location string) (storage.Bucket, error) {
	m.logger.Debug("Starting MinIO CreateBucket operation", "bucket", bucketName, "location", location)

	// New buckets must satisfy the strict S3 naming rules
	if err := s3utils.CheckValidBucketNameStrict(bucketName); err != nil {
		return storage.Bucket{}, invalidArgument("CreateBucket", "MakeBucket", err)
	}

	region := location
	if region == "" {
		region = m.region
	}

	if err := m.client.MakeBucket(ctx, bucketName, miniogo.MakeBucketOptions{Region: region}); err != nil {
		return storage.Bucket{}, mapError("CreateBucket", "MakeBucket", err)
	}

	return storage.Bucket{
		ID:       bucketName,
		Name:     bucketName,
		Location: region,
		Provider: common.MinIO,
	}, nil
}

func (m *MinIOStorage) DeleteBucket(ctx context.Context, bucketName string) error {
	m.logger.Debug("Starting MinIO DeleteBucket operation", "bucket", bucketName)

	if err := checkBucketName("DeleteBucket", "RemoveBucket", bucketName); err != nil {
		return err
	}
	err := m.client.RemoveBucket(ctx, bucketName)
	return mapError("DeleteBucket", "RemoveBucket", err)
}
