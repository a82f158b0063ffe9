// File: pkg/storage/gcp/buckets.go
package gcp

import (
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"context"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Fetches a single page of the project's buckets
func (g *GCPStorage) ListBuckets(ctx context.Context, maxResults int) ([]storage.Bucket, error) {
	const op = "ListBuckets"
	g.logger.Debug("Starting GCP ListBuckets operation", "project", g.projectID, "maxResults", maxResults)

	if err := storage.ValidateMaxResults(maxResults); err != nil {
		return nil, invalidArgument(op, "Client.Buckets", err)
	}

	it := g.client.Buckets(ctx, g.projectID)
	var page []*gcpstorage.BucketAttrs
	if _, err := iterator.NewPager(it, pageSize(maxResults), "").NextPage(&page); err != nil {
		return nil, mapError(op, "Client.Buckets", err)
	}

	buckets := make([]storage.Bucket, 0, len(page))
	for _, attrs := range page {
		buckets = append(buckets, mapBucketAttrs(attrs))
	}
	return storage.Truncate(buckets, maxResults), nil
}

func (g *GCPStorage) GetBucket(ctx context.Context, bucketName string) (storage.Bucket, error) {
	g.logger.Debug("Starting GCP GetBucket operation", "bucket", bucketName)

	attrs, err := g.client.Bucket(bucketName).Attrs(ctx)
	if err != nil {
		return storage.Bucket{}, mapError("GetBucket", "BucketHandle.Attrs", err)
	}
	return mapBucketAttrs(attrs), nil
}

// The create call returns no attributes, so the result echoes the request.
// Location is empty when the provider default was used.
func (g *GCPStorage) CreateBucket(ctx context.Context, bucketName, location string) (storage.Bucket, error) {
	g.logger.Debug("Starting GCP CreateBucket operation", "bucket", bucketName, "location", location)

	attrs := &gcpstorage.BucketAttrs{Location: location}
	if err := g.client.Bucket(bucketName).Create(ctx, g.projectID, attrs); err != nil {
		return storage.Bucket{}, mapError("CreateBucket", "BucketHandle.Create", err)
	}

	return storage.Bucket{
		ID:       bucketName,
		Name:     bucketName,
		Location: location,
		Provider: common.GCP,
	}, nil
}

func (g *GCPStorage) DeleteBucket(ctx context.Context, bucketName string) error {
	g.logger.Debug("Starting GCP DeleteBucket operation", "bucket", bucketName)

	err := g.client.Bucket(bucketName).Delete(ctx)
	return mapError("DeleteBucket", "BucketHandle.Delete", err)
}
