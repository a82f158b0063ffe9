// File: pkg/storage/aws/buckets.go
package aws

import (
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"context"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// us-east-1 is reported by S3 as an empty location constraint
const defaultRegion = "us-east-1"

func (s *AWSStorage) ListBuckets(ctx context.Context, maxResults int) ([]storage.Bucket, error) {
	const op = "ListBuckets"
	s.logger.Debug("Starting AWS ListBuckets operation", "maxResults", maxResults)

	if err := storage.ValidateMaxResults(maxResults); err != nil {
		return nil, invalidArgument(op, "ListBuckets", err)
	}

	input := &s3.ListBucketsInput{MaxBuckets: limitParam(maxResults, maxListBuckets)}

	out, err := s.client.ListBuckets(ctx, input)
	if err != nil {
		return nil, mapError(op, "ListBuckets", err)
	}

	buckets := make([]storage.Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, mapBucket(b))
	}
	return storage.Truncate(buckets, maxResults), nil
}

func (s *AWSStorage) GetBucket(ctx context.Context, bucketName string) (storage.Bucket, error) {
	s.logger.Debug("Starting AWS GetBucket operation", "bucket", bucketName)

	out, err := s.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: awssdk.String(bucketName),
	})
	if err != nil {
		return storage.Bucket{}, mapError("GetBucket", "GetBucketLocation", err)
	}

	location := string(out.LocationConstraint)
	if location == "" {
		location = defaultRegion
	}

	return storage.Bucket{
		ID:       bucketName,
		Name:     bucketName,
		Location: location,
		Provider: common.AWS,
	}, nil
}

// The returned location is the region the bucket was requested in; no extra call is made to confirm it
func (s *AWSStorage) CreateBucket(ctx context.Context, bucketName, location string) (storage.Bucket, error) {
	s.logger.Debug("Starting AWS CreateBucket operation", "bucket", bucketName, "location", location)

	region := location
	if region == "" {
		region = s.region
	}

	input := &s3.CreateBucketInput{Bucket: awssdk.String(bucketName)}
	if region != "" && region != defaultRegion {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		}
	}

	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		return storage.Bucket{}, mapError("CreateBucket", "CreateBucket", err)
	}

	return storage.Bucket{
		ID:       bucketName,
		Name:     bucketName,
		Location: region,
		Provider: common.AWS,
	}, nil
}

func (s *AWSStorage) DeleteBucket(ctx context.Context, bucketName string) error {
	s.logger.Debug("Starting AWS DeleteBucket operation", "bucket", bucketName)

	_, err := s.client.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: awssdk.String(bucketName),
	})
	return mapError("DeleteBucket", "DeleteBucket", err)
}
