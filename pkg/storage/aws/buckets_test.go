package aws

import (
	"bucketbridge/pkg/storage"
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBucket(t *testing.T) {
	s, fake := newTestStorage(t)
	ctx := context.Background()

	bucket, err := s.CreateBucket(ctx, "new-bucket", "")
	require.NoError(t, err)
	assert.Equal(t, "new-bucket", bucket.Name)
	assert.Equal(t, "new-bucket", bucket.ID)
	assert.Equal(t, "eu-west-1", bucket.Location)
	assert.Equal(t, "eu-west-1", fake.buckets["new-bucket"].region)

	bucket, err = s.CreateBucket(ctx, "virginia", "us-east-1")
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", bucket.Location)
}

func TestCreateBucketCollisionIsConflict(t *testing.T) {
	s, _ := newTestStorage(t)

	_, err := s.CreateBucket(context.Background(), testBucket, "")
	require.Error(t, err)
	assert.True(t, storage.IsConflict(err))

	var detail *Error
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, CodeBucketAlreadyOwnedByYou, detail.Code)
	assert.Equal(t, "BucketAlreadyOwnedByYou", detail.APICode)
}

func TestGetBucket(t *testing.T) {
	s, fake := newTestStorage(t)
	fake.addBucket("virginia", defaultRegion)
	ctx := context.Background()

	bucket, err := s.GetBucket(ctx, testBucket)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", bucket.Location)

	bucket, err = s.GetBucket(ctx, "virginia")
	require.NoError(t, err)
	assert.Equal(t, defaultRegion, bucket.Location)

	_, err = s.GetBucket(ctx, "missing")
	assert.True(t, storage.IsNotFound(err))
}

func TestListBucketsHonoursMaxResults(t *testing.T) {
	s, fake := newTestStorage(t)
	for i := 0; i < 4; i++ {
		fake.addBucket(fmt.Sprintf("bucket-%d", i), "eu-central-1")
	}

	buckets, err := s.ListBuckets(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, buckets, 3)
	for _, b := range buckets {
		assert.NotEmpty(t, b.Name)
		assert.NotEmpty(t, b.Location)
	}

	all, err := s.ListBuckets(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestDeleteBucket(t *testing.T) {
	s, fake := newTestStorage(t)
	fake.addBucket("empty", "eu-west-1")
	fake.addObject(testBucket, "blocker", []byte("x"), "")
	ctx := context.Background()

	require.NoError(t, s.DeleteBucket(ctx, "empty"))

	err := s.DeleteBucket(ctx, "empty")
	assert.True(t, storage.IsNotFound(err))

	err = s.DeleteBucket(ctx, testBucket)
	require.Error(t, err)
	assert.True(t, storage.IsConflict(err))
}

func TestListBucketsHugeMaxResultsDoesNotWrap(t *testing.T) {
	s, fake := newTestStorage(t)
	fake.addBucket("archive", "eu-west-1")

	buckets, err := s.ListBuckets(context.Background(), math.MaxInt32+1)
	require.NoError(t, err)
	assert.Len(t, buckets, 2)
}
