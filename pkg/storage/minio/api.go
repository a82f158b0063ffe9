// File: pkg/storage/minio/api.go
package minio

import (
	"context"
	"io"
	"iter"
	"net/url"
	"time"

	miniogo "github.com/minio/minio-go/v7"
)

// minioAPI is the subset of *miniogo.Client the adapter issues requests through.
// GetObject returns a plain reader so tests can substitute an in-memory client.
type minioAPI interface {
	GetObject(ctx context.Context, bucketName, objectName string, opts miniogo.GetObjectOptions) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts miniogo.StatObjectOptions) (miniogo.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts miniogo.RemoveObjectOptions) error
	CopyObject(ctx context.Context, dst miniogo.CopyDestOptions, src miniogo.CopySrcOptions) (miniogo.UploadInfo, error)
	// Pulls pages lazily; a page is only requested once the previous one has been consumed
	ListObjectsIter(ctx context.Context, bucketName string, opts miniogo.ListObjectsOptions) iter.Seq[miniogo.ObjectInfo]
	MakeBucket(ctx context.Context, bucketName string, opts miniogo.MakeBucketOptions) error
	RemoveBucket(ctx context.Context, bucketName string) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	ListBuckets(ctx context.Context) ([]miniogo.BucketInfo, error)
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// sdkClient adapts *miniogo.Client to minioAPI
type sdkClient struct {
	*miniogo.Client
}

var _ minioAPI = sdkClient{}

func (c sdkClient) GetObject(ctx context.Context, bucketName, objectName string, opts miniogo.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}
