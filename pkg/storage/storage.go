// File: pkg/storage/storage.go
package storage

import (
	"bucketbridge/pkg/common"
	"context"
	"fmt"
)

// Storage is the operation set every backend adapter implements.
// Implementations hold no mutable state besides the shared SDK client and are safe for concurrent use.
// Every failure is returned as an *Error.
type Storage interface {
	// Downloads the whole object, or the selected range, in a single call
	DownloadObject(ctx context.Context, bucketName, objectName string, rng ByteRange) ([]byte, error)
	// Uploads data in a single call, overwriting any object with the same name.
	// The ContentType of the result may be empty and Size may be -1, depending on the backend.
	UploadObject(ctx context.Context, bucketName, objectName string, data []byte) (Object, error)
	// Returns a pre-authorized URL a third party can PUT the object to.
	// Backends without upload signing return "" and a nil error; see Capabilities.
	UploadURL(ctx context.Context, bucketName, objectName string) (string, error)
	// Returns a pre-authorized URL, or a conventional public URL when the backend cannot sign
	DownloadURL(ctx context.Context, bucketName, objectName string) (string, error)

	// Deleting an absent bucket or object may or may not report KindNotFound depending on the backend
	DeleteBucket(ctx context.Context, bucketName string) error
	DeleteObject(ctx context.Context, bucketName, objectName string) error

	// Creates a bucket; an empty location uses the provider default. Name collisions surface as KindConflict.
	CreateBucket(ctx context.Context, bucketName, location string) (Bucket, error)
	// Copies an object. Same-bucket-only backends reject cross-bucket requests with KindUnsupported
	// before issuing any network call.
	CopyObject(ctx context.Context, srcBucket, srcObject, dstBucket, dstObject string) (Object, error)

	// Returns the first page of buckets, bounded by maxResults when it is positive
	ListBuckets(ctx context.Context, maxResults int) ([]Bucket, error)
	GetBucket(ctx context.Context, bucketName string) (Bucket, error)
	GetObject(ctx context.Context, bucketName, objectName string) (Object, error)
	// Returns the first page of objects, bounded by maxResults when it is positive
	ListObjects(ctx context.Context, bucketName string, maxResults int) ([]Object, error)

	ProviderName() common.Provider
	Capabilities() Capabilities
	Close() error
}

// UsageReporter is implemented by backends that can report the stored bytes of a bucket
type UsageReporter interface {
	BucketUsage(ctx context.Context, bucketName string) (int64, error)
}

// ValidateMaxResults rejects negative page bounds; zero means "let the backend decide"
func ValidateMaxResults(maxResults int) error {
	if maxResults < 0 {
		return fmt.Errorf("max results must not be negative, got %d", maxResults)
	}
	return nil
}

// Truncate bounds a slice to maxResults entries when maxResults is positive
func Truncate[T any](items []T, maxResults int) []T {
	if maxResults > 0 && len(items) > maxResults {
		return items[:maxResults]
	}
	return items
}
