// File: pkg/storage/minio/mappers.go
package minio

import (
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"

	miniogo "github.com/minio/minio-go/v7"
)

// The upload response does not echo the content type
func mapUploadInfo(bucketName, objectName string, info miniogo.UploadInfo) storage.Object {
	return storage.Object{
		ID:         info.ETag,
		Name:       objectName,
		BucketName: bucketName,
		Size:       info.Size,
		Provider:   common.MinIO,
		ETag:       info.ETag,
		UpdatedAt:  info.LastModified,
	}
}

func mapObjectInfo(bucketName string, info miniogo.ObjectInfo) storage.Object {
	return storage.Object{
		ID:          info.ETag,
		Name:        info.Key,
		BucketName:  bucketName,
		Size:        info.Size,
		ContentType: info.ContentType,
		Provider:    common.MinIO,
		ETag:        info.ETag,
		UpdatedAt:   info.LastModified,
	}
}

// Bucket listings do not report a location
func mapBucketInfo(info miniogo.BucketInfo) storage.Bucket {
	return storage.Bucket{
		ID:        info.Name,
		Name:      info.Name,
		Provider:  common.MinIO,
		CreatedAt: info.CreationDate,
	}
}

// Applies a validated ByteRange to the request. SetRange cannot express "from offset 0",
// which is the whole object anyway.
func applyRange(opts *miniogo.GetObjectOptions, rng storage.ByteRange) error {
	switch {
	case rng.Start != nil && rng.End != nil:
		return opts.SetRange(*rng.Start, *rng.End)
	case rng.Start != nil && *rng.Start > 0:
		return opts.SetRange(*rng.Start, 0)
	case rng.End != nil:
		return opts.SetRange(0, -*rng.End)
	default:
		return nil
	}
}
