// File: pkg/storage/gcp/mappers.go
package gcp

import (
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"fmt"

	gcpstorage "cloud.google.com/go/storage"
)

// Object IDs follow the JSON API form: bucket/name/generation
func objectID(attrs *gcpstorage.ObjectAttrs) string {
	return fmt.Sprintf("%s/%s/%d", attrs.Bucket, attrs.Name, attrs.Generation)
}

func mapObjectAttrs(attrs *gcpstorage.ObjectAttrs) storage.Object {
	if attrs == nil {
		return storage.Object{Size: -1, Provider: common.GCP}
	}
	return storage.Object{
		ID:          objectID(attrs),
		Name:        attrs.Name,
		BucketName:  attrs.Bucket,
		Size:        attrs.Size,
		ContentType: attrs.ContentType,
		Provider:    common.GCP,
		ETag:        attrs.Etag,
		UpdatedAt:   attrs.Updated,
	}
}

func mapBucketAttrs(attrs *gcpstorage.BucketAttrs) storage.Bucket {
	if attrs == nil {
		return storage.Bucket{Provider: common.GCP}
	}
	return storage.Bucket{
		ID:        attrs.Name,
		Name:      attrs.Name,
		Location:  attrs.Location,
		Provider:  common.GCP,
		CreatedAt: attrs.Created,
	}
}

// Translates a ByteRange into NewRangeReader arguments.
// A negative offset reads from the end of the object and requires a negative length.
func rangeToOffsetLength(rng storage.ByteRange) (offset, length int64) {
	switch {
	case rng.Start != nil && rng.End != nil:
		return *rng.Start, *rng.End - *rng.Start + 1
	case rng.Start != nil:
		return *rng.Start, -1
	case rng.End != nil:
		return -*rng.End, -1
	default:
		return 0, -1
	}
}
