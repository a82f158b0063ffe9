// File: pkg/storage/aws/mappers.go
package aws

import (
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"fmt"
	"net/url"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Service-side ceilings for a single listing request
const (
	maxListKeys    = 1000
	maxListBuckets = 10000
)

// Converts a positive page bound into a request parameter, clamped to what S3 accepts.
// Zero leaves the parameter unset so the service default applies.
func limitParam(maxResults, ceiling int) *int32 {
	if maxResults <= 0 {
		return nil
	}
	return awssdk.Int32(int32(min(maxResults, ceiling)))
}

func mapPutOutput(bucketName, objectName string, out *s3.PutObjectOutput) storage.Object {
	etag := trimETag(awssdk.ToString(out.ETag))
	size := int64(-1)
	if out.Size != nil {
		size = *out.Size
	}
	return storage.Object{
		ID:         etag,
		Name:       objectName,
		BucketName: bucketName,
		Size:       size,
		Provider:   common.AWS,
		ETag:       etag,
	}
}

func mapHeadOutput(bucketName, objectName string, out *s3.HeadObjectOutput) storage.Object {
	etag := trimETag(awssdk.ToString(out.ETag))
	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return storage.Object{
		ID:          etag,
		Name:        objectName,
		BucketName:  bucketName,
		Size:        size,
		ContentType: awssdk.ToString(out.ContentType),
		Provider:    common.AWS,
		ETag:        etag,
		UpdatedAt:   awssdk.ToTime(out.LastModified),
	}
}

// Listings carry no content type
func mapListedObject(bucketName string, item types.Object) storage.Object {
	etag := trimETag(awssdk.ToString(item.ETag))
	size := int64(-1)
	if item.Size != nil {
		size = *item.Size
	}
	return storage.Object{
		ID:         etag,
		Name:       awssdk.ToString(item.Key),
		BucketName: bucketName,
		Size:       size,
		Provider:   common.AWS,
		ETag:       etag,
		UpdatedAt:  awssdk.ToTime(item.LastModified),
	}
}

func mapBucket(b types.Bucket) storage.Bucket {
	name := awssdk.ToString(b.Name)
	return storage.Bucket{
		ID:        name,
		Name:      name,
		Location:  awssdk.ToString(b.BucketRegion),
		Provider:  common.AWS,
		CreatedAt: awssdk.ToTime(b.CreationDate),
	}
}

// S3 returns entity tags wrapped in double quotes
func trimETag(etag string) string {
	return strings.Trim(etag, `"`)
}

// Escapes each segment of an object key, keeping the separators
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

func copySource(bucketName, objectName string) string {
	return bucketName + "/" + escapeKey(objectName)
}

// Builds the public URL of an object: virtual-hosted on AWS, path-style or
// virtual-hosted on a custom endpoint depending on configuration
func publicObjectURL(endpoint string, usePathStyle bool, bucketName, objectName string) (string, error) {
	key := escapeKey(objectName)
	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucketName, key), nil
	}

	base, err := url.Parse(endpoint)
	if err != nil || base.Host == "" {
		return "", fmt.Errorf("invalid S3 endpoint %q", endpoint)
	}
	if usePathStyle {
		return fmt.Sprintf("%s://%s/%s/%s", base.Scheme, base.Host, bucketName, key), nil
	}
	return fmt.Sprintf("%s://%s.%s/%s", base.Scheme, bucketName, base.Host, key), nil
}
