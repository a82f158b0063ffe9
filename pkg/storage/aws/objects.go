// File: pkg/storage/aws/objects.go
package aws

import (
	"bucketbridge/pkg/storage"
	"bytes"
	"context"
	"fmt"
	"io"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func (s *AWSStorage) DownloadObject(ctx context.Context, bucketName, objectName string, rng storage.ByteRange) ([]byte, error) {
	const op = "DownloadObject"
	s.logger.Debug("Starting AWS DownloadObject operation", "bucket", bucketName, "object", objectName, "range", rng.String())

	if err := rng.Validate(); err != nil {
		return nil, invalidArgument(op, "GetObject", err)
	}

	input := &s3.GetObjectInput{
		Bucket: awssdk.String(bucketName),
		Key:    awssdk.String(objectName),
	}
	if header := rng.HeaderValue(); header != "" {
		input.Range = awssdk.String(header)
	}

	out, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, mapError(op, "GetObject", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, mapError(op, "GetObject", fmt.Errorf("reading object body: %w", err))
	}
	return data, nil
}

// The PutObject response does not echo the content type, so ContentType is always empty
func (s *AWSStorage) UploadObject(ctx context.Context, bucketName, objectName string, data []byte) (storage.Object, error) {
	const op = "UploadObject"
	s.logger.Debug("Starting AWS UploadObject operation", "bucket", bucketName, "object", objectName, "bytes", len(data))

	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        awssdk.String(bucketName),
		Key:           awssdk.String(objectName),
		Body:          bytes.NewReader(data),
		ContentLength: awssdk.Int64(int64(len(data))),
	})
	if err != nil {
		return storage.Object{}, mapError(op, "PutObject", err)
	}

	return mapPutOutput(bucketName, objectName, out), nil
}

// Upload URLs are not issued for S3; callers get "" and should consult Capabilities
func (s *AWSStorage) UploadURL(ctx context.Context, bucketName, objectName string) (string, error) {
	s.logger.Debug("AWS UploadURL is not supported, returning an empty URL", "bucket", bucketName, "object", objectName)
	return "", nil
}

// Builds the conventional public URL; it only works for publicly readable objects
func (s *AWSStorage) DownloadURL(ctx context.Context, bucketName, objectName string) (string, error) {
	s.logger.Debug("Starting AWS DownloadURL operation", "bucket", bucketName, "object", objectName)

	u, err := publicObjectURL(s.endpoint, s.usePathStyle, bucketName, objectName)
	if err != nil {
		return "", invalidArgument("DownloadURL", "PublicURL", err)
	}
	return u, nil
}

func (s *AWSStorage) DeleteObject(ctx context.Context, bucketName, objectName string) error {
	s.logger.Debug("Starting AWS DeleteObject operation", "bucket", bucketName, "object", objectName)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: awssdk.String(bucketName),
		Key:    awssdk.String(objectName),
	})
	return mapError("DeleteObject", "DeleteObject", err)
}

// CopyObject only copies within one bucket. The S3 copy response lacks the full object
// metadata, so a successful copy is followed by a HeadObject on the destination (two requests).
func (s *AWSStorage) CopyObject(ctx context.Context, srcBucket, srcObject, dstBucket, dstObject string) (storage.Object, error) {
	const op = "CopyObject"
	s.logger.Debug("Starting AWS CopyObject operation", "srcBucket", srcBucket, "srcObject", srcObject, "dstBucket", dstBucket, "dstObject", dstObject)

	if srcBucket != dstBucket {
		return storage.Object{}, storage.NewError(op, &Error{
			Operation: "CopyObject",
			Code:      CodeCrossBucketCopy,
			Message:   fmt.Sprintf("source bucket %q and destination bucket %q must be the same on AWS S3", srcBucket, dstBucket),
		})
	}

	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     awssdk.String(dstBucket),
		Key:        awssdk.String(dstObject),
		CopySource: awssdk.String(copySource(srcBucket, srcObject)),
	})
	if err != nil {
		return storage.Object{}, mapError(op, "CopyObject", err)
	}

	return s.headObject(ctx, op, dstBucket, dstObject)
}

func (s *AWSStorage) GetObject(ctx context.Context, bucketName, objectName string) (storage.Object, error) {
	s.logger.Debug("Starting AWS GetObject operation", "bucket", bucketName, "object", objectName)
	return s.headObject(ctx, "GetObject", bucketName, objectName)
}

func (s *AWSStorage) headObject(ctx context.Context, op, bucketName, objectName string) (storage.Object, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: awssdk.String(bucketName),
		Key:    awssdk.String(objectName),
	})
	if err != nil {
		return storage.Object{}, mapError(op, "HeadObject", err)
	}
	return mapHeadOutput(bucketName, objectName, out), nil
}

func (s *AWSStorage) ListObjects(ctx context.Context, bucketName string, maxResults int) ([]storage.Object, error) {
	const op = "ListObjects"
	s.logger.Debug("Starting AWS ListObjects operation", "bucket", bucketName, "maxResults", maxResults)

	if err := storage.ValidateMaxResults(maxResults); err != nil {
		return nil, invalidArgument(op, "ListObjectsV2", err)
	}

	input := &s3.ListObjectsV2Input{
		Bucket:  awssdk.String(bucketName),
		MaxKeys: limitParam(maxResults, maxListKeys),
	}

	out, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, mapError(op, "ListObjectsV2", err)
	}

	objects := make([]storage.Object, 0, len(out.Contents))
	for _, item := range out.Contents {
		objects = append(objects, mapListedObject(bucketName, item))
	}
	return storage.Truncate(objects, maxResults), nil
}
