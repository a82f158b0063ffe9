// File: pkg/storage/minio/objects.go
package minio

import (
	"bucketbridge/pkg/storage"
	"bytes"
	"context"
	"fmt"
	"io"

	miniogo "github.com/minio/minio-go/v7"
)

// The SDK opens the object lazily, so service errors may only surface while reading
func (m *MinIOStorage) DownloadObject(ctx context.Context, bucketName, objectName string, rng storage.ByteRange) ([]byte, error) {
	const op = "DownloadObject"
	m.logger.Debug("Starting MinIO DownloadObject operation", "bucket", bucketName, "object", objectName, "range", rng.String())

	if err := rng.Validate(); err != nil {
		return nil, invalidArgument(op, "GetObject", err)
	}
	if err := checkObjectName(op, "GetObject", bucketName, objectName); err != nil {
		return nil, err
	}

	opts := miniogo.GetObjectOptions{}
	if err := applyRange(&opts, rng); err != nil {
		return nil, invalidArgument(op, "GetObject", err)
	}

	reader, err := m.client.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, mapError(op, "GetObject", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, mapError(op, "GetObject", fmt.Errorf("reading object body: %w", err))
	}
	return data, nil
}

func (m *MinIOStorage) UploadObject(ctx context.Context, bucketName, objectName string, data []byte) (storage.Object, error) {
	const op = "UploadObject"
	m.logger.Debug("Starting MinIO UploadObject operation", "bucket", bucketName, "object", objectName, "bytes", len(data))

	if err := checkObjectName(op, "PutObject", bucketName, objectName); err != nil {
		return storage.Object{}, err
	}

	// A known size keeps the upload to a single PUT
	info, err := m.client.PutObject(ctx, bucketName, objectName, bytes.NewReader(data), int64(len(data)), miniogo.PutObjectOptions{})
	if err != nil {
		return storage.Object{}, mapError(op, "PutObject", err)
	}
	return mapUploadInfo(bucketName, objectName, info), nil
}

func (m *MinIOStorage) UploadURL(ctx context.Context, bucketName, objectName string) (string, error) {
	m.logger.Debug("Starting MinIO UploadURL operation", "bucket", bucketName, "object", objectName, "expiry", m.expiry)

	if err := checkObjectName("UploadURL", "PresignedPutObject", bucketName, objectName); err != nil {
		return "", err
	}

	u, err := m.client.PresignedPutObject(ctx, bucketName, objectName, m.expiry)
	if err != nil {
		return "", mapError("UploadURL", "PresignedPutObject", err)
	}
	return u.String(), nil
}

func (m *MinIOStorage) DownloadURL(ctx context.Context, bucketName, objectName string) (string, error) {
	m.logger.Debug("Starting MinIO DownloadURL operation", "bucket", bucketName, "object", objectName, "expiry", m.expiry)

	if err := checkObjectName("DownloadURL", "PresignedGetObject", bucketName, objectName); err != nil {
		return "", err
	}

	u, err := m.client.PresignedGetObject(ctx, bucketName, objectName, m.expiry, nil)
	if err != nil {
		return "", mapError("DownloadURL", "PresignedGetObject", err)
	}
	return u.String(), nil
}

// Removing a key that does not exist succeeds
func (m *MinIOStorage) DeleteObject(ctx context.Context, bucketName, objectName string) error {
	m.logger.Debug("Starting MinIO DeleteObject operation", "bucket", bucketName, "object", objectName)

	if err := checkObjectName("DeleteObject", "RemoveObject", bucketName, objectName); err != nil {
		return err
	}

	err := m.client.RemoveObject(ctx, bucketName, objectName, miniogo.RemoveObjectOptions{})
	return mapError("DeleteObject", "RemoveObject", err)
}

// Server-side copy within or across buckets, followed by a StatObject on the destination
// since the copy response lacks the content type
func (m *MinIOStorage) CopyObject(ctx context.Context, srcBucket, srcObject, dstBucket, dstObject string) (storage.Object, error) {
	const op = "CopyObject"
	m.logger.Debug("Starting MinIO CopyObject operation", "srcBucket", srcBucket, "srcObject", srcObject, "dstBucket", dstBucket, "dstObject", dstObject)

	if err := checkObjectName(op, "CopyObject", srcBucket, srcObject); err != nil {
		return storage.Object{}, err
	}
	if err := checkObjectName(op, "CopyObject", dstBucket, dstObject); err != nil {
		return storage.Object{}, err
	}

	src := miniogo.CopySrcOptions{Bucket: srcBucket, Object: srcObject}
	dst := miniogo.CopyDestOptions{Bucket: dstBucket, Object: dstObject}
	if _, err := m.client.CopyObject(ctx, dst, src); err != nil {
		return storage.Object{}, mapError(op, "CopyObject", err)
	}

	return m.statObject(ctx, op, dstBucket, dstObject)
}

func (m *MinIOStorage) GetObject(ctx context.Context, bucketName, objectName string) (storage.Object, error) {
	m.logger.Debug("Starting MinIO GetObject operation", "bucket", bucketName, "object", objectName)
	if err := checkObjectName("GetObject", "StatObject", bucketName, objectName); err != nil {
		return storage.Object{}, err
	}
	return m.statObject(ctx, "GetObject", bucketName, objectName)
}

func (m *MinIOStorage) statObject(ctx context.Context, op, bucketName, objectName string) (storage.Object, error) {
	info, err := m.client.StatObject(ctx, bucketName, objectName, miniogo.StatObjectOptions{})
	if err != nil {
		return storage.Object{}, mapError(op, "StatObject", err)
	}
	return mapObjectInfo(bucketName, info), nil
}

// Returns the first page only. The page size is always sent as max-keys, and iteration stops
// inside the page so the SDK never requests the continuation.
func (m *MinIOStorage) ListObjects(ctx context.Context, bucketName string, maxResults int) ([]storage.Object, error) {
	const op = "ListObjects"
	m.logger.Debug("Starting MinIO ListObjects operation", "bucket", bucketName, "maxResults", maxResults)

	if err := storage.ValidateMaxResults(maxResults); err != nil {
		return nil, invalidArgument(op, "ListObjects", err)
	}
	if err := checkBucketName(op, "ListObjects", bucketName); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	size := pageSize(maxResults)
	opts := miniogo.ListObjectsOptions{Recursive: true, MaxKeys: size}
	objects := make([]storage.Object, 0)
	for info := range m.client.ListObjectsIter(ctx, bucketName, opts) {
		if info.Err != nil {
			return nil, mapError(op, "ListObjects", info.Err)
		}
		objects = append(objects, mapObjectInfo(bucketName, info))
		if len(objects) >= size {
			break
		}
	}
	return objects, nil
}

// S3 never returns more than 1000 keys per listing page
func pageSize(maxResults int) int {
	if maxResults > 0 && maxResults < maxPageSize {
		return maxResults
	}
	return maxPageSize
}
