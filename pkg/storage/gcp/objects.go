// File: pkg/storage/gcp/objects.go
package gcp

import (
	"bucketbridge/pkg/storage"
	"context"
	"fmt"
	"io"

	gcpstorage "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Pages the JSON API returns when the caller does not bound a listing
const defaultPageSize = 1000

func (g *GCPStorage) DownloadObject(ctx context.Context, bucketName, objectName string, rng storage.ByteRange) ([]byte, error) {
	const op = "DownloadObject"
	g.logger.Debug("Starting GCP DownloadObject operation", "bucket", bucketName, "object", objectName, "range", rng.String())

	if err := rng.Validate(); err != nil {
		return nil, invalidArgument(op, "ObjectHandle.NewRangeReader", err)
	}

	offset, length := rangeToOffsetLength(rng)
	reader, err := g.client.Bucket(bucketName).Object(objectName).NewRangeReader(ctx, offset, length)
	if err != nil {
		return nil, mapError(op, "ObjectHandle.NewRangeReader", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, mapError(op, "Reader.Read", fmt.Errorf("reading object body: %w", err))
	}
	return data, nil
}

func (g *GCPStorage) UploadObject(ctx context.Context, bucketName, objectName string, data []byte) (storage.Object, error) {
	const op = "UploadObject"
	g.logger.Debug("Starting GCP UploadObject operation", "bucket", bucketName, "object", objectName, "bytes", len(data))

	writer := g.client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	// Single-request upload; the payload is already in memory
	writer.ChunkSize = 0

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return storage.Object{}, mapError(op, "Writer.Write", err)
	}
	if err := writer.Close(); err != nil {
		return storage.Object{}, mapError(op, "Writer.Close", err)
	}

	return mapObjectAttrs(writer.Attrs()), nil
}

func (g *GCPStorage) DeleteObject(ctx context.Context, bucketName, objectName string) error {
	g.logger.Debug("Starting GCP DeleteObject operation", "bucket", bucketName, "object", objectName)

	err := g.client.Bucket(bucketName).Object(objectName).Delete(ctx)
	return mapError("DeleteObject", "ObjectHandle.Delete", err)
}

// Copies within or across buckets with a single rewrite call; the response carries the destination metadata
func (g *GCPStorage) CopyObject(ctx context.Context, srcBucket, srcObject, dstBucket, dstObject string) (storage.Object, error) {
	g.logger.Debug("Starting GCP CopyObject operation", "srcBucket", srcBucket, "srcObject", srcObject, "dstBucket", dstBucket, "dstObject", dstObject)

	src := g.client.Bucket(srcBucket).Object(srcObject)
	dst := g.client.Bucket(dstBucket).Object(dstObject)

	attrs, err := dst.CopierFrom(src).Run(ctx)
	if err != nil {
		return storage.Object{}, mapError("CopyObject", "Copier.Run", err)
	}
	return mapObjectAttrs(attrs), nil
}

func (g *GCPStorage) GetObject(ctx context.Context, bucketName, objectName string) (storage.Object, error) {
	g.logger.Debug("Starting GCP GetObject operation", "bucket", bucketName, "object", objectName)

	attrs, err := g.client.Bucket(bucketName).Object(objectName).Attrs(ctx)
	if err != nil {
		return storage.Object{}, mapError("GetObject", "ObjectHandle.Attrs", err)
	}
	return mapObjectAttrs(attrs), nil
}

// Fetches a single page of objects
func (g *GCPStorage) ListObjects(ctx context.Context, bucketName string, maxResults int) ([]storage.Object, error) {
	const op = "ListObjects"
	g.logger.Debug("Starting GCP ListObjects operation", "bucket", bucketName, "maxResults", maxResults)

	if err := storage.ValidateMaxResults(maxResults); err != nil {
		return nil, invalidArgument(op, "BucketHandle.Objects", err)
	}

	it := g.client.Bucket(bucketName).Objects(ctx, &gcpstorage.Query{})
	var page []*gcpstorage.ObjectAttrs
	if _, err := iterator.NewPager(it, pageSize(maxResults), "").NextPage(&page); err != nil {
		return nil, mapError(op, "BucketHandle.Objects", err)
	}

	objects := make([]storage.Object, 0, len(page))
	for _, attrs := range page {
		objects = append(objects, mapObjectAttrs(attrs))
	}
	return storage.Truncate(objects, maxResults), nil
}

func pageSize(maxResults int) int {
	if maxResults > 0 {
		return maxResults
	}
	return defaultPageSize
}
