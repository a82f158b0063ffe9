package minio

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	miniogo "github.com/minio/minio-go/v7"
)

// fakeMinio is an in-memory stand-in for the MinIO client, counting every request it receives
type fakeMinio struct {
	mu           sync.Mutex
	buckets      map[string]*fakeBucket
	calls        int
	listRequests int
	lastRange    string
}

type fakeBucket struct {
	region  string
	created time.Time
	objects map[string]fakeObject
}

type fakeObject struct {
	data        []byte
	contentType string
	etag        string
	modified    time.Time
}

var _ minioAPI = (*fakeMinio)(nil)

func newFakeMinio() *fakeMinio {
	return &fakeMinio{buckets: make(map[string]*fakeBucket)}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (f *fakeMinio) addBucket(name, region string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[name] = &fakeBucket{region: region, created: time.Now(), objects: make(map[string]fakeObject)}
}

func (f *fakeMinio) addObject(bucket, key string, data []byte, contentType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[bucket].objects[key] = newFakeObject(data, contentType)
}

func (f *fakeMinio) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeMinio) begin() {
	f.mu.Lock()
	f.calls++
}

func newFakeObject(data []byte, contentType string) fakeObject {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return fakeObject{
		data:        append([]byte(nil), data...),
		contentType: contentType,
		etag:        fmt.Sprintf("%x", md5.Sum(data)),
		modified:    time.Now().UTC(),
	}
}

func errorResponse(status int, code, bucket, key string) error {
	return miniogo.ErrorResponse{
		Code:       code,
		Message:    code,
		BucketName: bucket,
		Key:        key,
		RequestID:  "req-456",
		StatusCode: status,
	}
}

func noSuchBucket(bucket string) error {
	return errorResponse(http.StatusNotFound, "NoSuchBucket", bucket, "")
}

func (f *fakeMinio) lookup(bucket, key string) (fakeObject, error) {
	b, ok := f.buckets[bucket]
	if !ok {
		return fakeObject{}, noSuchBucket(bucket)
	}
	obj, ok := b.objects[key]
	if !ok {
		return fakeObject{}, errorResponse(http.StatusNotFound, "NoSuchKey", bucket, key)
	}
	return obj, nil
}

func (f *fakeMinio) GetObject(ctx context.Context, bucketName, objectName string, opts miniogo.GetObjectOptions) (io.ReadCloser, error) {
	f.begin()
	defer f.mu.Unlock()

	f.lastRange = opts.Header().Get("Range")
	obj, err := f.lookup(bucketName, objectName)
	if err != nil {
		return nil, err
	}
	data, err := sliceRange(obj.data, f.lastRange)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func sliceRange(data []byte, header string) ([]byte, error) {
	if header == "" {
		return data, nil
	}
	size := int64(len(data))
	startStr, endStr, _ := strings.Cut(strings.TrimPrefix(header, "bytes="), "-")

	var start, end int64
	switch {
	case startStr == "":
		n, _ := strconv.ParseInt(endStr, 10, 64)
		if n > size {
			n = size
		}
		start, end = size-n, size-1
	case endStr == "":
		start, _ = strconv.ParseInt(startStr, 10, 64)
		end = size - 1
	default:
		start, _ = strconv.ParseInt(startStr, 10, 64)
		end, _ = strconv.ParseInt(endStr, 10, 64)
		if end >= size {
			end = size - 1
		}
	}
	if size > 0 && start >= size {
		return nil, errorResponse(http.StatusRequestedRangeNotSatisfiable, "InvalidRange", "", "")
	}
	return data[start : end+1], nil
}

func (f *fakeMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error) {
	f.begin()
	defer f.mu.Unlock()

	b, ok := f.buckets[bucketName]
	if !ok {
		return miniogo.UploadInfo{}, noSuchBucket(bucketName)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return miniogo.UploadInfo{}, err
	}
	if int64(len(data)) != objectSize {
		return miniogo.UploadInfo{}, fmt.Errorf("size mismatch: declared %d, read %d", objectSize, len(data))
	}
	obj := newFakeObject(data, opts.ContentType)
	b.objects[objectName] = obj
	return miniogo.UploadInfo{Bucket: bucketName, Key: objectName, ETag: obj.etag, Size: int64(len(data))}, nil
}

func (f *fakeMinio) StatObject(ctx context.Context, bucketName, objectName string, opts miniogo.StatObjectOptions) (miniogo.ObjectInfo, error) {
	f.begin()
	defer f.mu.Unlock()

	obj, err := f.lookup(bucketName, objectName)
	if err != nil {
		// HEAD responses carry no error code
		return miniogo.ObjectInfo{}, errorResponse(http.StatusNotFound, "", bucketName, objectName)
	}
	return miniogo.ObjectInfo{
		Key:          objectName,
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		ETag:         obj.etag,
		LastModified: obj.modified,
	}, nil
}

func (f *fakeMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts miniogo.RemoveObjectOptions) error {
	f.begin()
	defer f.mu.Unlock()

	b, ok := f.buckets[bucketName]
	if !ok {
		return noSuchBucket(bucketName)
	}
	delete(b.objects, objectName)
	return nil
}

func (f *fakeMinio) CopyObject(ctx context.Context, dst miniogo.CopyDestOptions, src miniogo.CopySrcOptions) (miniogo.UploadInfo, error) {
	f.begin()
	defer f.mu.Unlock()

	obj, err := f.lookup(src.Bucket, src.Object)
	if err != nil {
		return miniogo.UploadInfo{}, err
	}
	target, ok := f.buckets[dst.Bucket]
	if !ok {
		return miniogo.UploadInfo{}, noSuchBucket(dst.Bucket)
	}
	copied := newFakeObject(obj.data, obj.contentType)
	target.objects[dst.Object] = copied
	return miniogo.UploadInfo{Bucket: dst.Bucket, Key: dst.Object, ETag: copied.etag}, nil
}

// Serves the listing in pages of opts.MaxKeys (1000 when unset), one counted request per page
func (f *fakeMinio) ListObjectsIter(ctx context.Context, bucketName string, opts miniogo.ListObjectsOptions) iter.Seq[miniogo.ObjectInfo] {
	size := opts.MaxKeys
	if size <= 0 {
		size = 1000
	}

	return func(yield func(miniogo.ObjectInfo) bool) {
		for start := 0; ; start += size {
			page, truncated, err := f.listPage(bucketName, start, size)
			if err != nil {
				yield(miniogo.ObjectInfo{Err: err})
				return
			}
			for _, info := range page {
				if !yield(info) {
					return
				}
			}
			if !truncated || ctx.Err() != nil {
				return
			}
		}
	}
}

func (f *fakeMinio) listPage(bucketName string, start, size int) ([]miniogo.ObjectInfo, bool, error) {
	f.begin()
	defer f.mu.Unlock()
	f.listRequests++

	b, ok := f.buckets[bucketName]
	if !ok {
		return nil, false, noSuchBucket(bucketName)
	}

	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if start > len(keys) {
		start = len(keys)
	}
	end := min(start+size, len(keys))

	page := make([]miniogo.ObjectInfo, 0, end-start)
	for _, k := range keys[start:end] {
		obj := b.objects[k]
		page = append(page, miniogo.ObjectInfo{Key: k, Size: int64(len(obj.data)), ETag: obj.etag, LastModified: obj.modified})
	}
	return page, end < len(keys), nil
}

func (f *fakeMinio) MakeBucket(ctx context.Context, bucketName string, opts miniogo.MakeBucketOptions) error {
	f.begin()
	defer f.mu.Unlock()

	if _, exists := f.buckets[bucketName]; exists {
		return errorResponse(http.StatusConflict, "BucketAlreadyOwnedByYou", bucketName, "")
	}
	f.buckets[bucketName] = &fakeBucket{region: opts.Region, created: time.Now(), objects: make(map[string]fakeObject)}
	return nil
}

func (f *fakeMinio) RemoveBucket(ctx context.Context, bucketName string) error {
	f.begin()
	defer f.mu.Unlock()

	b, ok := f.buckets[bucketName]
	if !ok {
		return noSuchBucket(bucketName)
	}
	if len(b.objects) > 0 {
		return errorResponse(http.StatusConflict, "BucketNotEmpty", bucketName, "")
	}
	delete(f.buckets, bucketName)
	return nil
}

func (f *fakeMinio) ListBuckets(ctx context.Context) ([]miniogo.BucketInfo, error) {
	f.begin()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.buckets))
	for name := range f.buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]miniogo.BucketInfo, 0, len(names))
	for _, name := range names {
		out = append(out, miniogo.BucketInfo{Name: name, CreationDate: f.buckets[name].created})
	}
	return out, nil
}

func (f *fakeMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	f.begin()
	defer f.mu.Unlock()

	_, ok := f.buckets[bucketName]
	return ok, nil
}

func (f *fakeMinio) presign(method, bucketName, objectName string, expires time.Duration) (*url.URL, error) {
	f.begin()
	defer f.mu.Unlock()

	q := url.Values{}
	q.Set("X-Amz-Algorithm", "AWS4-HMAC-SHA256")
	q.Set("X-Amz-Expires", strconv.Itoa(int(expires.Seconds())))
	q.Set("X-Amz-Signature", fmt.Sprintf("%x", md5.Sum([]byte(method+bucketName+objectName))))
	return &url.URL{
		Scheme:   "http",
		Host:     "localhost:9000",
		Path:     "/" + bucketName + "/" + objectName,
		RawQuery: q.Encode(),
	}, nil
}

func (f *fakeMinio) PresignedPutObject(ctx context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error) {
	return f.presign(http.MethodPut, bucketName, objectName, expires)
}

func (f *fakeMinio) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	return f.presign(http.MethodGet, bucketName, objectName, expires)
}
