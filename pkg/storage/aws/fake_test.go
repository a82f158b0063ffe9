package aws

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// fakeS3 is an in-memory stand-in for the S3 API, counting every request it receives
type fakeS3 struct {
	mu        sync.Mutex
	buckets   map[string]*fakeBucket
	calls     int
	lastRange string
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

var _ s3API = (*fakeS3)(nil)

func newFakeS3() *fakeS3 {
	return &fakeS3{buckets: make(map[string]*fakeBucket)}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (f *fakeS3) addBucket(name, region string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[name] = &fakeBucket{region: region, created: time.Now(), objects: make(map[string]fakeObject)}
}

func (f *fakeS3) addObject(bucket, key string, data []byte, contentType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[bucket].objects[key] = newFakeObject(data, contentType)
}

func (f *fakeS3) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newFakeObject(data []byte, contentType string) fakeObject {
	return fakeObject{
		data:        append([]byte(nil), data...),
		contentType: contentType,
		etag:        fmt.Sprintf("%q", fmt.Sprintf("%x", md5.Sum(data))),
		modified:    time.Now().UTC(),
	}
}

func opError(op string, err error) error {
	return &smithy.OperationError{ServiceID: "S3", OperationName: op, Err: err}
}

func noSuchBucket(op string) error {
	return opError(op, &types.NoSuchBucket{Message: awssdk.String("The specified bucket does not exist")})
}

func (f *fakeS3) begin() {
	f.mu.Lock()
	f.calls++
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.begin()
	defer f.mu.Unlock()

	f.lastRange = awssdk.ToString(in.Range)
	b, ok := f.buckets[awssdk.ToString(in.Bucket)]
	if !ok {
		return nil, noSuchBucket("GetObject")
	}
	obj, ok := b.objects[awssdk.ToString(in.Key)]
	if !ok {
		return nil, opError("GetObject", &types.NoSuchKey{Message: awssdk.String("The specified key does not exist.")})
	}

	data, err := applyRange(obj.data, f.lastRange)
	if err != nil {
		return nil, opError("GetObject", err)
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(string(data))),
		ContentLength: awssdk.Int64(int64(len(data))),
		ContentType:   awssdk.String(obj.contentType),
		ETag:          awssdk.String(obj.etag),
	}, nil
}

func applyRange(data []byte, header string) ([]byte, error) {
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
		return nil, &smithy.GenericAPIError{Code: "InvalidRange", Message: "The requested range is not satisfiable"}
	}
	return data[start : end+1], nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.begin()
	defer f.mu.Unlock()

	b, ok := f.buckets[awssdk.ToString(in.Bucket)]
	if !ok {
		return nil, noSuchBucket("PutObject")
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	obj := newFakeObject(data, "binary/octet-stream")
	b.objects[awssdk.ToString(in.Key)] = obj
	return &s3.PutObjectOutput{ETag: awssdk.String(obj.etag)}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.begin()
	defer f.mu.Unlock()

	b, ok := f.buckets[awssdk.ToString(in.Bucket)]
	if !ok {
		return nil, opError("HeadObject", &types.NotFound{})
	}
	obj, ok := b.objects[awssdk.ToString(in.Key)]
	if !ok {
		return nil, opError("HeadObject", &types.NotFound{})
	}
	return &s3.HeadObjectOutput{
		ContentLength: awssdk.Int64(int64(len(obj.data))),
		ContentType:   awssdk.String(obj.contentType),
		ETag:          awssdk.String(obj.etag),
		LastModified:  awssdk.Time(obj.modified),
	}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.begin()
	defer f.mu.Unlock()

	b, ok := f.buckets[awssdk.ToString(in.Bucket)]
	if !ok {
		return nil, noSuchBucket("DeleteObject")
	}
	// S3 reports success for keys that do not exist
	delete(b.objects, awssdk.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) CopyObject(ctx context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.begin()
	defer f.mu.Unlock()

	srcBucket, escapedKey, _ := strings.Cut(awssdk.ToString(in.CopySource), "/")
	srcKey, err := url.PathUnescape(escapedKey)
	if err != nil {
		return nil, opError("CopyObject", &smithy.GenericAPIError{Code: "InvalidArgument", Message: err.Error()})
	}
	src, ok := f.buckets[srcBucket]
	if !ok {
		return nil, noSuchBucket("CopyObject")
	}
	obj, ok := src.objects[srcKey]
	if !ok {
		return nil, opError("CopyObject", &types.NoSuchKey{})
	}
	dst, ok := f.buckets[awssdk.ToString(in.Bucket)]
	if !ok {
		return nil, noSuchBucket("CopyObject")
	}
	dst.objects[awssdk.ToString(in.Key)] = newFakeObject(obj.data, obj.contentType)
	return &s3.CopyObjectOutput{CopyObjectResult: &types.CopyObjectResult{ETag: awssdk.String(obj.etag)}}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.begin()
	defer f.mu.Unlock()

	b, ok := f.buckets[awssdk.ToString(in.Bucket)]
	if !ok {
		return nil, noSuchBucket("ListObjectsV2")
	}
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// S3 caps a page at 1000 keys and rejects negative bounds
	limit := 1000
	if in.MaxKeys != nil {
		if *in.MaxKeys < 0 {
			return nil, invalidArgumentResponse("ListObjectsV2", "max-keys cannot be negative")
		}
		limit = min(limit, int(*in.MaxKeys))
	}
	out := &s3.ListObjectsV2Output{}
	for _, k := range keys {
		if len(out.Contents) == limit {
			out.IsTruncated = awssdk.Bool(true)
			break
		}
		obj := b.objects[k]
		out.Contents = append(out.Contents, types.Object{
			Key:          awssdk.String(k),
			ETag:         awssdk.String(obj.etag),
			Size:         awssdk.Int64(int64(len(obj.data))),
			LastModified: awssdk.Time(obj.modified),
		})
	}
	return out, nil
}

func (f *fakeS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.begin()
	defer f.mu.Unlock()

	name := awssdk.ToString(in.Bucket)
	if _, exists := f.buckets[name]; exists {
		return nil, opError("CreateBucket", &types.BucketAlreadyOwnedByYou{Message: awssdk.String("Your previous request to create the named bucket succeeded and you already own it.")})
	}
	region := defaultRegion
	if in.CreateBucketConfiguration != nil {
		region = string(in.CreateBucketConfiguration.LocationConstraint)
	}
	f.buckets[name] = &fakeBucket{region: region, created: time.Now(), objects: make(map[string]fakeObject)}
	return &s3.CreateBucketOutput{Location: awssdk.String("/" + name)}, nil
}

func (f *fakeS3) DeleteBucket(ctx context.Context, in *s3.DeleteBucketInput, _ ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	f.begin()
	defer f.mu.Unlock()

	name := awssdk.ToString(in.Bucket)
	b, ok := f.buckets[name]
	if !ok {
		return nil, noSuchBucket("DeleteBucket")
	}
	if len(b.objects) > 0 {
		return nil, opError("DeleteBucket", &smithy.GenericAPIError{Code: "BucketNotEmpty", Message: "The bucket you tried to delete is not empty"})
	}
	delete(f.buckets, name)
	return &s3.DeleteBucketOutput{}, nil
}

func (f *fakeS3) ListBuckets(ctx context.Context, in *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	f.begin()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.buckets))
	for name := range f.buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	limit := len(names)
	if in.MaxBuckets != nil {
		if *in.MaxBuckets < 1 || *in.MaxBuckets > 10000 {
			return nil, invalidArgumentResponse("ListBuckets", "max-buckets must be between 1 and 10000")
		}
		limit = min(limit, int(*in.MaxBuckets))
	}
	out := &s3.ListBucketsOutput{}
	for _, name := range names[:limit] {
		b := f.buckets[name]
		out.Buckets = append(out.Buckets, types.Bucket{
			Name:         awssdk.String(name),
			BucketRegion: awssdk.String(b.region),
			CreationDate: awssdk.Time(b.created),
		})
	}
	return out, nil
}

func (f *fakeS3) GetBucketLocation(ctx context.Context, in *s3.GetBucketLocationInput, _ ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
	f.begin()
	defer f.mu.Unlock()

	b, ok := f.buckets[awssdk.ToString(in.Bucket)]
	if !ok {
		return nil, noSuchBucket("GetBucketLocation")
	}
	constraint := b.region
	if constraint == defaultRegion {
		constraint = ""
	}
	return &s3.GetBucketLocationOutput{LocationConstraint: types.BucketLocationConstraint(constraint)}, nil
}

func invalidArgumentResponse(op, message string) error {
	return opError(op, &smithy.GenericAPIError{Code: "InvalidArgument", Message: message})
}
