// File: internal/storagetest/fake.go
package storagetest

import (
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Fake is an in-memory storage.Storage used by tests above the adapter layer.
// Operations named in Failures return that error instead of running.
type Fake struct {
	mu       sync.Mutex
	provider common.Provider
	caps     storage.Capabilities
	buckets  map[string]storage.Bucket
	objects  map[string]map[string][]byte
	calls    []string
	closed   bool

	Failures map[string]error
	// Bytes reported per bucket by UsageFake
	Usage map[string]int64
}

var _ storage.Storage = (*Fake)(nil)

func NewFake(provider common.Provider, caps storage.Capabilities) *Fake {
	return &Fake{
		provider: provider,
		caps:     caps,
		buckets:  make(map[string]storage.Bucket),
		objects:  make(map[string]map[string][]byte),
		Failures: make(map[string]error),
	}
}

// Detail implements storage.BackendError for failures raised by the fake
type Detail struct {
	provider common.Provider
	kind     storage.Kind
	message  string
}

func (d *Detail) Error() string             { return d.message }
func (d *Detail) Provider() common.Provider { return d.provider }
func (d *Detail) Kind() storage.Kind        { return d.kind }

// Fail builds a storage error of the given kind as the fake's backend would report it
func (f *Fake) Fail(op string, kind storage.Kind) error {
	return storage.NewError(op, &Detail{provider: f.provider, kind: kind, message: "fake " + kind.String()})
}

func (f *Fake) AddBucket(name, location string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addBucketLocked(name, location)
}

func (f *Fake) addBucketLocked(name, location string) storage.Bucket {
	b := storage.Bucket{
		ID:        name,
		Name:      name,
		Location:  location,
		Provider:  f.provider,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.buckets[name] = b
	f.objects[name] = make(map[string][]byte)
	return b
}

func (f *Fake) PutObject(bucket, name string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[bucket]; !ok {
		f.addBucketLocked(bucket, "")
	}
	f.objects[bucket][name] = append([]byte(nil), data...)
}

// Calls returns the operations invoked so far, in order
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Records the call and returns the injected failure, if any. Callers hold f.mu.
func (f *Fake) enter(op string) error {
	f.calls = append(f.calls, op)
	return f.Failures[op]
}

func (f *Fake) objectLocked(op, bucket, name string) ([]byte, error) {
	objs, ok := f.objects[bucket]
	if !ok {
		return nil, f.Fail(op, storage.KindNotFound)
	}
	data, ok := objs[name]
	if !ok {
		return nil, f.Fail(op, storage.KindNotFound)
	}
	return data, nil
}

func (f *Fake) describe(bucket, name string, data []byte) storage.Object {
	return storage.Object{
		ID:          bucket + "/" + name,
		Name:        name,
		BucketName:  bucket,
		Size:        int64(len(data)),
		ContentType: "application/octet-stream",
		Provider:    f.provider,
		ETag:        fmt.Sprintf("%x", len(data)),
	}
}

func (f *Fake) DownloadObject(ctx context.Context, bucketName, objectName string, rng storage.ByteRange) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DownloadObject"); err != nil {
		return nil, err
	}
	if err := rng.Validate(); err != nil {
		return nil, f.Fail("DownloadObject", storage.KindInvalidArgument)
	}
	data, err := f.objectLocked("DownloadObject", bucketName, objectName)
	if err != nil {
		return nil, err
	}

	size := int64(len(data))
	start, end := int64(0), size-1
	switch {
	case rng.Start != nil && rng.End != nil:
		start, end = *rng.Start, min(*rng.End, size-1)
	case rng.Start != nil:
		start = *rng.Start
	case rng.End != nil:
		start = max(size-*rng.End, 0)
	}
	if start >= size {
		return []byte{}, nil
	}
	return append([]byte(nil), data[start:end+1]...), nil
}

func (f *Fake) UploadObject(ctx context.Context, bucketName, objectName string, data []byte) (storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UploadObject"); err != nil {
		return storage.Object{}, err
	}
	objs, ok := f.objects[bucketName]
	if !ok {
		return storage.Object{}, f.Fail("UploadObject", storage.KindNotFound)
	}
	objs[objectName] = append([]byte(nil), data...)
	return f.describe(bucketName, objectName, data), nil
}

func (f *Fake) UploadURL(ctx context.Context, bucketName, objectName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UploadURL"); err != nil {
		return "", err
	}
	if !f.caps.Has(storage.CapSignedUploadURL) {
		return "", nil
	}
	return fmt.Sprintf("https://fake.example/%s/%s?signature=put", bucketName, objectName), nil
}

func (f *Fake) DownloadURL(ctx context.Context, bucketName, objectName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DownloadURL"); err != nil {
		return "", err
	}
	if !f.caps.Has(storage.CapSignedDownloadURL) {
		return fmt.Sprintf("https://%s.fake.example/%s", bucketName, objectName), nil
	}
	return fmt.Sprintf("https://fake.example/%s/%s?signature=get", bucketName, objectName), nil
}

func (f *Fake) DeleteBucket(ctx context.Context, bucketName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteBucket"); err != nil {
		return err
	}
	objs, ok := f.objects[bucketName]
	if !ok {
		return f.Fail("DeleteBucket", storage.KindNotFound)
	}
	if len(objs) > 0 {
		return f.Fail("DeleteBucket", storage.KindConflict)
	}
	delete(f.buckets, bucketName)
	delete(f.objects, bucketName)
	return nil
}

func (f *Fake) DeleteObject(ctx context.Context, bucketName, objectName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteObject"); err != nil {
		return err
	}
	if _, err := f.objectLocked("DeleteObject", bucketName, objectName); err != nil {
		return err
	}
	delete(f.objects[bucketName], objectName)
	return nil
}

func (f *Fake) CreateBucket(ctx context.Context, bucketName, location string) (storage.Bucket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateBucket"); err != nil {
		return storage.Bucket{}, err
	}
	if _, exists := f.buckets[bucketName]; exists {
		return storage.Bucket{}, f.Fail("CreateBucket", storage.KindConflict)
	}
	return f.addBucketLocked(bucketName, location), nil
}

func (f *Fake) CopyObject(ctx context.Context, srcBucket, srcObject, dstBucket, dstObject string) (storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CopyObject"); err != nil {
		return storage.Object{}, err
	}
	if srcBucket != dstBucket && !f.caps.Has(storage.CapCrossBucketCopy) {
		return storage.Object{}, f.Fail("CopyObject", storage.KindUnsupported)
	}
	data, err := f.objectLocked("CopyObject", srcBucket, srcObject)
	if err != nil {
		return storage.Object{}, err
	}
	dst, ok := f.objects[dstBucket]
	if !ok {
		return storage.Object{}, f.Fail("CopyObject", storage.KindNotFound)
	}
	dst[dstObject] = append([]byte(nil), data...)
	return f.describe(dstBucket, dstObject, data), nil
}

func (f *Fake) ListBuckets(ctx context.Context, maxResults int) ([]storage.Bucket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListBuckets"); err != nil {
		return nil, err
	}
	buckets := make([]storage.Bucket, 0, len(f.buckets))
	for _, b := range f.buckets {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Name < buckets[j].Name })
	return storage.Truncate(buckets, maxResults), nil
}

func (f *Fake) GetBucket(ctx context.Context, bucketName string) (storage.Bucket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetBucket"); err != nil {
		return storage.Bucket{}, err
	}
	b, ok := f.buckets[bucketName]
	if !ok {
		return storage.Bucket{}, f.Fail("GetBucket", storage.KindNotFound)
	}
	return b, nil
}

func (f *Fake) GetObject(ctx context.Context, bucketName, objectName string) (storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetObject"); err != nil {
		return storage.Object{}, err
	}
	data, err := f.objectLocked("GetObject", bucketName, objectName)
	if err != nil {
		return storage.Object{}, err
	}
	return f.describe(bucketName, objectName, data), nil
}

func (f *Fake) ListObjects(ctx context.Context, bucketName string, maxResults int) ([]storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("ListObjects"); err != nil {
		return nil, err
	}
	objs, ok := f.objects[bucketName]
	if !ok {
		return nil, f.Fail("ListObjects", storage.KindNotFound)
	}
	objects := make([]storage.Object, 0, len(objs))
	for name, data := range objs {
		objects = append(objects, f.describe(bucketName, name, data))
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return storage.Truncate(objects, maxResults), nil
}

func (f *Fake) ProviderName() common.Provider {
	return f.provider
}

func (f *Fake) Capabilities() storage.Capabilities {
	return f.caps
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// UsageFake adds storage.UsageReporter to Fake
type UsageFake struct {
	*Fake
}

var _ storage.UsageReporter = UsageFake{}

func (f UsageFake) BucketUsage(ctx context.Context, bucketName string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("BucketUsage"); err != nil {
		return 0, err
	}
	usage, ok := f.Usage[bucketName]
	if !ok {
		return 0, f.Fail("BucketUsage", storage.KindNotFound)
	}
	return usage, nil
}
