package minio

import (
	"bucketbridge/pkg/common"
	"bucketbridge/pkg/storage"
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBucket = "fixtures"

func fixture(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i)
	}
	return data
}

func newTestStorage(t *testing.T) (*MinIOStorage, *fakeMinio) {
	t.Helper()
	fake := newFakeMinio()
	fake.addBucket(testBucket, defaultRegion)
	return newMinIOStorage(fake, defaultRegion, 0, discardLogger()), fake
}

func TestDownloadObjectRanges(t *testing.T) {
	s, fake := newTestStorage(t)
	data := fixture(100)
	fake.addObject(testBucket, "hundred.bin", data, "application/octet-stream")

	tests := []struct {
		name   string
		rng    storage.ByteRange
		header string
		want   []byte
	}{
		{"full object", storage.FullObject(), "", data},
		{"from zero is the whole object", storage.RangeFrom(0), "", data},
		{"inclusive range", storage.RangeBetween(10, 19), "bytes=10-19", data[10:20]},
		{"open ended", storage.RangeFrom(90), "bytes=90-", data[90:]},
		{"suffix", storage.LastBytes(5), "bytes=-5", data[95:]},
		{"first byte", storage.RangeBetween(0, 0), "bytes=0-0", data[:1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.DownloadObject(context.Background(), testBucket, "hundred.bin", tt.rng)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.header, fake.lastRange)
		})
	}
}

func TestDownloadObjectRejectsInvalidRangeWithoutCallingMinIO(t *testing.T) {
	s, fake := newTestStorage(t)

	for _, rng := range []storage.ByteRange{storage.RangeBetween(20, 10), storage.LastBytes(0), storage.RangeFrom(-3)} {
		_, err := s.DownloadObject(context.Background(), testBucket, "any", rng)
		require.Error(t, err)
		assert.True(t, storage.IsInvalidArgument(err), "range %s", rng)
	}
	assert.Zero(t, fake.callCount())
}

func TestDownloadObjectNotFound(t *testing.T) {
	s, _ := newTestStorage(t)

	_, err := s.DownloadObject(context.Background(), testBucket, "missing", storage.FullObject())
	require.Error(t, err)
	assert.True(t, storage.IsNotFound(err))

	var detail *Error
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, CodeNoSuchKey, detail.Code)
	assert.Equal(t, "req-456", detail.RequestID)

	_, err = s.DownloadObject(context.Background(), "no-such-bucket", "missing", storage.FullObject())
	assert.True(t, storage.IsNotFound(err))
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"empty":  {},
		"text":   []byte("hello, bucket"),
		"binary": fixture(4096),
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			s, _ := newTestStorage(t)
			ctx := context.Background()

			obj, err := s.UploadObject(ctx, testBucket, "round/trip", payload)
			require.NoError(t, err)
			assert.Equal(t, int64(len(payload)), obj.Size)
			assert.Equal(t, "round/trip", obj.Name)
			assert.Equal(t, testBucket, obj.BucketName)
			assert.Equal(t, common.MinIO, obj.Provider)
			assert.Empty(t, obj.ContentType)
			assert.NotEmpty(t, obj.ID)

			got, err := s.DownloadObject(ctx, testBucket, "round/trip", storage.FullObject())
			require.NoError(t, err)
			assert.Equal(t, string(payload), string(got))
		})
	}
}

func TestSignedURLs(t *testing.T) {
	fake := newFakeMinio()
	fake.addBucket(testBucket, defaultRegion)
	s := newMinIOStorage(fake, defaultRegion, 5*time.Minute, discardLogger())
	ctx := context.Background()

	up, err := s.UploadURL(ctx, testBucket, "incoming/file.bin")
	require.NoError(t, err)
	down, err := s.DownloadURL(ctx, testBucket, "incoming/file.bin")
	require.NoError(t, err)

	for _, raw := range []string{up, down} {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "/fixtures/incoming/file.bin", u.Path)
		assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
		assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	}
	assert.NotEqual(t, up, down)
	assert.True(t, s.Capabilities().Has(storage.CapSignedUploadURL|storage.CapSignedDownloadURL))
}

func TestCopyObjectAcrossBuckets(t *testing.T) {
	s, fake := newTestStorage(t)
	fake.addBucket("other", defaultRegion)
	fake.addObject(testBucket, "src", []byte("copied content"), "text/plain")
	ctx := context.Background()

	obj, err := s.CopyObject(ctx, testBucket, "src", "other", "dst")
	require.NoError(t, err)
	assert.Equal(t, "dst", obj.Name)
	assert.Equal(t, "other", obj.BucketName)
	assert.Equal(t, int64(len("copied content")), obj.Size)
	assert.Equal(t, "text/plain", obj.ContentType)
	// Copy followed by a stat of the destination
	assert.Equal(t, 2, fake.callCount())

	got, err := s.DownloadObject(ctx, "other", "dst", storage.FullObject())
	require.NoError(t, err)
	assert.Equal(t, "copied content", string(got))
}

func TestCopyObjectMissingSource(t *testing.T) {
	s, _ := newTestStorage(t)

	_, err := s.CopyObject(context.Background(), testBucket, "absent", testBucket, "dst")
	require.Error(t, err)
	assert.True(t, storage.IsNotFound(err))
}

func TestGetObject(t *testing.T) {
	s, fake := newTestStorage(t)
	fake.addObject(testBucket, "report.csv", []byte("a,b\n1,2\n"), "text/csv")

	obj, err := s.GetObject(context.Background(), testBucket, "report.csv")
	require.NoError(t, err)
	assert.Equal(t, testBucket, obj.BucketName)
	assert.Equal(t, "report.csv", obj.Name)
	assert.NotEmpty(t, obj.ID)
	assert.Equal(t, int64(8), obj.Size)
	assert.Equal(t, "text/csv", obj.ContentType)

	_, err = s.GetObject(context.Background(), testBucket, "absent.csv")
	require.Error(t, err)
	assert.True(t, storage.IsNotFound(err))

	var detail *Error
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, CodeNoSuchKey, detail.Code)
}

func TestDeleteObjectTwiceLeavesListingConsistent(t *testing.T) {
	s, fake := newTestStorage(t)
	fake.addObject(testBucket, "keep", []byte("1"), "")
	fake.addObject(testBucket, "gone", []byte("2"), "")
	ctx := context.Background()

	require.NoError(t, s.DeleteObject(ctx, testBucket, "gone"))
	require.NoError(t, s.DeleteObject(ctx, testBucket, "gone"))

	objects, err := s.ListObjects(ctx, testBucket, 0)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "keep", objects[0].Name)
}

func TestListObjectsHonoursMaxResults(t *testing.T) {
	s, fake := newTestStorage(t)
	for i := 0; i < 5; i++ {
		fake.addObject(testBucket, fmt.Sprintf("obj-%d", i), []byte{byte(i)}, "")
	}
	ctx := context.Background()

	objects, err := s.ListObjects(ctx, testBucket, 2)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "obj-0", objects[0].Name)
	for _, obj := range objects {
		assert.Equal(t, testBucket, obj.BucketName)
		assert.Equal(t, int64(1), obj.Size)
	}

	all, err := s.ListObjects(ctx, testBucket, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	_, err = s.ListObjects(ctx, testBucket, -1)
	assert.True(t, storage.IsInvalidArgument(err))
}

func TestListObjectsEmptyAndMissingBucket(t *testing.T) {
	s, _ := newTestStorage(t)
	ctx := context.Background()

	objects, err := s.ListObjects(ctx, testBucket, 0)
	require.NoError(t, err)
	assert.NotNil(t, objects)
	assert.Empty(t, objects)

	_, err = s.ListObjects(ctx, "no-such-bucket", 0)
	assert.True(t, storage.IsNotFound(err))
}

func TestListObjectsReturnsOnlyTheFirstPage(t *testing.T) {
	s, fake := newTestStorage(t)
	for i := 0; i < 1005; i++ {
		fake.addObject(testBucket, fmt.Sprintf("obj-%04d", i), []byte{1}, "")
	}
	ctx := context.Background()

	objects, err := s.ListObjects(ctx, testBucket, 0)
	require.NoError(t, err)
	assert.Len(t, objects, 1000)
	assert.Equal(t, 1, fake.listRequests)

	objects, err = s.ListObjects(ctx, testBucket, 3)
	require.NoError(t, err)
	assert.Len(t, objects, 3)
	assert.Equal(t, "obj-0002", objects[2].Name)
	assert.Equal(t, 2, fake.listRequests)
}

func TestInvalidNamesAreRejectedBeforeAnyRequest(t *testing.T) {
	s, fake := newTestStorage(t)
	ctx := context.Background()

	_, err := s.ListObjects(ctx, "b", 0)
	require.Error(t, err)
	assert.True(t, storage.IsInvalidArgument(err))
	assert.False(t, storage.IsTransport(err))

	var detail *Error
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, CodeInvalidBucketName, detail.Code)

	_, err = s.GetObject(ctx, testBucket, "  ")
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, CodeInvalidObjectName, detail.Code)

	_, err = s.DownloadObject(ctx, "x", "report.csv", storage.FullObject())
	assert.True(t, storage.IsInvalidArgument(err))

	_, err = s.UploadObject(ctx, testBucket, "", []byte("x"))
	assert.True(t, storage.IsInvalidArgument(err))

	_, err = s.CopyObject(ctx, testBucket, "report.csv", "no", "copy.csv")
	assert.True(t, storage.IsInvalidArgument(err))

	_, err = s.UploadURL(ctx, "..", "report.csv")
	assert.True(t, storage.IsInvalidArgument(err))

	assert.Zero(t, fake.callCount())
}
