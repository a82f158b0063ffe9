// File: pkg/storage/model.go
package storage

import (
	"bucketbridge/pkg/common"
	"fmt"
	"strings"
	"time"
)

// Bucket is a provider-independent view of a bucket, built from a single API response
type Bucket struct {
	ID   string
	Name string
	// Empty when the backend cannot report the location without an extra call
	Location  string
	Provider  common.Provider
	CreatedAt time.Time
}

// Object is a provider-independent view of a stored object, built from a single API response
type Object struct {
	// Usually an entity tag; not stable across overwrites
	ID         string
	Name       string
	BucketName string
	// A value of -1 indicates that the size is unknown (some backends do not echo it on writes)
	Size int64
	// Empty when the provider response does not carry it
	ContentType string
	Provider    common.Provider
	ETag        string
	UpdatedAt   time.Time
}

// HasSize reports whether the backend reported the object's size
func (o Object) HasSize() bool {
	return o.Size >= 0
}

// ByteRange selects part of an object. Start and End are independently optional:
//
//	neither      the whole object
//	Start only   from Start to the end of the object
//	End only     the last End bytes
//	both         the inclusive range [Start, End]
type ByteRange struct {
	Start *int64
	End   *int64
}

// FullObject selects the entire object
func FullObject() ByteRange {
	return ByteRange{}
}

// RangeFrom selects everything from offset start to the end of the object
func RangeFrom(start int64) ByteRange {
	return ByteRange{Start: &start}
}

// RangeBetween selects the inclusive byte range [start, end]
func RangeBetween(start, end int64) ByteRange {
	return ByteRange{Start: &start, End: &end}
}

// LastBytes selects the final n bytes of the object
func LastBytes(n int64) ByteRange {
	return ByteRange{End: &n}
}

func (r ByteRange) IsFull() bool {
	return r.Start == nil && r.End == nil
}

// Validate checks the range without contacting any backend
func (r ByteRange) Validate() error {
	switch {
	case r.Start != nil && *r.Start < 0:
		return fmt.Errorf("range start must not be negative, got %d", *r.Start)
	case r.End != nil && *r.End < 0:
		return fmt.Errorf("range end must not be negative, got %d", *r.End)
	case r.Start != nil && r.End != nil && *r.Start > *r.End:
		return fmt.Errorf("range start %d is after range end %d", *r.Start, *r.End)
	case r.Start == nil && r.End != nil && *r.End == 0:
		return fmt.Errorf("a suffix range must request at least one byte")
	}
	return nil
}

// HeaderValue renders the range as an HTTP Range header value, or "" for the full object
func (r ByteRange) HeaderValue() string {
	switch {
	case r.Start != nil && r.End != nil:
		return fmt.Sprintf("bytes=%d-%d", *r.Start, *r.End)
	case r.Start != nil:
		return fmt.Sprintf("bytes=%d-", *r.Start)
	case r.End != nil:
		return fmt.Sprintf("bytes=-%d", *r.End)
	default:
		return ""
	}
}

func (r ByteRange) String() string {
	if r.IsFull() {
		return "full"
	}
	return r.HeaderValue()
}

// Capabilities describes which contract operations a backend fulfils natively
type Capabilities uint8

const (
	CapSignedUploadURL Capabilities = 1 << iota
	CapSignedDownloadURL
	CapCrossBucketCopy
)

func (c Capabilities) Has(want Capabilities) bool {
	return c&want == want
}

func (c Capabilities) String() string {
	if c == 0 {
		return "none"
	}
	var names []string
	if c.Has(CapSignedUploadURL) {
		names = append(names, "signed-upload-url")
	}
	if c.Has(CapSignedDownloadURL) {
		names = append(names, "signed-download-url")
	}
	if c.Has(CapCrossBucketCopy) {
		names = append(names, "cross-bucket-copy")
	}
	return strings.Join(names, ",")
}

func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "N/A"
	}
	if bytes == 0 {
		return "0 B"
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	sizes := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	if exp >= len(sizes) {
		return fmt.Sprintf("%d B", bytes) // Fallback if extremely large
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), sizes[exp])
}
