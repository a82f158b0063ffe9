// File: pkg/formatter/views.go
package formatter

import (
	"bucketbridge/pkg/storage"
	"time"
)

// Serializable shapes for json and yaml output

type BucketView struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Provider   string     `json:"provider" yaml:"provider"`
	Location   string     `json:"location,omitempty" yaml:"location,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UsageBytes *int64     `json:"usage_bytes,omitempty" yaml:"usage_bytes,omitempty"`
}

type ObjectView struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Bucket      string     `json:"bucket" yaml:"bucket"`
	Provider    string     `json:"provider" yaml:"provider"`
	Size        *int64     `json:"size,omitempty" yaml:"size,omitempty"`
	ContentType string     `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	ETag        string     `json:"etag,omitempty" yaml:"etag,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

type URLView struct {
	Method string `json:"method" yaml:"method"`
	URL    string `json:"url" yaml:"url"`
	Signed bool   `json:"signed" yaml:"signed"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func NewBucketView(b storage.Bucket) BucketView {
	return BucketView{
		ID:        b.ID,
		Name:      b.Name,
		Provider:  string(b.Provider),
		Location:  b.Location,
		CreatedAt: timePtr(b.CreatedAt),
	}
}

func NewBucketViews(buckets []storage.Bucket) []BucketView {
	views := make([]BucketView, 0, len(buckets))
	for _, b := range buckets {
		views = append(views, NewBucketView(b))
	}
	return views
}

// Unknown sizes are omitted rather than reported as -1
func NewObjectView(o storage.Object) ObjectView {
	v := ObjectView{
		ID:          o.ID,
		Name:        o.Name,
		Bucket:      o.BucketName,
		Provider:    string(o.Provider),
		ContentType: o.ContentType,
		ETag:        o.ETag,
		UpdatedAt:   timePtr(o.UpdatedAt),
	}
	if o.HasSize() {
		size := o.Size
		v.Size = &size
	}
	return v
}

func NewObjectViews(objects []storage.Object) []ObjectView {
	views := make([]ObjectView, 0, len(objects))
	for _, o := range objects {
		views = append(views, NewObjectView(o))
	}
	return views
}
