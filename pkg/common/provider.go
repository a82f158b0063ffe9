// File: pkg/common/provider.go
package common

type Provider string

const (
	GCP   Provider = "GCP"
	AWS   Provider = "AWS"
	MinIO Provider = "MINIO"
)

func (p Provider) String() string {
	return string(p)
}
