// File: internal/provider/factory/providers.go
package factory

// Backend packages register themselves with the default registry from init()
import (
	_ "bucketbridge/pkg/storage/aws"
	_ "bucketbridge/pkg/storage/gcp"
	_ "bucketbridge/pkg/storage/minio"
)
