// File: pkg/storage/gcp/urls.go
package gcp

import (
	"context"
	"net/http"
	"time"

	gcpstorage "cloud.google.com/go/storage"
)

func (g *GCPStorage) UploadURL(ctx context.Context, bucketName, objectName string) (string, error) {
	g.logger.Debug("Starting GCP UploadURL operation", "bucket", bucketName, "object", objectName, "expiry", g.signer.expiry)
	return g.signedURL("UploadURL", http.MethodPut, bucketName, objectName)
}

func (g *GCPStorage) DownloadURL(ctx context.Context, bucketName, objectName string) (string, error) {
	g.logger.Debug("Starting GCP DownloadURL operation", "bucket", bucketName, "object", objectName, "expiry", g.signer.expiry)
	return g.signedURL("DownloadURL", http.MethodGet, bucketName, objectName)
}

// Signing is local; no request reaches Cloud Storage
func (g *GCPStorage) signedURL(op, method, bucketName, objectName string) (string, error) {
	opts := &gcpstorage.SignedURLOptions{
		Scheme:         gcpstorage.SigningSchemeV4,
		Method:         method,
		Expires:        time.Now().Add(g.signer.expiry),
		GoogleAccessID: g.signer.googleAccessID,
		PrivateKey:     g.signer.privateKey,
	}

	u, err := g.client.Bucket(bucketName).SignedURL(objectName, opts)
	if err != nil {
		return "", signingError(op, err)
	}
	return u, nil
}
