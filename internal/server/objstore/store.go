// Package objstore provides multipart-capable object storage drivers.
package objstore

import (
	"context"
	"fmt"
	"io"

	sc "github.com/dmitrijs2005/sbts/internal/server/config"
)

// CompletedPart is a (part number, etag) pair acknowledged by the store.
type CompletedPart struct {
	PartNumber int32
	ETag       string
}

// ObjectStore is the multipart upload capability used by blob ingestion.
// GetObject returns common.ErrorNotFound when the key does not exist.
type ObjectStore interface {
	CreateMultipart(ctx context.Context, bucket, key string) (string, error)
	UploadPart(ctx context.Context, bucket, key, uploadID string, partNumber int32, body []byte) (string, error)
	CompleteMultipart(ctx context.Context, bucket, key, uploadID string, parts []CompletedPart) error
	AbortMultipart(ctx context.Context, bucket, key, uploadID string) error
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error)
}

// Store is an ObjectStore that can also bootstrap its bucket.
type Store interface {
	ObjectStore
	EnsureBucket(ctx context.Context, bucket string) error
}

// New builds the driver selected by cfg.S3Driver.
func New(ctx context.Context, cfg *sc.Config) (Store, error) {
	switch cfg.S3Driver {
	case sc.DriverS3:
		return NewS3Store(ctx, cfg.S3Region, cfg.S3BaseEndpoint, cfg.S3RootUser, cfg.S3RootPassword)
	case sc.DriverMinio:
		return NewMinioStore(cfg.S3BaseEndpoint, cfg.S3Region, cfg.S3RootUser, cfg.S3RootPassword)
	default:
		return nil, fmt.Errorf("unknown object store driver %q", cfg.S3Driver)
	}
}
