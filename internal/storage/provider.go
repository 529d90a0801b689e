package storage

import (
	"context"
	"io"
)

type Object struct {
	Name string
	Size int64
}

// Provider abstracts where dataset files live.
type Provider interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	DownloadObject(ctx context.Context, bucket, key, filename string) error

	PutObject(ctx context.Context, bucket, key string, data io.Reader) error

	ListObjects(ctx context.Context, bucket, prefix string) ([]Object, error)
}
