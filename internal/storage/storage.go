package storage

import (
	"context"
	"io"
	"time"
)

// Object describes a blob to store.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Body        io.Reader
}

// Service stores profile attachments in remote object storage.
type Service interface {
	Put(ctx context.Context, obj Object) (string, error)
	Delete(ctx context.Context, bucket, key string) error
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
