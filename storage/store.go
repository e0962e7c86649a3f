package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrBucketNotFound = errors.New("bucket not found or not accessible")
	ErrUpload         = errors.New("upload failed")
)

// Credentials identify the account and, optionally, the service to talk to.
// An empty Region is discovered from the bucket.
type Credentials struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
}

// ObjectStore is the slice of an object storage service rural needs.
type ObjectStore interface {
	Bucket(ctx context.Context, name string) error
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	SetPublicRead(ctx context.Context, bucket, key string) error
	SignURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// Connector opens an authenticated session with the object storage service.
type Connector func(ctx context.Context, creds Credentials) (ObjectStore, error)
