package storage

import (
	"context"
	"fmt"

	"github.com/diewo77/go-multidoc/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Mirror keeps a copy of generated files in object storage.
type Mirror interface {
	Put(ctx context.Context, key, path, contentType string) error
	Delete(ctx context.Context, key string) error
}

// NopMirror discards everything.
type NopMirror struct{}

func (NopMirror) Put(context.Context, string, string, string) error { return nil }
func (NopMirror) Delete(context.Context, string) error              { return nil }

// NewMirror returns a MinIO mirror, or a NopMirror when no endpoint is
// configured.
func NewMirror(cfg config.MirrorConfig) (Mirror, error) {
	if cfg.Endpoint == "" {
		return NopMirror{}, nil
	}
	return NewMinioMirror(cfg)
}

// MinioMirror stores objects in a MinIO or S3 compatible bucket.
type MinioMirror struct {
	client *minio.Client
	bucket string
	cfg    config.MirrorConfig
}

// NewMinioMirror creates the client. No request is made until first use.
func NewMinioMirror(cfg config.MirrorConfig) (*MinioMirror, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioMirror{client: client, bucket: cfg.Bucket, cfg: cfg}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (m *MinioMirror) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.cfg.Region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Put uploads the file at path under key.
func (m *MinioMirror) Put(ctx context.Context, key, path, contentType string) error {
	_, err := m.client.FPutObject(ctx, m.bucket, key, path, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Delete removes key from the bucket.
func (m *MinioMirror) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the URL of key when the bucket policy allows anonymous
// reads.
func (m *MinioMirror) PublicURL(key string) string {
	protocol := "http"
	if m.cfg.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, m.cfg.Endpoint, m.bucket, key)
}
