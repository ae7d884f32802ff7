package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIO implements ObjectStore on a single bucket.
type MinIO struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinIO connects to the object store and makes sure the bucket exists.
// endpoint is host:port, e.g. "127.0.0.1:9000".
func NewMinIO(endpoint, accessKey, secretKey, bucket string, useSSL bool, publicBase string) (*MinIO, error) {
	c, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	ctx := context.Background()
	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := c.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", bucket, err)
		}
	}

	return &MinIO{
		client:     c,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

func (m *MinIO) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %q: %w", key, err)
	}
	return m.PublicURL(key), nil
}

// PublicURL derives the external address of a stored object. Purely local,
// no round trip.
func (m *MinIO) PublicURL(key string) string {
	u, err := url.Parse(m.publicBase)
	if err != nil {
		return m.publicBase + "/" + path.Join(m.bucket, key)
	}
	u.Path = path.Join(u.Path, m.bucket, key)
	return u.String()
}

func (m *MinIO) Remove(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}
