package storage

import (
	"context"
	"io"
)

// ObjectStore stores binary blobs under caller-chosen keys and hands out
// stable public URLs for them. Remove exists only for the best-effort
// compensation after a failed record insert.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	PublicURL(key string) string
	Remove(ctx context.Context, key string) error
}
