package ports

import "context"

// ObjectStorage stores binary objects (profile pictures) and resolves their
// public URLs.
type ObjectStorage interface {
	Store(ctx context.Context, key string, content []byte, contentType string) (string, error)
	URL(key string) string
}
