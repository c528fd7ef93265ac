package service

import "context"

// MediaStorage stores uploaded media objects and returns their public URLs.
type MediaStorage interface {
	// Upload writes the object under key and returns its public URL.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Delete removes the object under key, if present.
	Delete(ctx context.Context, key string) error
}
