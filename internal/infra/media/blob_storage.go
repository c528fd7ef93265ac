// Package media stores uploaded product images in a blob bucket.
package media

import (
	"context"
	"log/slog"
	"strings"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// bucket driver for local development
	_ "gocloud.dev/blob/gcsblob"  // gs:// bucket driver
	_ "gocloud.dev/blob/memblob"  // mem:// bucket driver for tests

	"kalaghar/config"
	"kalaghar/internal/domain/service"
	"kalaghar/internal/errors"
)

// blobStorage implements MediaStorage over a gocloud.dev bucket.
type blobStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
}

// StorageParams holds dependencies for MediaStorage, injected by Fx
type StorageParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewBlobStorage opens the configured bucket. Returns nil when storage is
// not configured, leaving image upload endpoints disabled.
func NewBlobStorage(params StorageParams) (service.MediaStorage, error) {
	cfg := params.Config.Storage
	if cfg == nil || cfg.BucketURL == "" {
		params.Logger.Info("Media storage not configured, image uploads disabled")

		return nil, nil
	}

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", cfg.BucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	params.Logger.Info("Media storage initialized", slog.String("bucket", cfg.BucketURL))

	return NewBucketStorage(bucket, cfg.PublicBaseURL), nil
}

// NewBucketStorage wraps an already-open bucket. Used directly by tests.
func NewBucketStorage(bucket *blob.Bucket, publicBaseURL string) service.MediaStorage {
	return &blobStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Upload writes the object under key and returns its public URL.
func (s *blobStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrapf(err, "write object %s", key)
	}

	return s.publicBaseURL + "/" + key, nil
}

// Delete removes the object under key, if present.
func (s *blobStorage) Delete(ctx context.Context, key string) error {
	exists, err := s.bucket.Exists(ctx, key)
	if err != nil {
		return errors.Wrapf(err, "check object %s", key)
	}
	if !exists {
		return nil
	}

	return errors.WithStack(s.bucket.Delete(ctx, key))
}
