package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"Hishab/config"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSUploader struct {
	client *storage.Client
	bucket string
}

func NewGCSUploader(ctx context.Context, cfg *config.Config) (*GCSUploader, error) {
	var opts []option.ClientOption
	if cfg.Storage.CredentialsFile != "" {
		if _, err := os.Stat(cfg.Storage.CredentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at %s", cfg.Storage.CredentialsFile)
		}
		opts = append(opts, option.WithCredentialsFile(cfg.Storage.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &GCSUploader{client: client, bucket: cfg.Storage.Bucket}, nil
}

func (u *GCSUploader) Enabled() bool {
	return true
}

func (u *GCSUploader) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	obj := u.client.Bucket(u.bucket).Object(objectPath)
	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "no-cache, no-store, must-revalidate"

	if err := writeObject(writer, body); err != nil {
		return "", fmt.Errorf("failed to write GCS object %s: %w", objectPath, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucket, objectPath), nil
}

// writeObject streams body into the object writer. The writer is closed on
// both paths; an abandoned writer keeps the upload session open.
func writeObject(w io.WriteCloser, body io.Reader) error {
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (u *GCSUploader) Close() error {
	return u.client.Close()
}
