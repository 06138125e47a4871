package storage

import (
	"context"
	"io"

	appErrors "Hishab/internal/errors"
)

// Uploader is the blob-store collaborator for receipt and avatar files.
// Upload failures never block a ledger mutation; callers attach the returned
// URL opportunistically.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error)
	Enabled() bool
}

// DisabledUploader is wired when no bucket is configured. Uploads are
// rejected with a clear message while the rest of the API keeps working.
type DisabledUploader struct{}

func (DisabledUploader) Enabled() bool {
	return false
}

func (DisabledUploader) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	return "", appErrors.NewAppError("STORAGE_DISABLED", "File storage is not configured", 503)
}
