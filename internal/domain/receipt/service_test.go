package receipt_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"Hishab/internal/domain/receipt"
	appErrors "Hishab/internal/errors"

	"github.com/oklog/ulid/v2"
)

type fakeReceiptRepository struct {
	created *receipt.Receipt
}

func (f *fakeReceiptRepository) Create(ctx context.Context, entity *receipt.Receipt) error {
	f.created = entity
	return nil
}

func (f *fakeReceiptRepository) GetByIDAndUser(ctx context.Context, receiptID, userID ulid.ULID) (*receipt.Receipt, error) {
	if f.created != nil && f.created.Id == receiptID {
		return f.created, nil
	}
	return nil, appErrors.ErrReceiptNotFound
}

type fakeUploader struct {
	uploadFn func(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error)
}

func (f *fakeUploader) Enabled() bool { return true }

func (f *fakeUploader) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
	if f.uploadFn != nil {
		return f.uploadFn(ctx, objectPath, contentType, body)
	}
	return "https://example.com/" + objectPath, nil
}

type fakeAttacher struct {
	err      error
	attached []ulid.ULID
}

func (f *fakeAttacher) AttachReceipt(ctx context.Context, userID, transactionID, receiptID ulid.ULID) error {
	if f.err != nil {
		return f.err
	}
	f.attached = append(f.attached, transactionID)
	return nil
}

func TestUploadValidations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	svc := receipt.NewService(&fakeReceiptRepository{}, &fakeUploader{}, nil)

	_, err := svc.Upload(ctx, userID, "big.png", "image/png", receipt.MaxFileSize+1, strings.NewReader(""), nil)
	if err == nil {
		t.Fatalf("oversized file must be rejected")
	}

	_, err = svc.Upload(ctx, userID, "notes.txt", "text/plain", 10, strings.NewReader("x"), nil)
	if err == nil {
		t.Fatalf("unsupported content type must be rejected")
	}
	appErr, _ := appErrors.AsAppError(err)
	if appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error, got %s", appErr.Code)
	}
}

func TestUploadAttachesToTransaction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	transactionID := ulid.Make()

	repo := &fakeReceiptRepository{}
	attacher := &fakeAttacher{}
	svc := receipt.NewService(repo, &fakeUploader{}, attacher)

	entity, err := svc.Upload(ctx, userID, "receipt.png", "image/png", 128, strings.NewReader("img"), &transactionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entity.TransactionId == nil || *entity.TransactionId != transactionID {
		t.Fatalf("receipt row must carry the transaction reference")
	}
	if len(attacher.attached) != 1 || attacher.attached[0] != transactionID {
		t.Fatalf("receipt must be attached to the transaction, got %v", attacher.attached)
	}
}

func TestUploadSucceedsWhenAttachFails(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()
	transactionID := ulid.Make()

	repo := &fakeReceiptRepository{}
	svc := receipt.NewService(repo, &fakeUploader{}, &fakeAttacher{err: appErrors.ErrTransactionNotFound})

	entity, err := svc.Upload(ctx, userID, "receipt.png", "image/png", 128, strings.NewReader("img"), &transactionID)
	if err != nil {
		t.Fatalf("a failed attach must not fail the upload, got %v", err)
	}
	if repo.created == nil || repo.created.Id != entity.Id {
		t.Fatalf("receipt row must still be persisted")
	}
}

func TestUploadBlobFailureLeavesNoRow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()

	repo := &fakeReceiptRepository{}
	svc := receipt.NewService(repo, &fakeUploader{
		uploadFn: func(ctx context.Context, objectPath, contentType string, body io.Reader) (string, error) {
			return "", errors.New("bucket unavailable")
		},
	}, nil)

	_, err := svc.Upload(ctx, userID, "receipt.png", "image/png", 128, strings.NewReader("img"), nil)
	if err == nil {
		t.Fatalf("blob failure must surface")
	}
	if repo.created != nil {
		t.Fatalf("no receipt row may exist without a stored object")
	}
}
