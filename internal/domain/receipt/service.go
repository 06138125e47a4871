package receipt

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	appErrors "Hishab/internal/errors"
	"Hishab/internal/logger"
	"Hishab/internal/pkg"
	"Hishab/internal/storage"

	"github.com/oklog/ulid/v2"
)

const MaxFileSize = 8 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// TransactionAttacher records a receipt reference on a ledger transaction.
type TransactionAttacher interface {
	AttachReceipt(ctx context.Context, userID, transactionID, receiptID ulid.ULID) error
}

type Service struct {
	Repository Repository
	Uploader   storage.Uploader
	Attacher   TransactionAttacher
}

func NewService(repo Repository, uploader storage.Uploader, attacher TransactionAttacher) *Service {
	return &Service{Repository: repo, Uploader: uploader, Attacher: attacher}
}

func (s *Service) Upload(ctx context.Context, userID ulid.ULID, fileName, contentType string, size int64, body io.Reader, transactionID *ulid.ULID) (*Receipt, error) {
	if size > MaxFileSize {
		return nil, appErrors.NewValidationError("file", "File exceeds the 8MB limit")
	}
	if !allowedContentTypes[contentType] {
		return nil, appErrors.NewValidationError("file", "Unsupported file type")
	}

	id := pkg.GenerateULIDObject()
	ext := strings.ToLower(path.Ext(fileName))
	objectPath := fmt.Sprintf("receipts/%s/%s%s", userID.String(), id.String(), ext)

	url, err := s.Uploader.Upload(ctx, objectPath, contentType, body)
	if err != nil {
		return nil, err
	}

	entity := &Receipt{
		Id:            id,
		UserId:        userID,
		TransactionId: transactionID,
		FileName:      fileName,
		ContentType:   contentType,
		Size:          size,
		ObjectPath:    objectPath,
		URL:           url,
		CreatedAt:     pkg.SetTimestamps(),
	}

	if err := s.Repository.Create(ctx, entity); err != nil {
		return nil, err
	}

	// The receipt is stored either way; a failed attach never fails the
	// upload.
	if transactionID != nil && s.Attacher != nil {
		if err := s.Attacher.AttachReceipt(ctx, userID, *transactionID, entity.Id); err != nil {
			logger.Warn().
				Err(err).
				Str("receipt_id", entity.Id.String()).
				Str("transaction_id", transactionID.String()).
				Msg("Failed to attach receipt to transaction")
		}
	}

	return entity, nil
}

func (s *Service) GetByID(ctx context.Context, receiptID, userID ulid.ULID) (*Receipt, error) {
	entity, err := s.Repository.GetByIDAndUser(ctx, receiptID, userID)
	if err != nil {
		return nil, appErrors.ErrReceiptNotFound
	}
	return entity, nil
}
