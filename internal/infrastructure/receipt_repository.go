package infrastructure

import (
	"context"

	"Hishab/internal/domain/receipt"
	appErrors "Hishab/internal/errors"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type ReceiptRepository struct {
	DB *gorm.DB
}

var _ receipt.Repository = (*ReceiptRepository)(nil)

func (r *ReceiptRepository) Create(ctx context.Context, entity *receipt.Receipt) error {
	if err := r.DB.WithContext(ctx).Create(entity).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *ReceiptRepository) GetByIDAndUser(ctx context.Context, receiptID, userID ulid.ULID) (*receipt.Receipt, error) {
	var entity receipt.Receipt
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", receiptID.String(), userID.String()).
		First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}
