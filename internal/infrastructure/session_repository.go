package infrastructure

import (
	"context"
	"time"

	"Hishab/internal/domain/session"
	appErrors "Hishab/internal/errors"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

var _ session.Repository = (*SessionRepository)(nil)

func (r *SessionRepository) Create(ctx context.Context, entity *session.Session) error {
	if err := r.DB.WithContext(ctx).Create(entity).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*session.Session, error) {
	var entity session.Session
	err := r.DB.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *SessionRepository) GetByIDAndUser(ctx context.Context, sessionID, userID ulid.ULID) (*session.Session, error) {
	var entity session.Session
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID.String(), userID.String()).
		First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *SessionRepository) GetAllByUser(ctx context.Context, userID ulid.ULID) ([]*session.Session, error) {
	var sessions []*session.Session
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}
	return sessions, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, sessionID ulid.ULID) error {
	result := r.DB.WithContext(ctx).Model(&session.Session{}).
		Where("id = ? AND revoked_at IS NULL", sessionID.String()).
		Update("revoked_at", time.Now())
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	return nil
}

func (r *SessionRepository) RevokeAllByUser(ctx context.Context, userID ulid.ULID) error {
	err := r.DB.WithContext(ctx).Model(&session.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID.String()).
		Update("revoked_at", time.Now()).Error
	if err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.DB.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&session.Session{})
	if result.Error != nil {
		return 0, appErrors.NewDatabaseError(result.Error)
	}
	return result.RowsAffected, nil
}
