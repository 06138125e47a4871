package infrastructure

import (
	"context"

	"Hishab/internal/domain/user"
	appErrors "Hishab/internal/errors"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, entity *user.User) error {
	if err := r.DB.WithContext(ctx).Create(entity).Error; err != nil {
		if isUniqueConstraintError(err) {
			return appErrors.ErrEmailAlreadyExists
		}
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, entity *user.User) error {
	result := r.DB.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", entity.Id.String()).
		Select("name", "email", "password", "avatar_id", "avatar_url",
			"failed_login_attempts", "locked_until", "updated_at").
		Updates(entity)
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID ulid.ULID) (*user.User, error) {
	var entity user.User
	err := r.DB.WithContext(ctx).Where("id = ?", userID.String()).First(&entity).Error
	if err != nil {
		return nil, appErrors.ErrUserNotFound
	}
	return &entity, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var entity user.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&entity).Error
	if err != nil {
		return nil, appErrors.ErrUserNotFound
	}
	return &entity, nil
}
