package infrastructure

import (
	"context"

	"Hishab/internal/domain/partner"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type PartnerRepository struct {
	DB *gorm.DB
}

var _ partner.Repository = (*PartnerRepository)(nil)

func (r *PartnerRepository) Create(ctx context.Context, entity *partner.Partner) error {
	if err := r.DB.WithContext(ctx).Create(entity).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *PartnerRepository) Update(ctx context.Context, entity *partner.Partner) error {
	// total_contributed is excluded on purpose: only the ledger's atomic
	// units may touch it.
	result := r.DB.WithContext(ctx).Model(&partner.Partner{}).
		Where("id = ? AND user_id = ?", entity.Id.String(), entity.UserId.String()).
		Select("name", "email", "phone", "notes", "avatar_id", "avatar_url", "updated_at").
		Updates(entity)
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrPartnerNotFound
	}
	return nil
}

func (r *PartnerRepository) GetByID(ctx context.Context, partnerID ulid.ULID) (*partner.Partner, error) {
	var entity partner.Partner
	err := r.DB.WithContext(ctx).Where("id = ?", partnerID.String()).First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *PartnerRepository) GetByIDAndUser(ctx context.Context, partnerID, userID ulid.ULID) (*partner.Partner, error) {
	var entity partner.Partner
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", partnerID.String(), userID.String()).
		First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *PartnerRepository) GetAll(ctx context.Context, userID ulid.ULID, filters *partner.ListFilters, pagination *pkg.PaginationParams) ([]*partner.Partner, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Model(&partner.Partner{}).Where("user_id = ?", userID.String())

	if filters != nil && filters.Search != "" {
		baseQuery = baseQuery.Where("name ILIKE ?", "%"+filters.Search+"%")
	}

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	order := "created_at DESC"
	if filters != nil {
		switch filters.SortBy {
		case "name":
			order = "name"
		case "total_contributed":
			order = "total_contributed"
		case "created_at":
			order = "created_at"
		default:
			order = "created_at"
		}
		if filters.Order == "desc" || filters.SortBy == "" {
			order += " DESC"
		} else {
			order += " ASC"
		}
	}

	pagination = pkg.NormalizePagination(pagination)

	var partners []*partner.Partner
	err := baseQuery.Order(order).
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&partners).Error
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	return partners, total, nil
}

func (r *PartnerRepository) GetLeaderboard(ctx context.Context, userID ulid.ULID, limit int) ([]*partner.Partner, float64, error) {
	var partners []*partner.Partner
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("total_contributed DESC, name ASC").
		Limit(limit).
		Find(&partners).Error
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	var grandTotal float64
	err = r.DB.WithContext(ctx).Model(&partner.Partner{}).
		Where("user_id = ?", userID.String()).
		Select("COALESCE(SUM(total_contributed), 0)").
		Scan(&grandTotal).Error
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	return partners, grandTotal, nil
}
