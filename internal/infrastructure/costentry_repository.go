package infrastructure

import (
	"context"

	"Hishab/internal/domain/costentry"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type CostEntryRepository struct {
	DB *gorm.DB
}

var _ costentry.Repository = (*CostEntryRepository)(nil)

func (r *CostEntryRepository) Create(ctx context.Context, entry *costentry.CostEntry) error {
	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *CostEntryRepository) Update(ctx context.Context, entry *costentry.CostEntry) error {
	// total_cost and allocated_amount are excluded: the first is fixed at
	// creation, the second belongs to the allocation engine.
	result := r.DB.WithContext(ctx).Model(&costentry.CostEntry{}).
		Where("id = ? AND user_id = ?", entry.Id.String(), entry.UserId.String()).
		Select("description", "entry_date", "status", "updated_at").
		Updates(entry)
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrCostEntryNotFound
	}
	return nil
}

func (r *CostEntryRepository) GetByIDAndUser(ctx context.Context, entryID, userID ulid.ULID) (*costentry.CostEntry, error) {
	var entry costentry.CostEntry
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID.String(), userID.String()).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func applyCostEntryFilters(query *gorm.DB, filters *costentry.ListFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Status != nil && *filters.Status != "" {
		query = query.Where("status = ?", string(*filters.Status))
	}
	if filters.From != nil {
		query = query.Where("entry_date >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("entry_date <= ?", *filters.To)
	}
	if filters.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filters.Search+"%")
	}
	return query
}

func (r *CostEntryRepository) GetAll(ctx context.Context, userID ulid.ULID, filters *costentry.ListFilters, pagination *pkg.PaginationParams) ([]*costentry.CostEntry, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Model(&costentry.CostEntry{}).Where("user_id = ?", userID.String())
	baseQuery = applyCostEntryFilters(baseQuery, filters)

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	pagination = pkg.NormalizePagination(pagination)

	var entries []*costentry.CostEntry
	err := baseQuery.Order("entry_date DESC, created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	return entries, total, nil
}
