package infrastructure

import (
	"context"

	"Hishab/internal/domain/sale"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type SaleRepository struct {
	DB *gorm.DB
}

var _ sale.Repository = (*SaleRepository)(nil)

func (r *SaleRepository) Create(ctx context.Context, entity *sale.Sale) error {
	if err := r.DB.WithContext(ctx).Create(entity).Error; err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

func (r *SaleRepository) Update(ctx context.Context, entity *sale.Sale) error {
	result := r.DB.WithContext(ctx).Model(&sale.Sale{}).
		Where("id = ? AND user_id = ?", entity.Id.String(), entity.UserId.String()).
		Select("product_name", "quantity", "bank_detail", "sale_date", "updated_at").
		Updates(entity)
	if result.Error != nil {
		return appErrors.NewDatabaseError(result.Error)
	}
	if result.RowsAffected == 0 {
		return appErrors.ErrSaleNotFound
	}
	return nil
}

func (r *SaleRepository) GetByIDAndUser(ctx context.Context, saleID, userID ulid.ULID) (*sale.Sale, error) {
	var entity sale.Sale
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", saleID.String(), userID.String()).
		First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func applySaleFilters(query *gorm.DB, filters *sale.ListFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.Status != nil && *filters.Status != "" {
		query = query.Where("status = ?", string(*filters.Status))
	}
	if filters.PaymentMethod != nil && *filters.PaymentMethod != "" {
		query = query.Where("payment_method = ?", string(*filters.PaymentMethod))
	}
	if filters.From != nil {
		query = query.Where("sale_date >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("sale_date <= ?", *filters.To)
	}
	if filters.Search != "" {
		query = query.Where("product_name ILIKE ?", "%"+filters.Search+"%")
	}
	return query
}

func saleOrderClause(sort sale.Sort) string {
	switch sort {
	case sale.SortDateAsc:
		return "sale_date ASC, created_at ASC"
	case sale.SortAmountDesc:
		return "sale_total DESC, created_at DESC"
	case sale.SortAmountAsc:
		return "sale_total ASC, created_at ASC"
	default:
		return "sale_date DESC, created_at DESC"
	}
}

func (r *SaleRepository) GetAll(ctx context.Context, userID ulid.ULID, filters *sale.ListFilters, pagination *pkg.PaginationParams) ([]*sale.Sale, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Model(&sale.Sale{}).Where("user_id = ?", userID.String())
	baseQuery = applySaleFilters(baseQuery, filters)

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	pagination = pkg.NormalizePagination(pagination)

	var sort sale.Sort
	if filters != nil {
		sort = filters.Sort
	}

	var sales []*sale.Sale
	err := baseQuery.Order(saleOrderClause(sort)).
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&sales).Error
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	return sales, total, nil
}
