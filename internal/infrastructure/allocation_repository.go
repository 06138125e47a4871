package infrastructure

import (
	"context"
	"time"

	"Hishab/internal/domain/allocation"
	"Hishab/internal/domain/costentry"
	"Hishab/internal/domain/sale"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllocationRepository serializes all writes that touch a cost entry's
// allocated_amount. The capacity invariant is enforced by a conditional
// update, so two racing allocations cannot both win the last slice of
// capacity.
type AllocationRepository struct {
	DB *gorm.DB
}

var _ allocation.Repository = (*AllocationRepository)(nil)

func (r *AllocationRepository) CreateWithCapacity(ctx context.Context, alloc *allocation.Allocation) (float64, error) {
	var remaining float64

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&costentry.CostEntry{}).
			Where("id = ? AND user_id = ? AND status <> ? AND total_cost - allocated_amount >= ?",
				alloc.CostEntryId.String(), alloc.UserId.String(),
				string(costentry.StatusCancelled), alloc.AllocatedAmount).
			UpdateColumn("allocated_amount", gorm.Expr("allocated_amount + ?", alloc.AllocatedAmount)).
			UpdateColumn("updated_at", time.Now())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// No write happened. Read the entry to report the current
			// remaining capacity.
			var entry costentry.CostEntry
			err := tx.Where("id = ? AND user_id = ?", alloc.CostEntryId.String(), alloc.UserId.String()).
				First(&entry).Error
			if err != nil {
				return err
			}
			remaining = entry.Remaining()
			return allocation.ErrCapacityExceeded
		}

		if err := tx.Create(alloc).Error; err != nil {
			return err
		}

		var entry costentry.CostEntry
		if err := tx.Where("id = ?", alloc.CostEntryId.String()).First(&entry).Error; err != nil {
			return err
		}
		remaining = entry.Remaining()

		if remaining <= 0 && entry.Status == costentry.StatusActive {
			err := tx.Model(&costentry.CostEntry{}).
				Where("id = ?", entry.Id.String()).
				UpdateColumn("status", string(costentry.StatusFullyAllocated)).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if err == allocation.ErrCapacityExceeded {
			return remaining, err
		}
		return 0, wrapAllocationError(err)
	}

	return remaining, nil
}

func (r *AllocationRepository) RefundSaleAtomic(ctx context.Context, saleID, userID ulid.ULID) (*allocation.RefundOutcome, error) {
	outcome := &allocation.RefundOutcome{}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var saleEntity sale.Sale
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", saleID.String(), userID.String()).
			First(&saleEntity).Error
		if err != nil {
			return err
		}

		switch saleEntity.Status {
		case sale.StatusRefunded:
			return allocation.ErrSaleAlreadyRefunded
		case sale.StatusCompleted:
		default:
			return allocation.ErrSaleNotCompleted
		}

		var allocations []*allocation.Allocation
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("sale_id = ? AND is_reversed = ?", saleID.String(), false).
			Find(&allocations).Error
		if err != nil {
			return err
		}

		now := time.Now()
		for _, alloc := range allocations {
			err := tx.Model(&allocation.Allocation{}).
				Where("id = ?", alloc.Id.String()).
				UpdateColumn("is_reversed", true).
				UpdateColumn("reversed_at", now).
				UpdateColumn("updated_at", now).Error
			if err != nil {
				return err
			}

			err = tx.Model(&costentry.CostEntry{}).
				Where("id = ?", alloc.CostEntryId.String()).
				UpdateColumn("allocated_amount", gorm.Expr("allocated_amount - ?", alloc.AllocatedAmount)).
				UpdateColumn("updated_at", now).Error
			if err != nil {
				return err
			}

			// Releasing capacity reopens a fully allocated entry.
			err = tx.Model(&costentry.CostEntry{}).
				Where("id = ? AND status = ?", alloc.CostEntryId.String(), string(costentry.StatusFullyAllocated)).
				UpdateColumn("status", string(costentry.StatusActive)).Error
			if err != nil {
				return err
			}

			outcome.ReversedCount++
			outcome.ReleasedAmount += alloc.AllocatedAmount
		}

		return tx.Model(&sale.Sale{}).
			Where("id = ?", saleID.String()).
			UpdateColumn("status", string(sale.StatusRefunded)).
			UpdateColumn("updated_at", now).Error
	})
	if err != nil {
		return nil, wrapAllocationError(err)
	}

	return outcome, nil
}

func wrapAllocationError(err error) error {
	switch err {
	case allocation.ErrCapacityExceeded, allocation.ErrSaleAlreadyRefunded, allocation.ErrSaleNotCompleted:
		return err
	case gorm.ErrRecordNotFound:
		return err
	}
	if appErrors.IsAppError(err) {
		return err
	}
	return appErrors.NewDatabaseError(err)
}

func (r *AllocationRepository) GetBySale(ctx context.Context, saleID, userID ulid.ULID) ([]*allocation.Allocation, error) {
	var allocations []*allocation.Allocation
	err := r.DB.WithContext(ctx).
		Where("sale_id = ? AND user_id = ?", saleID.String(), userID.String()).
		Order("created_at ASC").
		Find(&allocations).Error
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}
	return allocations, nil
}

func (r *AllocationRepository) GetAll(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*allocation.Allocation, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Model(&allocation.Allocation{}).Where("user_id = ?", userID.String())

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	pagination = pkg.NormalizePagination(pagination)

	var allocations []*allocation.Allocation
	err := baseQuery.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&allocations).Error
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	return allocations, total, nil
}

func (r *AllocationRepository) ActiveSumBySale(ctx context.Context, saleID ulid.ULID) (float64, error) {
	var total float64
	err := r.DB.WithContext(ctx).Model(&allocation.Allocation{}).
		Where("sale_id = ? AND is_reversed = ?", saleID.String(), false).
		Select("COALESCE(SUM(allocated_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, appErrors.NewDatabaseError(err)
	}
	return total, nil
}

func (r *AllocationRepository) ActiveSumsBySales(ctx context.Context, saleIDs []ulid.ULID) (map[ulid.ULID]float64, error) {
	if len(saleIDs) == 0 {
		return map[ulid.ULID]float64{}, nil
	}

	ids := make([]string, 0, len(saleIDs))
	for _, id := range saleIDs {
		ids = append(ids, id.String())
	}

	var rows []struct {
		SaleId string
		Total  float64
	}
	err := r.DB.WithContext(ctx).Model(&allocation.Allocation{}).
		Where("sale_id IN ? AND is_reversed = ?", ids, false).
		Select("sale_id, COALESCE(SUM(allocated_amount), 0) AS total").
		Group("sale_id").
		Scan(&rows).Error
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	out := make(map[ulid.ULID]float64, len(rows))
	for _, row := range rows {
		id, err := pkg.ParseULID(row.SaleId)
		if err != nil {
			continue
		}
		out[id] = row.Total
	}
	return out, nil
}
