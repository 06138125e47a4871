package infrastructure

import (
	"context"
	"time"

	"Hishab/internal/domain/ledger"
	"Hishab/internal/domain/partner"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// LedgerRepository owns every write that must pair an immutable transaction
// row with a partner total adjustment. Each composite method runs inside a
// single database transaction so no reader ever observes one half of the
// pair.
type LedgerRepository struct {
	DB *gorm.DB
}

var _ ledger.Repository = (*LedgerRepository)(nil)

func (r *LedgerRepository) CreateWithPartnerTotal(ctx context.Context, entity *ledger.Transaction) (float64, error) {
	var total float64

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entity).Error; err != nil {
			if isUniqueConstraintOn(err, "idx_transactions_idempotency_key") {
				return ledger.ErrDuplicateIdempotencyKey
			}
			return err
		}

		newTotal, err := adjustPartnerTotal(tx, entity.PartnerId, entity.UserId, entity.Amount)
		if err != nil {
			return err
		}
		total = newTotal
		return nil
	})
	if err != nil {
		return 0, wrapLedgerError(err)
	}

	return total, nil
}

func (r *LedgerRepository) CreateUndoWithPartnerTotal(ctx context.Context, undo *ledger.Transaction) (float64, error) {
	var total float64

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(undo).Error; err != nil {
			if isUniqueConstraintOn(err, "idx_transactions_undo_target") {
				return ledger.ErrUndoConflict
			}
			return err
		}

		// undo.Amount is negative, this decrements.
		newTotal, err := adjustPartnerTotal(tx, undo.PartnerId, undo.UserId, undo.Amount)
		if err != nil {
			return err
		}
		total = newTotal
		return nil
	})
	if err != nil {
		return 0, wrapLedgerError(err)
	}

	return total, nil
}

func (r *LedgerRepository) AmendAtomic(ctx context.Context, params *ledger.AmendParams) (float64, error) {
	original := params.Original
	var total float64

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if params.Transfer != nil {
			// The effective amount settled on the old partner is the original
			// plus every adjustment referencing it. Both rows and totals move
			// together so the per-partner sum invariant keeps holding.
			adjustmentSum, err := sumAdjustments(tx, original.Id)
			if err != nil {
				return err
			}
			effective := original.Amount + adjustmentSum

			if _, err := adjustPartnerTotal(tx, params.Transfer.From, original.UserId, -effective); err != nil {
				return err
			}
			if _, err := adjustPartnerTotal(tx, params.Transfer.To, original.UserId, effective); err != nil {
				return err
			}

			err = tx.Model(&ledger.Transaction{}).
				Where("related_to = ? AND type = ?", original.Id.String(), string(ledger.TypeAdjustment)).
				UpdateColumn("partner_id", params.Transfer.To.String()).Error
			if err != nil {
				return err
			}
		}

		// Non-monetary edits only; amount is never rewritten here.
		err := tx.Model(&ledger.Transaction{}).
			Where("id = ?", original.Id.String()).
			Select("partner_id", "category", "context", "transaction_date", "receipt_id", "updated_at").
			Updates(original).Error
		if err != nil {
			return err
		}

		if params.Adjustment != nil {
			if err := tx.Create(params.Adjustment).Error; err != nil {
				return err
			}
			newTotal, err := adjustPartnerTotal(tx, params.Adjustment.PartnerId, params.Adjustment.UserId, params.Adjustment.Amount)
			if err != nil {
				return err
			}
			total = newTotal
			return nil
		}

		return tx.Model(&partner.Partner{}).
			Where("id = ?", original.PartnerId.String()).
			Select("total_contributed").
			Scan(&total).Error
	})
	if err != nil {
		return 0, wrapLedgerError(err)
	}

	return total, nil
}

func sumAdjustments(db *gorm.DB, transactionID ulid.ULID) (float64, error) {
	var sum float64
	err := db.Model(&ledger.Transaction{}).
		Where("related_to = ? AND type = ?", transactionID.String(), string(ledger.TypeAdjustment)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *LedgerRepository) AdjustmentSum(ctx context.Context, transactionID ulid.ULID) (float64, error) {
	sum, err := sumAdjustments(r.DB.WithContext(ctx), transactionID)
	if err != nil {
		return 0, appErrors.NewDatabaseError(err)
	}
	return sum, nil
}

// adjustPartnerTotal applies a delta to the partner's running total inside
// the caller's transaction and returns the value after the adjustment.
func adjustPartnerTotal(tx *gorm.DB, partnerID, userID ulid.ULID, delta float64) (float64, error) {
	result := tx.Model(&partner.Partner{}).
		Where("id = ? AND user_id = ?", partnerID.String(), userID.String()).
		UpdateColumn("total_contributed", gorm.Expr("total_contributed + ?", delta)).
		UpdateColumn("updated_at", time.Now())
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ledger.ErrPartnerMissing
	}

	var total float64
	err := tx.Model(&partner.Partner{}).
		Where("id = ?", partnerID.String()).
		Select("total_contributed").
		Scan(&total).Error
	return total, err
}

func wrapLedgerError(err error) error {
	switch err {
	case ledger.ErrDuplicateIdempotencyKey, ledger.ErrUndoConflict, ledger.ErrPartnerMissing:
		return err
	}
	if appErrors.IsAppError(err) {
		return err
	}
	return appErrors.NewDatabaseError(err)
}

func (r *LedgerRepository) GetByIDAndUser(ctx context.Context, transactionID, userID ulid.ULID) (*ledger.Transaction, error) {
	var entity ledger.Transaction
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", transactionID.String(), userID.String()).
		First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *LedgerRepository) GetByIdempotencyKey(ctx context.Context, userID ulid.ULID, key string) (*ledger.Transaction, error) {
	var entity ledger.Transaction
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID.String(), key).
		First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *LedgerRepository) HasUndo(ctx context.Context, transactionID ulid.ULID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&ledger.Transaction{}).
		Where("related_to = ? AND type = ?", transactionID.String(), string(ledger.TypeUndo)).
		Count(&count).Error
	if err != nil {
		return false, appErrors.NewDatabaseError(err)
	}
	return count > 0, nil
}

func applyTransactionFilters(query *gorm.DB, filters *ledger.ListFilters) *gorm.DB {
	if filters == nil {
		return query
	}
	if filters.PartnerID != nil {
		query = query.Where("partner_id = ?", filters.PartnerID.String())
	}
	if filters.Type != nil && *filters.Type != "" {
		query = query.Where("type = ?", string(*filters.Type))
	}
	if filters.From != nil {
		query = query.Where("transaction_date >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("transaction_date <= ?", *filters.To)
	}
	return query
}

func (r *LedgerRepository) GetAll(ctx context.Context, userID ulid.ULID, filters *ledger.ListFilters, pagination *pkg.PaginationParams) ([]*ledger.Transaction, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Model(&ledger.Transaction{}).Where("user_id = ?", userID.String())
	baseQuery = applyTransactionFilters(baseQuery, filters)

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	pagination = pkg.NormalizePagination(pagination)

	var transactions []*ledger.Transaction
	err := baseQuery.Order("transaction_date DESC, created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	return transactions, total, nil
}

func (r *LedgerRepository) GetAllForExport(ctx context.Context, userID ulid.ULID, filters *ledger.ListFilters) ([]*ledger.Transaction, error) {
	query := r.DB.WithContext(ctx).Model(&ledger.Transaction{}).Where("user_id = ?", userID.String())
	query = applyTransactionFilters(query, filters)

	var transactions []*ledger.Transaction
	err := query.Order("transaction_date ASC, created_at ASC").Find(&transactions).Error
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}
	return transactions, nil
}

func (r *LedgerRepository) RecentByPartners(ctx context.Context, userID ulid.ULID, partnerIDs []ulid.ULID, limit int) (map[ulid.ULID][]*ledger.Transaction, error) {
	ids := make([]string, 0, len(partnerIDs))
	for _, id := range partnerIDs {
		ids = append(ids, id.String())
	}

	var rows []ledger.Transaction
	err := r.DB.WithContext(ctx).Raw(`
		SELECT * FROM (
			SELECT t.*, ROW_NUMBER() OVER (
				PARTITION BY t.partner_id
				ORDER BY t.transaction_date DESC, t.created_at DESC
			) AS rank
			FROM transactions t
			WHERE t.user_id = ? AND t.partner_id IN ?
		) ranked
		WHERE rank <= ?
	`, userID.String(), ids, limit).Scan(&rows).Error
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	out := make(map[ulid.ULID][]*ledger.Transaction, len(partnerIDs))
	for i := range rows {
		row := rows[i]
		out[row.PartnerId] = append(out[row.PartnerId], &row)
	}
	return out, nil
}
