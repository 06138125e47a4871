package infrastructure

import (
	"context"
	"time"

	"Hishab/internal/domain/report"
	appErrors "Hishab/internal/errors"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

var _ report.Repository = (*ReportRepository)(nil)

func (r *ReportRepository) SalesSummary(ctx context.Context, userID ulid.ULID, from, to *time.Time) (*report.SalesSummary, error) {
	salesQuery := r.DB.WithContext(ctx).Table("sales").Where("user_id = ?", userID.String())
	if from != nil {
		salesQuery = salesQuery.Where("sale_date >= ?", *from)
	}
	if to != nil {
		salesQuery = salesQuery.Where("sale_date <= ?", *to)
	}

	var totals struct {
		SalesCount    int64
		RefundedCount int64
		TotalSales    float64
	}
	err := salesQuery.Select(`
		COUNT(*) FILTER (WHERE status = 'completed') AS sales_count,
		COUNT(*) FILTER (WHERE status = 'refunded') AS refunded_count,
		COALESCE(SUM(sale_total) FILTER (WHERE status = 'completed'), 0) AS total_sales
	`).Scan(&totals).Error
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	allocQuery := r.DB.WithContext(ctx).Table("allocations a").
		Joins("JOIN sales s ON a.sale_id = s.id").
		Where("s.user_id = ? AND a.is_reversed = ?", userID.String(), false)
	if from != nil {
		allocQuery = allocQuery.Where("s.sale_date >= ?", *from)
	}
	if to != nil {
		allocQuery = allocQuery.Where("s.sale_date <= ?", *to)
	}

	var allocatedCost float64
	err = allocQuery.Select("COALESCE(SUM(a.allocated_amount), 0)").Scan(&allocatedCost).Error
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	methodQuery := r.DB.WithContext(ctx).Table("sales").
		Where("user_id = ? AND status = ?", userID.String(), "completed")
	if from != nil {
		methodQuery = methodQuery.Where("sale_date >= ?", *from)
	}
	if to != nil {
		methodQuery = methodQuery.Where("sale_date <= ?", *to)
	}

	var methodRows []struct {
		PaymentMethod string
		Total         float64
	}
	err = methodQuery.Select("payment_method, COALESCE(SUM(sale_total), 0) AS total").
		Group("payment_method").
		Scan(&methodRows).Error
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	byMethod := make(map[string]float64, len(methodRows))
	for _, row := range methodRows {
		byMethod[row.PaymentMethod] = row.Total
	}

	return &report.SalesSummary{
		From:               from,
		To:                 to,
		SalesCount:         totals.SalesCount,
		RefundedCount:      totals.RefundedCount,
		TotalSales:         totals.TotalSales,
		TotalAllocatedCost: allocatedCost,
		RevenueByMethod:    byMethod,
	}, nil
}

func (r *ReportRepository) ContributionSummary(ctx context.Context, userID ulid.ULID, from, to *time.Time) (*report.ContributionSummary, error) {
	query := r.DB.WithContext(ctx).Table("transactions").
		Where("user_id = ? AND type <> ?", userID.String(), "expense")
	if from != nil {
		query = query.Where("transaction_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("transaction_date <= ?", *to)
	}

	var totals struct {
		PartnerCount     int64
		TransactionCount int64
		TotalContributed float64
	}
	err := query.Select(`
		COUNT(DISTINCT partner_id) AS partner_count,
		COUNT(*) AS transaction_count,
		COALESCE(SUM(amount), 0) AS total_contributed
	`).Scan(&totals).Error
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return &report.ContributionSummary{
		From:             from,
		To:               to,
		PartnerCount:     totals.PartnerCount,
		TransactionCount: totals.TransactionCount,
		TotalContributed: totals.TotalContributed,
	}, nil
}
