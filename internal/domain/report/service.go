package report

import (
	"context"
	"time"

	"Hishab/internal/domain/sale"
	appErrors "Hishab/internal/errors"

	"github.com/oklog/ulid/v2"
)

type Service struct {
	Repository Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repository: repo}
}

type SalesSummaryResult struct {
	Summary       *SalesSummary
	GrossProfit   float64
	AverageMargin float64
}

func (s *Service) SalesSummary(ctx context.Context, userID ulid.ULID, from, to *time.Time) (*SalesSummaryResult, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, appErrors.NewValidationError("to", "End date must not be before start date")
	}

	summary, err := s.Repository.SalesSummary(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	profit := summary.TotalSales - summary.TotalAllocatedCost
	return &SalesSummaryResult{
		Summary:       summary,
		GrossProfit:   profit,
		AverageMargin: sale.ProfitMargin(profit, summary.TotalSales),
	}, nil
}

func (s *Service) ContributionSummary(ctx context.Context, userID ulid.ULID, from, to *time.Time) (*ContributionSummary, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, appErrors.NewValidationError("to", "End date must not be before start date")
	}
	return s.Repository.ContributionSummary(ctx, userID, from, to)
}
