package allocation

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"Hishab/internal/domain/costentry"
	"Hishab/internal/domain/sale"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Service struct {
	Repository       Repository
	SaleService      *sale.Service
	CostEntryService *costentry.Service
}

func NewService(repo Repository, sales *sale.Service, costEntries *costentry.Service) *Service {
	return &Service{Repository: repo, SaleService: sales, CostEntryService: costEntries}
}

type AllocationResult struct {
	Allocation         *Allocation
	CostEntryRemaining float64
	SaleProfit         float64
}

// CreateAllocation books part of a cost entry against a sale. The capacity
// invariant (allocated_amount never exceeds total_cost) is enforced by a
// conditional update in the store, so two racing allocations against the
// same entry serialize correctly.
func (s *Service) CreateAllocation(ctx context.Context, userID, saleID, costEntryID ulid.ULID, amount float64) (*AllocationResult, error) {
	if amount <= 0 {
		return nil, appErrors.NewValidationError("amount", "Amount must be greater than 0")
	}

	saleEntity, err := s.SaleService.GetByID(ctx, saleID, userID)
	if err != nil {
		return nil, err
	}
	if saleEntity.Status == sale.StatusRefunded {
		return nil, appErrors.NewInvariantViolation("Cannot allocate against a refunded sale")
	}

	entry, err := s.CostEntryService.GetByID(ctx, costEntryID, userID)
	if err != nil {
		return nil, err
	}
	if entry.Status == costentry.StatusCancelled {
		return nil, appErrors.NewInvariantViolation("Cost entry is cancelled")
	}

	now := pkg.SetTimestamps()
	entity := &Allocation{
		Id:              pkg.GenerateULIDObject(),
		UserId:          userID,
		SaleId:          saleID,
		CostEntryId:     costEntryID,
		AllocatedAmount: amount,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	remaining, err := s.Repository.CreateWithCapacity(ctx, entity)
	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			return nil, appErrors.NewInvariantViolation(capacityMessage(remaining))
		}
		return nil, err
	}

	allocated, err := s.Repository.ActiveSumBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}

	return &AllocationResult{
		Allocation:         entity,
		CostEntryRemaining: remaining,
		SaleProfit:         saleEntity.SaleTotal - allocated,
	}, nil
}

type RefundResult struct {
	Sale           *sale.Sale
	ReversedCount  int
	ReleasedAmount float64
}

// RefundSale reverses every active allocation on the sale, releases the
// amounts back to their cost entries and marks the sale refunded, all in one
// atomic unit. Only completed sales can be refunded and the operation is
// rejected, not re-applied, on a second call.
func (s *Service) RefundSale(ctx context.Context, userID, saleID ulid.ULID) (*RefundResult, error) {
	saleEntity, err := s.SaleService.GetByID(ctx, saleID, userID)
	if err != nil {
		return nil, err
	}

	switch saleEntity.Status {
	case sale.StatusRefunded:
		return nil, appErrors.NewInvariantViolation("Sale has already been refunded")
	case sale.StatusCompleted:
	default:
		return nil, appErrors.NewInvariantViolation("Only completed sales can be refunded")
	}

	outcome, err := s.Repository.RefundSaleAtomic(ctx, saleID, userID)
	if err != nil {
		if errors.Is(err, ErrSaleAlreadyRefunded) {
			return nil, appErrors.NewInvariantViolation("Sale has already been refunded")
		}
		if errors.Is(err, ErrSaleNotCompleted) {
			return nil, appErrors.NewInvariantViolation("Only completed sales can be refunded")
		}
		return nil, err
	}

	saleEntity.Status = sale.StatusRefunded

	return &RefundResult{
		Sale:           saleEntity,
		ReversedCount:  outcome.ReversedCount,
		ReleasedAmount: outcome.ReleasedAmount,
	}, nil
}

// SaleProfit is sale_total minus the sum of active allocation amounts.
func (s *Service) SaleProfit(ctx context.Context, saleEntity *sale.Sale) (float64, float64, error) {
	allocated, err := s.Repository.ActiveSumBySale(ctx, saleEntity.Id)
	if err != nil {
		return 0, 0, err
	}
	profit := saleEntity.SaleTotal - allocated
	return profit, sale.ProfitMargin(profit, saleEntity.SaleTotal), nil
}

// SaleProfits batch-computes profit per sale for list read paths.
func (s *Service) SaleProfits(ctx context.Context, sales []*sale.Sale) (map[ulid.ULID]float64, error) {
	ids := make([]ulid.ULID, 0, len(sales))
	for _, entity := range sales {
		ids = append(ids, entity.Id)
	}
	sums, err := s.Repository.ActiveSumsBySales(ctx, ids)
	if err != nil {
		return nil, err
	}

	profits := make(map[ulid.ULID]float64, len(sales))
	for _, entity := range sales {
		profits[entity.Id] = entity.SaleTotal - sums[entity.Id]
	}
	return profits, nil
}

func (s *Service) ListBySale(ctx context.Context, saleID, userID ulid.ULID) ([]*Allocation, error) {
	if _, err := s.SaleService.GetByID(ctx, saleID, userID); err != nil {
		return nil, err
	}
	return s.Repository.GetBySale(ctx, saleID, userID)
}

func (s *Service) List(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Allocation, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	return s.Repository.GetAll(ctx, userID, pagination)
}

func capacityMessage(remaining float64) string {
	return fmt.Sprintf("Allocated amount exceeds remaining unallocated amount. Maximum allowed: %s",
		strconv.FormatFloat(remaining, 'f', -1, 64))
}
