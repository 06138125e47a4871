package allocation_test

import (
	"context"
	"testing"

	"Hishab/internal/domain/allocation"
	"Hishab/internal/domain/costentry"
	"Hishab/internal/domain/sale"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type fakeSaleRepository struct {
	getByIDFn func(ctx context.Context, saleID, userID ulid.ULID) (*sale.Sale, error)
}

func (f *fakeSaleRepository) Create(ctx context.Context, s *sale.Sale) error { return nil }
func (f *fakeSaleRepository) Update(ctx context.Context, s *sale.Sale) error { return nil }
func (f *fakeSaleRepository) GetByIDAndUser(ctx context.Context, saleID, userID ulid.ULID) (*sale.Sale, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, saleID, userID)
	}
	return nil, appErrors.ErrSaleNotFound
}
func (f *fakeSaleRepository) GetAll(ctx context.Context, userID ulid.ULID, filters *sale.ListFilters, pagination *pkg.PaginationParams) ([]*sale.Sale, int64, error) {
	return nil, 0, nil
}

type fakeCostEntryRepository struct {
	getByIDFn func(ctx context.Context, entryID, userID ulid.ULID) (*costentry.CostEntry, error)
}

func (f *fakeCostEntryRepository) Create(ctx context.Context, e *costentry.CostEntry) error {
	return nil
}
func (f *fakeCostEntryRepository) Update(ctx context.Context, e *costentry.CostEntry) error {
	return nil
}
func (f *fakeCostEntryRepository) GetByIDAndUser(ctx context.Context, entryID, userID ulid.ULID) (*costentry.CostEntry, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, entryID, userID)
	}
	return nil, appErrors.ErrCostEntryNotFound
}
func (f *fakeCostEntryRepository) GetAll(ctx context.Context, userID ulid.ULID, filters *costentry.ListFilters, pagination *pkg.PaginationParams) ([]*costentry.CostEntry, int64, error) {
	return nil, 0, nil
}

// memoryAllocations enforces the capacity invariant the way the store's
// conditional update does.
type memoryAllocations struct {
	entries     map[ulid.ULID]*costentry.CostEntry
	allocations []*allocation.Allocation
}

func newMemoryAllocations(entries ...*costentry.CostEntry) *memoryAllocations {
	m := &memoryAllocations{entries: make(map[ulid.ULID]*costentry.CostEntry)}
	for _, e := range entries {
		m.entries[e.Id] = e
	}
	return m
}

func (m *memoryAllocations) CreateWithCapacity(ctx context.Context, alloc *allocation.Allocation) (float64, error) {
	entry, ok := m.entries[alloc.CostEntryId]
	if !ok {
		return 0, appErrors.ErrCostEntryNotFound
	}
	if entry.Status == costentry.StatusCancelled || entry.Remaining() < alloc.AllocatedAmount {
		return entry.Remaining(), allocation.ErrCapacityExceeded
	}
	entry.AllocatedAmount += alloc.AllocatedAmount
	if entry.Remaining() <= 0 {
		entry.Status = costentry.StatusFullyAllocated
	}
	m.allocations = append(m.allocations, alloc)
	return entry.Remaining(), nil
}

func (m *memoryAllocations) RefundSaleAtomic(ctx context.Context, saleID, userID ulid.ULID) (*allocation.RefundOutcome, error) {
	outcome := &allocation.RefundOutcome{}
	for _, alloc := range m.allocations {
		if alloc.SaleId != saleID || alloc.IsReversed {
			continue
		}
		alloc.IsReversed = true
		entry := m.entries[alloc.CostEntryId]
		entry.AllocatedAmount -= alloc.AllocatedAmount
		if entry.Status == costentry.StatusFullyAllocated {
			entry.Status = costentry.StatusActive
		}
		outcome.ReversedCount++
		outcome.ReleasedAmount += alloc.AllocatedAmount
	}
	return outcome, nil
}

func (m *memoryAllocations) GetBySale(ctx context.Context, saleID, userID ulid.ULID) ([]*allocation.Allocation, error) {
	var out []*allocation.Allocation
	for _, alloc := range m.allocations {
		if alloc.SaleId == saleID {
			out = append(out, alloc)
		}
	}
	return out, nil
}

func (m *memoryAllocations) GetAll(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*allocation.Allocation, int64, error) {
	return m.allocations, int64(len(m.allocations)), nil
}

func (m *memoryAllocations) ActiveSumBySale(ctx context.Context, saleID ulid.ULID) (float64, error) {
	var sum float64
	for _, alloc := range m.allocations {
		if alloc.SaleId == saleID && !alloc.IsReversed {
			sum += alloc.AllocatedAmount
		}
	}
	return sum, nil
}

func (m *memoryAllocations) ActiveSumsBySales(ctx context.Context, saleIDs []ulid.ULID) (map[ulid.ULID]float64, error) {
	sums := make(map[ulid.ULID]float64)
	for _, id := range saleIDs {
		sum, _ := m.ActiveSumBySale(ctx, id)
		sums[id] = sum
	}
	return sums, nil
}

func newAllocationService(repo allocation.Repository, saleEntity *sale.Sale, entry *costentry.CostEntry) *allocation.Service {
	saleSvc := sale.NewService(&fakeSaleRepository{
		getByIDFn: func(ctx context.Context, saleID, userID ulid.ULID) (*sale.Sale, error) {
			if saleEntity != nil && saleEntity.Id == saleID {
				return saleEntity, nil
			}
			return nil, appErrors.ErrSaleNotFound
		},
	})
	costSvc := costentry.NewService(&fakeCostEntryRepository{
		getByIDFn: func(ctx context.Context, entryID, userID ulid.ULID) (*costentry.CostEntry, error) {
			if entry != nil && entry.Id == entryID {
				return entry, nil
			}
			return nil, appErrors.ErrCostEntryNotFound
		},
	})
	return allocation.NewService(repo, saleSvc, costSvc)
}

func TestCreateAllocationCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()

	saleEntity := &sale.Sale{
		Id:        ulid.Make(),
		UserId:    userID,
		SaleTotal: 2000,
		Status:    sale.StatusCompleted,
	}
	entry := &costentry.CostEntry{
		Id:        ulid.Make(),
		UserId:    userID,
		TotalCost: 1000,
		Status:    costentry.StatusActive,
	}

	repo := newMemoryAllocations(entry)
	svc := newAllocationService(repo, saleEntity, entry)

	first, err := svc.CreateAllocation(ctx, userID, saleEntity.Id, entry.Id, 400)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.CostEntryRemaining != 600 {
		t.Fatalf("expected remaining 600, got %v", first.CostEntryRemaining)
	}
	if first.SaleProfit != 1600 {
		t.Fatalf("expected profit 1600, got %v", first.SaleProfit)
	}

	_, err = svc.CreateAllocation(ctx, userID, saleEntity.Id, entry.Id, 700)
	if err == nil {
		t.Fatalf("over-allocation must be rejected")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	want := "Allocated amount exceeds remaining unallocated amount. Maximum allowed: 600"
	if appErr.Message != want {
		t.Fatalf("expected %q, got %q", want, appErr.Message)
	}
	if entry.AllocatedAmount != 400 {
		t.Fatalf("rejected allocation must write nothing, allocated=%v", entry.AllocatedAmount)
	}

	second, err := svc.CreateAllocation(ctx, userID, saleEntity.Id, entry.Id, 600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.CostEntryRemaining != 0 {
		t.Fatalf("expected remaining 0, got %v", second.CostEntryRemaining)
	}
	if entry.Status != costentry.StatusFullyAllocated {
		t.Fatalf("expected fully_allocated, got %s", entry.Status)
	}

	_, err = svc.CreateAllocation(ctx, userID, saleEntity.Id, entry.Id, 0.01)
	if err == nil {
		t.Fatalf("allocation past capacity boundary must be rejected")
	}
}

func TestCreateAllocationRejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()

	entry := &costentry.CostEntry{
		Id:        ulid.Make(),
		UserId:    userID,
		TotalCost: 500,
		Status:    costentry.StatusActive,
	}

	t.Run("non-positive amount", func(t *testing.T) {
		saleEntity := &sale.Sale{Id: ulid.Make(), UserId: userID, SaleTotal: 100, Status: sale.StatusCompleted}
		svc := newAllocationService(newMemoryAllocations(entry), saleEntity, entry)
		_, err := svc.CreateAllocation(ctx, userID, saleEntity.Id, entry.Id, 0)
		if err == nil {
			t.Fatalf("expected rejection")
		}
	})

	t.Run("refunded sale", func(t *testing.T) {
		saleEntity := &sale.Sale{Id: ulid.Make(), UserId: userID, SaleTotal: 100, Status: sale.StatusRefunded}
		svc := newAllocationService(newMemoryAllocations(entry), saleEntity, entry)
		_, err := svc.CreateAllocation(ctx, userID, saleEntity.Id, entry.Id, 50)
		if err == nil {
			t.Fatalf("expected rejection")
		}
		appErr, _ := appErrors.AsAppError(err)
		if appErr.Code != "INVARIANT_VIOLATION" {
			t.Fatalf("expected invariant violation, got %s", appErr.Code)
		}
	})

	t.Run("cancelled entry", func(t *testing.T) {
		cancelled := &costentry.CostEntry{
			Id:        ulid.Make(),
			UserId:    userID,
			TotalCost: 500,
			Status:    costentry.StatusCancelled,
		}
		saleEntity := &sale.Sale{Id: ulid.Make(), UserId: userID, SaleTotal: 100, Status: sale.StatusCompleted}
		svc := newAllocationService(newMemoryAllocations(cancelled), saleEntity, cancelled)
		_, err := svc.CreateAllocation(ctx, userID, saleEntity.Id, cancelled.Id, 50)
		if err == nil {
			t.Fatalf("expected rejection")
		}
	})
}

func TestRefundSale(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()

	saleEntity := &sale.Sale{
		Id:        ulid.Make(),
		UserId:    userID,
		SaleTotal: 1000,
		Status:    sale.StatusCompleted,
	}
	entry := &costentry.CostEntry{
		Id:        ulid.Make(),
		UserId:    userID,
		TotalCost: 600,
		Status:    costentry.StatusActive,
	}

	repo := newMemoryAllocations(entry)
	svc := newAllocationService(repo, saleEntity, entry)

	if _, err := svc.CreateAllocation(ctx, userID, saleEntity.Id, entry.Id, 600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Status != costentry.StatusFullyAllocated {
		t.Fatalf("expected fully_allocated before refund")
	}

	result, err := svc.RefundSale(ctx, userID, saleEntity.Id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ReversedCount != 1 || result.ReleasedAmount != 600 {
		t.Fatalf("expected 1 reversal releasing 600, got %+v", result)
	}
	if result.Sale.Status != sale.StatusRefunded {
		t.Fatalf("sale must be refunded")
	}
	if entry.AllocatedAmount != 0 || entry.Status != costentry.StatusActive {
		t.Fatalf("refund must release the entry, got allocated=%v status=%s", entry.AllocatedAmount, entry.Status)
	}

	_, err = svc.RefundSale(ctx, userID, saleEntity.Id)
	if err == nil {
		t.Fatalf("second refund must be rejected")
	}
	appErr, _ := appErrors.AsAppError(err)
	if appErr.Message != "Sale has already been refunded" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestRefundSaleRequiresCompleted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()

	saleEntity := &sale.Sale{
		Id:        ulid.Make(),
		UserId:    userID,
		SaleTotal: 100,
		Status:    sale.StatusPending,
	}

	svc := newAllocationService(newMemoryAllocations(), saleEntity, nil)

	_, err := svc.RefundSale(ctx, userID, saleEntity.Id)
	if err == nil {
		t.Fatalf("expected rejection")
	}
	appErr, _ := appErrors.AsAppError(err)
	if appErr.Message != "Only completed sales can be refunded" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestSaleProfit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()

	saleEntity := &sale.Sale{
		Id:        ulid.Make(),
		UserId:    userID,
		SaleTotal: 1000,
		Status:    sale.StatusCompleted,
	}
	entry := &costentry.CostEntry{
		Id:        ulid.Make(),
		UserId:    userID,
		TotalCost: 400,
		Status:    costentry.StatusActive,
	}

	repo := newMemoryAllocations(entry)
	svc := newAllocationService(repo, saleEntity, entry)

	if _, err := svc.CreateAllocation(ctx, userID, saleEntity.Id, entry.Id, 400); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profit, margin, err := svc.SaleProfit(ctx, saleEntity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profit != 600 {
		t.Fatalf("expected profit 600, got %v", profit)
	}
	if margin != 60 {
		t.Fatalf("expected margin 60, got %v", margin)
	}
}
