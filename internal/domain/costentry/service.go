package costentry

import (
	"context"
	"strings"

	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Service struct {
	Repository Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repository: repo}
}

func (s *Service) Create(ctx context.Context, entry *CostEntry) error {
	entry.Description = strings.TrimSpace(entry.Description)
	if entry.Description == "" {
		return appErrors.NewValidationError("description", "Description is required")
	}
	if entry.TotalCost <= 0 {
		return appErrors.NewValidationError("total_cost", "Total cost must be greater than 0")
	}

	entry.Id = pkg.GenerateULIDObject()
	entry.AllocatedAmount = 0
	entry.Status = StatusActive
	if entry.Currency == "" {
		entry.Currency = "BDT"
	}
	now := pkg.SetTimestamps()
	if entry.EntryDate.IsZero() {
		entry.EntryDate = now
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now

	return s.Repository.Create(ctx, entry)
}

// Update edits non-monetary fields only. TotalCost is fixed at creation and
// AllocatedAmount is owned by the allocation engine.
func (s *Service) Update(ctx context.Context, entry *CostEntry) (*CostEntry, error) {
	stored, err := s.GetByID(ctx, entry.Id, entry.UserId)
	if err != nil {
		return nil, err
	}

	if entry.Description != "" {
		stored.Description = strings.TrimSpace(entry.Description)
	}
	if !entry.EntryDate.IsZero() {
		stored.EntryDate = entry.EntryDate
	}
	stored.UpdatedAt = pkg.SetTimestamps()

	if err := s.Repository.Update(ctx, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Cancel retires an entry that was never allocated against. Entries with
// active allocations cannot be cancelled, only refunds can release them.
func (s *Service) Cancel(ctx context.Context, entryID, userID ulid.ULID) (*CostEntry, error) {
	stored, err := s.GetByID(ctx, entryID, userID)
	if err != nil {
		return nil, err
	}

	if stored.Status == StatusCancelled {
		return nil, appErrors.NewInvariantViolation("Cost entry is already cancelled")
	}
	if stored.AllocatedAmount > 0 {
		return nil, appErrors.NewInvariantViolation("Cost entry has active allocations and cannot be cancelled")
	}

	stored.Status = StatusCancelled
	stored.UpdatedAt = pkg.SetTimestamps()

	if err := s.Repository.Update(ctx, stored); err != nil {
		return nil, err
	}
	return stored, nil
}

func (s *Service) GetByID(ctx context.Context, entryID, userID ulid.ULID) (*CostEntry, error) {
	entry, err := s.Repository.GetByIDAndUser(ctx, entryID, userID)
	if err != nil {
		return nil, appErrors.ErrCostEntryNotFound
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context, userID ulid.ULID, filters *ListFilters, pagination *pkg.PaginationParams) ([]*CostEntry, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	return s.Repository.GetAll(ctx, userID, filters, pagination)
}
