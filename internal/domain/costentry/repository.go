package costentry

import (
	"context"
	"time"

	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type ListFilters struct {
	Status *Status
	From   *time.Time
	To     *time.Time
	Search string
}

type Repository interface {
	Create(ctx context.Context, entry *CostEntry) error
	Update(ctx context.Context, entry *CostEntry) error
	GetByIDAndUser(ctx context.Context, entryID, userID ulid.ULID) (*CostEntry, error)
	GetAll(ctx context.Context, userID ulid.ULID, filters *ListFilters, pagination *pkg.PaginationParams) ([]*CostEntry, int64, error)
}
