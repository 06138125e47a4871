package partner

import (
	"context"

	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type ListFilters struct {
	Search string
	SortBy string
	Order  string
}

type Repository interface {
	Create(ctx context.Context, partner *Partner) error
	Update(ctx context.Context, partner *Partner) error
	GetByID(ctx context.Context, partnerID ulid.ULID) (*Partner, error)
	GetByIDAndUser(ctx context.Context, partnerID, userID ulid.ULID) (*Partner, error)
	GetAll(ctx context.Context, userID ulid.ULID, filters *ListFilters, pagination *pkg.PaginationParams) ([]*Partner, int64, error)
	GetLeaderboard(ctx context.Context, userID ulid.ULID, limit int) ([]*Partner, float64, error)
}
