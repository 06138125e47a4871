package sale

import (
	"context"
	"time"

	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type ListFilters struct {
	Status        *Status
	PaymentMethod *PaymentMethod
	From          *time.Time
	To            *time.Time
	Search        string
	Sort          Sort
}

type Sort string

const (
	SortDateDesc   Sort = "date_desc"
	SortDateAsc    Sort = "date_asc"
	SortAmountDesc Sort = "amount_desc"
	SortAmountAsc  Sort = "amount_asc"
)

func (s Sort) IsValid() bool {
	switch s {
	case SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc:
		return true
	}
	return false
}

type Repository interface {
	Create(ctx context.Context, sale *Sale) error
	Update(ctx context.Context, sale *Sale) error
	GetByIDAndUser(ctx context.Context, saleID, userID ulid.ULID) (*Sale, error)
	GetAll(ctx context.Context, userID ulid.ULID, filters *ListFilters, pagination *pkg.PaginationParams) ([]*Sale, int64, error)
}
