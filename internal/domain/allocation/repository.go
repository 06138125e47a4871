package allocation

import (
	"context"
	"errors"

	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrCapacityExceeded is returned together with the cost entry's current
	// remaining amount when an allocation would push allocated_amount past
	// total_cost. The conditional update in the store decides races.
	ErrCapacityExceeded = errors.New("allocation exceeds remaining capacity")

	ErrSaleAlreadyRefunded = errors.New("sale already refunded")
	ErrSaleNotCompleted    = errors.New("sale is not completed")
)

type RefundOutcome struct {
	ReversedCount  int
	ReleasedAmount float64
}

type Repository interface {
	// CreateWithCapacity inserts the allocation row and increments the cost
	// entry's allocated_amount in one atomic unit, guarded by the capacity
	// invariant. Returns the entry's remaining amount after the allocation.
	// On capacity failure it returns the current remaining amount alongside
	// ErrCapacityExceeded and writes nothing.
	CreateWithCapacity(ctx context.Context, alloc *Allocation) (float64, error)

	// RefundSaleAtomic reverses every active allocation on the sale,
	// releases each amount back to its cost entry, and flips the sale to
	// refunded, all in one atomic unit.
	RefundSaleAtomic(ctx context.Context, saleID, userID ulid.ULID) (*RefundOutcome, error)

	GetBySale(ctx context.Context, saleID, userID ulid.ULID) ([]*Allocation, error)
	GetAll(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Allocation, int64, error)
	ActiveSumBySale(ctx context.Context, saleID ulid.ULID) (float64, error)
	ActiveSumsBySales(ctx context.Context, saleIDs []ulid.ULID) (map[ulid.ULID]float64, error)
}
