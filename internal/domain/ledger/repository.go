package ledger

import (
	"context"
	"errors"
	"time"

	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

// Sentinel errors surfaced by repository implementations when a store-level
// uniqueness constraint decides a race. The service layer translates them
// into duplicate responses or invariant violations.
var (
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used")
	ErrUndoConflict            = errors.New("transaction already has an undo")
	ErrPartnerMissing          = errors.New("partner row missing for total adjustment")
)

type ListFilters struct {
	PartnerID *ulid.ULID
	Type      *Types
	From      *time.Time
	To        *time.Time
}

// Transfer asks the repository to move a transaction (and its adjustment
// rows) from one partner to another inside the same atomic unit that applies
// the amend.
type Transfer struct {
	From ulid.ULID
	To   ulid.ULID
}

type AmendParams struct {
	Original   *Transaction
	Adjustment *Transaction
	Transfer   *Transfer
}

type Repository interface {
	// CreateWithPartnerTotal appends the row and adjusts the owning
	// partner's total_contributed by the row's amount in one atomic unit.
	// Returns the partner's total after the adjustment.
	CreateWithPartnerTotal(ctx context.Context, transaction *Transaction) (float64, error)

	// CreateUndoWithPartnerTotal appends the undo row and decrements the
	// partner total in one atomic unit. Returns ErrUndoConflict when another
	// undo already references the same original.
	CreateUndoWithPartnerTotal(ctx context.Context, undo *Transaction) (float64, error)

	// AmendAtomic persists non-monetary edits to the original row, the
	// optional compensating adjustment row, and the optional partner
	// transfer as one atomic unit. Returns the owning partner's total after
	// the amend.
	AmendAtomic(ctx context.Context, params *AmendParams) (float64, error)

	// AdjustmentSum returns the sum of all adjustment rows referencing the
	// transaction. original amount + this sum is the effective amount.
	AdjustmentSum(ctx context.Context, transactionID ulid.ULID) (float64, error)

	GetByIDAndUser(ctx context.Context, transactionID, userID ulid.ULID) (*Transaction, error)
	GetByIdempotencyKey(ctx context.Context, userID ulid.ULID, key string) (*Transaction, error)
	HasUndo(ctx context.Context, transactionID ulid.ULID) (bool, error)
	GetAll(ctx context.Context, userID ulid.ULID, filters *ListFilters, pagination *pkg.PaginationParams) ([]*Transaction, int64, error)
	GetAllForExport(ctx context.Context, userID ulid.ULID, filters *ListFilters) ([]*Transaction, error)
	RecentByPartners(ctx context.Context, userID ulid.ULID, partnerIDs []ulid.ULID, limit int) (map[ulid.ULID][]*Transaction, error)
}
