package ledger

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type PartnerService interface {
	Exists(ctx context.Context, partnerID, userID ulid.ULID) error
	GetTotal(ctx context.Context, partnerID, userID ulid.ULID) (float64, error)
}
