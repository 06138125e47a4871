package receipt

import (
	"context"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, receipt *Receipt) error
	GetByIDAndUser(ctx context.Context, receiptID, userID ulid.ULID) (*Receipt, error)
}
