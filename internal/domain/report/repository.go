package report

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	SalesSummary(ctx context.Context, userID ulid.ULID, from, to *time.Time) (*SalesSummary, error)
	ContributionSummary(ctx context.Context, userID ulid.ULID, from, to *time.Time) (*ContributionSummary, error)
}
