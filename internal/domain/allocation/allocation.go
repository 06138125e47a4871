package allocation

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Allocation ties part of a cost entry's cost to a sale. The amount is
// fixed at creation; a refund reverses the row (IsReversed) instead of
// deleting it and releases the amount back to the cost entry.
type Allocation struct {
	Id              ulid.ULID  `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId          ulid.ULID  `gorm:"type:varchar(26);index:idx_allocations_user_id;not null" json:"userId"`
	SaleId          ulid.ULID  `gorm:"type:varchar(26);index:idx_allocations_sale_id;not null" json:"saleId"`
	CostEntryId     ulid.ULID  `gorm:"type:varchar(26);index:idx_allocations_cost_entry_id;not null" json:"costEntryId"`
	AllocatedAmount float64    `gorm:"type:decimal(15,2);not null" json:"allocatedAmount"`
	IsReversed      bool       `gorm:"not null;default:false" json:"isReversed"`
	ReversedAt      *time.Time `gorm:"type:timestamp" json:"reversedAt,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (Allocation) TableName() string {
	return "allocations"
}
