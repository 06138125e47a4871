package costentry

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// CostEntry's AllocatedAmount is a running sum of active allocations against
// it, maintained atomically by the allocation engine. The capacity invariant
// 0 <= AllocatedAmount <= TotalCost holds at all times.
type CostEntry struct {
	Id              ulid.ULID `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId          ulid.ULID `gorm:"type:varchar(26);index:idx_cost_entries_user_id;not null" json:"userId"`
	Description     string    `gorm:"type:varchar(255);not null" json:"description"`
	TotalCost       float64   `gorm:"type:decimal(15,2);not null" json:"totalCost"`
	AllocatedAmount float64   `gorm:"type:decimal(15,2);not null;default:0" json:"allocatedAmount"`
	Currency        string    `gorm:"type:varchar(3);not null;default:'BDT'" json:"currency"`
	EntryDate       time.Time `gorm:"type:date;not null" json:"entryDate"`
	Status          Status    `gorm:"type:varchar(20);not null;default:'active';index:idx_cost_entries_status" json:"status"`
	CreatedAt       time.Time `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (CostEntry) TableName() string {
	return "cost_entries"
}

func (c *CostEntry) Remaining() float64 {
	return c.TotalCost - c.AllocatedAmount
}

type Status string

const (
	StatusActive         Status = "active"
	StatusFullyAllocated Status = "fully_allocated"
	StatusCancelled      Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusFullyAllocated, StatusCancelled:
		return true
	}
	return false
}
