package contracts

import (
	"time"

	domainCost "Hishab/internal/domain/costentry"
)

type CostEntryCreateRequest struct {
	Description string     `json:"description" binding:"required,min=2,max=255"`
	TotalCost   float64    `json:"total_cost" binding:"required,gt=0"`
	Currency    string     `json:"currency" binding:"omitempty,len=3"`
	EntryDate   *time.Time `json:"entry_date"`
}

type CostEntryUpdateRequest struct {
	Description string     `json:"description" binding:"omitempty,min=2,max=255"`
	EntryDate   *time.Time `json:"entry_date"`
}

type CostEntryResponse struct {
	CostEntry       *domainCost.CostEntry `json:"cost_entry"`
	RemainingAmount float64               `json:"remaining_amount"`
}

type CostEntryListResponse struct {
	CostEntries []*domainCost.CostEntry `json:"cost_entries"`
	Total       int64                   `json:"total"`
}
