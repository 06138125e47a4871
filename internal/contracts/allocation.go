package contracts

import (
	domainAllocation "Hishab/internal/domain/allocation"
)

type AllocationCreateRequest struct {
	SaleID      string  `json:"sale_id" binding:"required,len=26"`
	CostEntryID string  `json:"cost_entry_id" binding:"required,len=26"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
}

type AllocationResponse struct {
	Allocation         *domainAllocation.Allocation `json:"allocation"`
	CostEntryRemaining float64                      `json:"cost_entry_remaining"`
	SaleProfit         float64                      `json:"sale_profit"`
}

type AllocationListResponse struct {
	Allocations []*domainAllocation.Allocation `json:"allocations"`
	Total       int64                          `json:"total"`
}
