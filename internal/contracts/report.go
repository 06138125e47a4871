package contracts

import "time"

type SalesSummaryResponse struct {
	From               *time.Time         `json:"from,omitempty"`
	To                 *time.Time         `json:"to,omitempty"`
	SalesCount         int64              `json:"sales_count"`
	RefundedCount      int64              `json:"refunded_count"`
	TotalSales         float64            `json:"total_sales"`
	TotalAllocatedCost float64            `json:"total_allocated_cost"`
	RevenueByMethod    map[string]float64 `json:"revenue_by_method"`
	GrossProfit        float64            `json:"gross_profit"`
	AverageMargin      float64            `json:"average_margin"`
}

type ContributionSummaryResponse struct {
	From             *time.Time `json:"from,omitempty"`
	To               *time.Time `json:"to,omitempty"`
	PartnerCount     int64      `json:"partner_count"`
	TransactionCount int64      `json:"transaction_count"`
	TotalContributed float64    `json:"total_contributed"`
}
