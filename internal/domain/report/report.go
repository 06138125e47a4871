package report

import "time"

type SalesSummary struct {
	From               *time.Time
	To                 *time.Time
	SalesCount         int64
	RefundedCount      int64
	TotalSales         float64
	TotalAllocatedCost float64
	RevenueByMethod    map[string]float64
}

type ContributionSummary struct {
	From             *time.Time
	To               *time.Time
	PartnerCount     int64
	TransactionCount int64
	TotalContributed float64
}
