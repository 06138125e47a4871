package contracts

import (
	"time"

	domainPartner "Hishab/internal/domain/partner"
	domainLedger "Hishab/internal/domain/ledger"
)

type PartnerCreateRequest struct {
	Name               string  `json:"name" binding:"required,min=2,max=100"`
	Email              string  `json:"email" binding:"omitempty,email"`
	Phone              string  `json:"phone" binding:"omitempty,max=30"`
	Notes              string  `json:"notes" binding:"omitempty,max=500"`
	AvatarID           string  `json:"avatar_id" binding:"omitempty,len=26"`
	InitialContributed float64 `json:"initial_contributed" binding:"omitempty,gte=0"`
}

type PartnerUpdateRequest struct {
	Name     string `json:"name" binding:"omitempty,min=2,max=100"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Notes    string `json:"notes" binding:"omitempty,max=500"`
	AvatarID string `json:"avatar_id" binding:"omitempty,len=26"`
}

type PartnerResponse struct {
	Partner *domainPartner.Partner `json:"partner"`
}

type PartnerSummary struct {
	Partner            *domainPartner.Partner       `json:"partner"`
	LastContributionAt *time.Time                   `json:"last_contribution_at,omitempty"`
	RecentTransactions []*domainLedger.Transaction  `json:"recent_transactions,omitempty"`
}

type PartnerListResponse struct {
	Partners []*PartnerSummary `json:"partners"`
	Total    int64             `json:"total"`
}

type LeaderboardEntry struct {
	Rank             int     `json:"rank"`
	PartnerID        string  `json:"partner_id"`
	Name             string  `json:"name"`
	TotalContributed float64 `json:"total_contributed"`
	Share            float64 `json:"share"`
}

type LeaderboardResponse struct {
	Entries []*LeaderboardEntry `json:"entries"`
	Total   float64             `json:"total"`
}
