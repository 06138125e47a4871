package contracts

import (
	"time"

	domainLedger "Hishab/internal/domain/ledger"
)

type ContributionCreateRequest struct {
	PartnerID       string     `json:"partner_id" binding:"required,len=26"`
	Amount          float64    `json:"amount" binding:"required,gt=0"`
	Category        string     `json:"category" binding:"omitempty,max=50"`
	Context         string     `json:"context" binding:"omitempty,max=500"`
	Currency        string     `json:"currency" binding:"omitempty,len=3"`
	TransactionDate *time.Time `json:"transaction_date"`
	ReceiptID       string     `json:"receipt_id" binding:"omitempty,len=26"`
}

type TransactionAmendRequest struct {
	Amount          *float64   `json:"amount" binding:"omitempty,gt=0"`
	PartnerID       *string    `json:"partner_id" binding:"omitempty,len=26"`
	Category        *string    `json:"category" binding:"omitempty,max=50"`
	Context         *string    `json:"context" binding:"omitempty,max=500"`
	TransactionDate *time.Time `json:"transaction_date"`
	ReceiptID       *string    `json:"receipt_id" binding:"omitempty,len=26"`
}

type UndoTransactionRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type TransactionResponse struct {
	Transaction  *domainLedger.Transaction `json:"transaction"`
	PartnerTotal float64                   `json:"partner_total"`
	Duplicate    bool                      `json:"duplicate,omitempty"`
}

type AmendResponse struct {
	Transaction  *domainLedger.Transaction `json:"transaction"`
	Adjustment   *domainLedger.Transaction `json:"adjustment,omitempty"`
	PartnerTotal float64                   `json:"partner_total"`
}

type TransactionListResponse struct {
	Transactions []*domainLedger.Transaction `json:"transactions"`
	Total        int64                       `json:"total"`
}
