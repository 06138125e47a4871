package ledger

import (
	"time"

	"github.com/oklog/ulid/v2"
)

const DefaultCurrency = "BDT"

// Transaction is an immutable ledger row. Its monetary fact (Amount,
// PartnerId at settlement) is never rewritten after commit; corrections
// are expressed as compensating adjustment and undo rows referencing the
// original through RelatedTo.
type Transaction struct {
	Id              ulid.ULID  `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId          ulid.ULID  `gorm:"type:varchar(26);index:idx_transactions_user_id;index:idx_transactions_user_date,priority:1;uniqueIndex:idx_transactions_idempotency_key,priority:1;not null" json:"userId"`
	PartnerId       ulid.ULID  `gorm:"type:varchar(26);index:idx_transactions_partner_id;not null" json:"partnerId"`
	Amount          float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type            Types      `gorm:"type:varchar(15);not null;index:idx_transactions_type" json:"type"`
	Category        string     `gorm:"type:varchar(50)" json:"category,omitempty"`
	Context         string     `gorm:"type:varchar(500)" json:"context,omitempty"`
	Currency        string     `gorm:"type:varchar(3);not null;default:'BDT'" json:"currency"`
	TransactionDate time.Time  `gorm:"type:date;not null;index:idx_transactions_user_date,priority:2" json:"transactionDate"`
	ReceiptId       *ulid.ULID `gorm:"type:varchar(26)" json:"receiptId,omitempty"`
	IdempotencyKey  *string    `gorm:"type:varchar(100);uniqueIndex:idx_transactions_idempotency_key,priority:2" json:"idempotencyKey,omitempty"`
	RelatedTo       *ulid.ULID `gorm:"type:varchar(26);index:idx_transactions_related_to" json:"relatedTo,omitempty"`
	IsReversing     bool       `gorm:"not null;default:false" json:"isReversing,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "transactions"
}

type Types string

const (
	TypeContribution Types = "contribution"
	TypeAdjustment   Types = "adjustment"
	TypeUndo         Types = "undo"
	TypeExpense      Types = "expense"
)

func (t Types) IsValid() bool {
	switch t {
	case TypeContribution, TypeAdjustment, TypeUndo, TypeExpense:
		return true
	}
	return false
}
