package sale

import (
	"math"
	"time"

	"github.com/oklog/ulid/v2"
)

type Sale struct {
	Id            ulid.ULID     `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId        ulid.ULID     `gorm:"type:varchar(26);index:idx_sales_user_id;not null" json:"userId"`
	ProductName   string        `gorm:"type:varchar(255);not null" json:"productName"`
	Quantity      int           `gorm:"not null;default:1" json:"quantity"`
	SaleTotal     float64       `gorm:"type:decimal(15,2);not null" json:"saleTotal"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(10);not null" json:"paymentMethod"`
	BankDetail    string        `gorm:"type:varchar(255)" json:"bankDetail,omitempty"`
	Currency      string        `gorm:"type:varchar(3);not null;default:'BDT'" json:"currency"`
	SaleDate      time.Time     `gorm:"type:date;not null" json:"saleDate"`
	Status        Status        `gorm:"type:varchar(20);not null;default:'completed';index:idx_sales_status" json:"status"`
	CreatedAt     time.Time     `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (Sale) TableName() string {
	return "sales"
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentBank PaymentMethod = "bank"
)

func (p PaymentMethod) IsValid() bool {
	return p == PaymentCash || p == PaymentBank
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusRefunded  Status = "refunded"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// ProfitMargin is profit over sale total as a percentage, rounded to two
// decimals. Defined as 0 for a zero-total sale.
func ProfitMargin(profit, saleTotal float64) float64 {
	if saleTotal == 0 {
		return 0
	}
	return math.Round(profit/saleTotal*100*100) / 100
}
