package contracts

import (
	"time"

	domainSale "Hishab/internal/domain/sale"
)

type SaleCreateRequest struct {
	ProductName   string     `json:"product_name" binding:"required,min=2,max=255"`
	Quantity      int        `json:"quantity" binding:"required,gt=0"`
	SaleTotal     float64    `json:"sale_total" binding:"required,gt=0"`
	PaymentMethod string     `json:"payment_method" binding:"required,oneof=cash bank"`
	BankDetail    string     `json:"bank_detail" binding:"omitempty,max=255"`
	Currency      string     `json:"currency" binding:"omitempty,len=3"`
	SaleDate      *time.Time `json:"sale_date"`
}

type SaleResponse struct {
	Sale         *domainSale.Sale `json:"sale"`
	Profit       float64          `json:"profit"`
	ProfitMargin float64          `json:"profit_margin"`
}

type SaleListResponse struct {
	Sales []*SaleResponse `json:"sales"`
	Total int64           `json:"total"`
}

type RefundResponse struct {
	Sale              *domainSale.Sale `json:"sale"`
	ReversedCount     int              `json:"reversed_count"`
	ReleasedAmount    float64          `json:"released_amount"`
}
