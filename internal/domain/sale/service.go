package sale

import (
	"context"
	"strings"

	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Service struct {
	Repository Repository
}

func NewService(repo Repository) *Service {
	return &Service{Repository: repo}
}

func (s *Service) Create(ctx context.Context, sale *Sale) error {
	sale.ProductName = strings.TrimSpace(sale.ProductName)
	if sale.ProductName == "" {
		return appErrors.NewValidationError("product_name", "Product name is required")
	}
	if sale.SaleTotal <= 0 {
		return appErrors.NewValidationError("sale_total", "Sale total must be greater than 0")
	}
	if !sale.PaymentMethod.IsValid() {
		return appErrors.NewValidationError("payment_method", "Payment method must be one of: cash bank")
	}
	if sale.PaymentMethod == PaymentBank && strings.TrimSpace(sale.BankDetail) == "" {
		return appErrors.NewValidationError("bank_detail", "Bank detail is required for bank payments")
	}
	if sale.Quantity < 1 {
		sale.Quantity = 1
	}

	sale.Id = pkg.GenerateULIDObject()
	sale.Status = StatusCompleted
	if sale.Currency == "" {
		sale.Currency = "BDT"
	}
	now := pkg.SetTimestamps()
	if sale.SaleDate.IsZero() {
		sale.SaleDate = now
	}
	sale.CreatedAt = now
	sale.UpdatedAt = now

	return s.Repository.Create(ctx, sale)
}

func (s *Service) GetByID(ctx context.Context, saleID, userID ulid.ULID) (*Sale, error) {
	sale, err := s.Repository.GetByIDAndUser(ctx, saleID, userID)
	if err != nil {
		return nil, appErrors.ErrSaleNotFound
	}
	return sale, nil
}

func (s *Service) List(ctx context.Context, userID ulid.ULID, filters *ListFilters, pagination *pkg.PaginationParams) ([]*Sale, int64, error) {
	pagination = pkg.NormalizePagination(pagination)
	return s.Repository.GetAll(ctx, userID, filters, pagination)
}
