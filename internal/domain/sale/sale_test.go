package sale_test

import (
	"context"
	"testing"

	"Hishab/internal/domain/sale"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaleRepository struct {
	createFn func(ctx context.Context, s *sale.Sale) error
}

func (f *fakeSaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}
func (f *fakeSaleRepository) Update(ctx context.Context, s *sale.Sale) error { return nil }
func (f *fakeSaleRepository) GetByIDAndUser(ctx context.Context, saleID, userID ulid.ULID) (*sale.Sale, error) {
	return nil, appErrors.ErrSaleNotFound
}
func (f *fakeSaleRepository) GetAll(ctx context.Context, userID ulid.ULID, filters *sale.ListFilters, pagination *pkg.PaginationParams) ([]*sale.Sale, int64, error) {
	return nil, 0, nil
}

func TestProfitMargin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 60.0, sale.ProfitMargin(600, 1000))
	assert.Equal(t, 33.33, sale.ProfitMargin(100, 300))
	assert.Equal(t, -25.0, sale.ProfitMargin(-50, 200))
	assert.Equal(t, 0.0, sale.ProfitMargin(100, 0))
}

func TestCreateSale(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := ulid.Make()

	t.Run("defaults applied", func(t *testing.T) {
		svc := sale.NewService(&fakeSaleRepository{})
		entity := &sale.Sale{
			UserId:        userID,
			ProductName:   "  Jute bag  ",
			SaleTotal:     1200,
			PaymentMethod: sale.PaymentCash,
		}

		require.NoError(t, svc.Create(ctx, entity))
		assert.Equal(t, "Jute bag", entity.ProductName)
		assert.Equal(t, 1, entity.Quantity)
		assert.Equal(t, sale.StatusCompleted, entity.Status)
		assert.Equal(t, "BDT", entity.Currency)
		assert.False(t, entity.SaleDate.IsZero())
	})

	t.Run("bank payment requires detail", func(t *testing.T) {
		svc := sale.NewService(&fakeSaleRepository{})
		err := svc.Create(ctx, &sale.Sale{
			UserId:        userID,
			ProductName:   "Jute bag",
			SaleTotal:     1200,
			PaymentMethod: sale.PaymentBank,
		})
		require.Error(t, err)
		appErr, ok := appErrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})

	t.Run("rejects zero total", func(t *testing.T) {
		svc := sale.NewService(&fakeSaleRepository{})
		err := svc.Create(ctx, &sale.Sale{
			UserId:        userID,
			ProductName:   "Jute bag",
			SaleTotal:     0,
			PaymentMethod: sale.PaymentCash,
		})
		require.Error(t, err)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		svc := sale.NewService(&fakeSaleRepository{})
		err := svc.Create(ctx, &sale.Sale{
			UserId:        userID,
			ProductName:   "Jute bag",
			SaleTotal:     100,
			PaymentMethod: sale.PaymentMethod("crypto"),
		})
		require.Error(t, err)
	})
}
