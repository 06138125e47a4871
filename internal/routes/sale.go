package routes

import (
	"net/http"
	"time"

	"Hishab/internal/contracts"
	"Hishab/internal/domain/sale"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateSale(c *gin.Context) {
	var body contracts.SaleCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondBindError(c, err)
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entity := &sale.Sale{
		UserId:        userID,
		ProductName:   body.ProductName,
		Quantity:      body.Quantity,
		SaleTotal:     body.SaleTotal,
		PaymentMethod: sale.PaymentMethod(body.PaymentMethod),
		BankDetail:    body.BankDetail,
		Currency:      body.Currency,
	}
	if body.SaleDate != nil {
		entity.SaleDate = *body.SaleDate
	}

	if err := h.SaleService.Create(c.Request.Context(), entity); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.SaleResponse{
		Sale:         entity,
		Profit:       entity.SaleTotal,
		ProfitMargin: sale.ProfitMargin(entity.SaleTotal, entity.SaleTotal),
	})
}

func (h *Handler) GetSale(c *gin.Context) {
	saleID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "Invalid format"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	entity, err := h.SaleService.GetByID(ctx, saleID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	profit, margin, err := h.AllocationService.SaleProfit(ctx, entity)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.SaleResponse{
		Sale:         entity,
		Profit:       profit,
		ProfitMargin: margin,
	})
}

func (h *Handler) ListSales(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filters, err := h.parseSaleFilters(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pagination := h.parsePagination(c)

	ctx := c.Request.Context()
	sales, total, err := h.SaleService.List(ctx, userID, filters, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	profits, err := h.AllocationService.SaleProfits(ctx, sales)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]*contracts.SaleResponse, 0, len(sales))
	for _, entity := range sales {
		profit := profits[entity.Id]
		out = append(out, &contracts.SaleResponse{
			Sale:         entity,
			Profit:       profit,
			ProfitMargin: sale.ProfitMargin(profit, entity.SaleTotal),
		})
	}

	c.JSON(http.StatusOK, contracts.SaleListResponse{Sales: out, Total: total})
}

func (h *Handler) parseSaleFilters(c *gin.Context) (*sale.ListFilters, error) {
	filters := &sale.ListFilters{}

	if statusStr := c.Query("status"); statusStr != "" {
		parsed := sale.Status(statusStr)
		if !parsed.IsValid() {
			return nil, appErrors.NewValidationError("status", "Must be one of: completed pending cancelled refunded")
		}
		filters.Status = &parsed
	}

	if methodStr := c.Query("payment_method"); methodStr != "" {
		parsed := sale.PaymentMethod(methodStr)
		if !parsed.IsValid() {
			return nil, appErrors.NewValidationError("payment_method", "Must be one of: cash bank")
		}
		filters.PaymentMethod = &parsed
	}

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, appErrors.NewValidationError("from", "Must be a date in YYYY-MM-DD format")
		}
		filters.From = &parsed
	}

	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, appErrors.NewValidationError("to", "Must be a date in YYYY-MM-DD format")
		}
		filters.To = &parsed
	}

	filters.Search = c.Query("q")

	if sortStr := c.Query("sort"); sortStr != "" {
		parsed := sale.Sort(sortStr)
		if !parsed.IsValid() {
			return nil, appErrors.NewValidationError("sort", "Must be one of: date_desc date_asc amount_desc amount_asc")
		}
		filters.Sort = parsed
	}

	return filters, nil
}

func (h *Handler) RefundSale(c *gin.Context) {
	saleID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "Invalid format"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.AllocationService.RefundSale(c.Request.Context(), userID, saleID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.RefundResponse{
		Sale:           result.Sale,
		ReversedCount:  result.ReversedCount,
		ReleasedAmount: result.ReleasedAmount,
	})
}
