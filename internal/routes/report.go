package routes

import (
	"net/http"
	"time"

	"Hishab/internal/contracts"
	appErrors "Hishab/internal/errors"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetSalesSummary(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.ReportService.SalesSummary(c.Request.Context(), userID, from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.SalesSummaryResponse{
		From:               result.Summary.From,
		To:                 result.Summary.To,
		SalesCount:         result.Summary.SalesCount,
		RefundedCount:      result.Summary.RefundedCount,
		TotalSales:         result.Summary.TotalSales,
		TotalAllocatedCost: result.Summary.TotalAllocatedCost,
		RevenueByMethod:    result.Summary.RevenueByMethod,
		GrossProfit:        result.GrossProfit,
		AverageMargin:      result.AverageMargin,
	})
}

func (h *Handler) GetContributionSummary(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	summary, err := h.ReportService.ContributionSummary(c.Request.Context(), userID, from, to)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.ContributionSummaryResponse{
		From:             summary.From,
		To:               summary.To,
		PartnerCount:     summary.PartnerCount,
		TransactionCount: summary.TransactionCount,
		TotalContributed: summary.TotalContributed,
	})
}

func parseDateRange(c *gin.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, nil, appErrors.NewValidationError("from", "Must be a date in YYYY-MM-DD format")
		}
		from = &parsed
	}

	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, nil, appErrors.NewValidationError("to", "Must be a date in YYYY-MM-DD format")
		}
		to = &parsed
	}

	return from, to, nil
}
