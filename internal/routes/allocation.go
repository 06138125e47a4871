package routes

import (
	"net/http"

	"Hishab/internal/contracts"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateAllocation(c *gin.Context) {
	var body contracts.AllocationCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondBindError(c, err)
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	saleID, err := pkg.ParseULID(body.SaleID)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("sale_id", "Invalid format"))
		return
	}

	costEntryID, err := pkg.ParseULID(body.CostEntryID)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("cost_entry_id", "Invalid format"))
		return
	}

	result, err := h.AllocationService.CreateAllocation(c.Request.Context(), userID, saleID, costEntryID, body.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.AllocationResponse{
		Allocation:         result.Allocation,
		CostEntryRemaining: result.CostEntryRemaining,
		SaleProfit:         result.SaleProfit,
	})
}

func (h *Handler) ListAllocationsBySale(c *gin.Context) {
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

	allocations, err := h.AllocationService.ListBySale(c.Request.Context(), saleID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.AllocationListResponse{
		Allocations: allocations,
		Total:       int64(len(allocations)),
	})
}

func (h *Handler) ListAllocations(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pagination := h.parsePagination(c)

	allocations, total, err := h.AllocationService.List(c.Request.Context(), userID, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := pkg.NewPaginatedResponse(allocations, pagination.Page, pagination.Limit, total)
	c.JSON(http.StatusOK, response)
}
