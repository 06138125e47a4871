package routes

import (
	"net/http"
	"time"

	"Hishab/internal/contracts"
	"Hishab/internal/domain/costentry"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateCostEntry(c *gin.Context) {
	var body contracts.CostEntryCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondBindError(c, err)
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entry := &costentry.CostEntry{
		UserId:      userID,
		Description: body.Description,
		TotalCost:   body.TotalCost,
		Currency:    body.Currency,
	}
	if body.EntryDate != nil {
		entry.EntryDate = *body.EntryDate
	}

	if err := h.CostEntryService.Create(c.Request.Context(), entry); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.CostEntryResponse{
		CostEntry:       entry,
		RemainingAmount: entry.Remaining(),
	})
}

func (h *Handler) UpdateCostEntry(c *gin.Context) {
	entryID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "Invalid format"))
		return
	}

	var body contracts.CostEntryUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondBindError(c, err)
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entry := &costentry.CostEntry{
		Id:          entryID,
		UserId:      userID,
		Description: body.Description,
	}
	if body.EntryDate != nil {
		entry.EntryDate = *body.EntryDate
	}

	updated, err := h.CostEntryService.Update(c.Request.Context(), entry)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.CostEntryResponse{
		CostEntry:       updated,
		RemainingAmount: updated.Remaining(),
	})
}

func (h *Handler) CancelCostEntry(c *gin.Context) {
	entryID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "Invalid format"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	cancelled, err := h.CostEntryService.Cancel(c.Request.Context(), entryID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.CostEntryResponse{
		CostEntry:       cancelled,
		RemainingAmount: cancelled.Remaining(),
	})
}

func (h *Handler) GetCostEntry(c *gin.Context) {
	entryID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "Invalid format"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entry, err := h.CostEntryService.GetByID(c.Request.Context(), entryID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.CostEntryResponse{
		CostEntry:       entry,
		RemainingAmount: entry.Remaining(),
	})
}

func (h *Handler) ListCostEntries(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filters, err := h.parseCostEntryFilters(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pagination := h.parsePagination(c)

	entries, total, err := h.CostEntryService.List(c.Request.Context(), userID, filters, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := pkg.NewPaginatedResponse(entries, pagination.Page, pagination.Limit, total)
	c.JSON(http.StatusOK, response)
}

func (h *Handler) parseCostEntryFilters(c *gin.Context) (*costentry.ListFilters, error) {
	filters := &costentry.ListFilters{}

	if statusStr := c.Query("status"); statusStr != "" {
		parsed := costentry.Status(statusStr)
		if !parsed.IsValid() {
			return nil, appErrors.NewValidationError("status", "Must be one of: active fully_allocated cancelled")
		}
		filters.Status = &parsed
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

	return filters, nil
}
