package routes

import (
	"net/http"
	"time"

	"Hishab/internal/contracts"
	"Hishab/internal/domain/ledger"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateContribution(c *gin.Context) {
	var body contracts.ContributionCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondBindError(c, err)
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	partnerID, err := pkg.ParseULID(body.PartnerID)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("partner_id", "Invalid format"))
		return
	}

	receiptID, err := pkg.ParseULIDPtr(&body.ReceiptID)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("receipt_id", "Invalid format"))
		return
	}

	var idempotencyKey *string
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		idempotencyKey = &key
	}

	ctx := c.Request.Context()
	result, err := h.LedgerService.CreateContribution(ctx, userID, &ledger.ContributionInput{
		PartnerID:       partnerID,
		Amount:          body.Amount,
		Category:        body.Category,
		Context:         body.Context,
		Currency:        body.Currency,
		TransactionDate: body.TransactionDate,
		ReceiptID:       receiptID,
		IdempotencyKey:  idempotencyKey,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		// Reused idempotency key: no effect was applied, the original row is
		// returned with a conflict status as the duplicate marker.
		status = http.StatusConflict
	}

	c.JSON(status, contracts.TransactionResponse{
		Transaction:  result.Transaction,
		PartnerTotal: result.PartnerTotal,
		Duplicate:    result.Duplicate,
	})
}

func (h *Handler) ListTransactions(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filters, err := h.parseTransactionFilters(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pagination := h.parsePagination(c)

	transactions, total, err := h.LedgerService.List(c.Request.Context(), userID, filters, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := pkg.NewPaginatedResponse(transactions, pagination.Page, pagination.Limit, total)
	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetTransaction(c *gin.Context) {
	transactionID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "Invalid format"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entity, err := h.LedgerService.GetByID(c.Request.Context(), transactionID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": entity})
}

func (h *Handler) AmendTransaction(c *gin.Context) {
	transactionID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "Invalid format"))
		return
	}

	var body contracts.TransactionAmendRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondBindError(c, err)
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	input := &ledger.AmendInput{
		Amount:          body.Amount,
		Category:        body.Category,
		Context:         body.Context,
		TransactionDate: body.TransactionDate,
	}

	if body.PartnerID != nil {
		partnerID, err := pkg.ParseULID(*body.PartnerID)
		if err != nil {
			h.respondError(c, appErrors.NewValidationError("partner_id", "Invalid format"))
			return
		}
		input.PartnerID = &partnerID
	}

	if body.ReceiptID != nil {
		receiptID, err := pkg.ParseULID(*body.ReceiptID)
		if err != nil {
			h.respondError(c, appErrors.NewValidationError("receipt_id", "Invalid format"))
			return
		}
		input.ReceiptID = &receiptID
	}

	result, err := h.LedgerService.AmendTransaction(c.Request.Context(), userID, transactionID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.AmendResponse{
		Transaction:  result.Transaction,
		Adjustment:   result.Adjustment,
		PartnerTotal: result.PartnerTotal,
	})
}

func (h *Handler) UndoTransaction(c *gin.Context) {
	transactionID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "Invalid format"))
		return
	}

	var body contracts.UndoTransactionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.respondBindError(c, err)
			return
		}
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.LedgerService.UndoTransaction(c.Request.Context(), userID, transactionID, body.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.TransactionResponse{
		Transaction:  result.Transaction,
		PartnerTotal: result.PartnerTotal,
	})
}

func (h *Handler) SyncQueue(c *gin.Context) {
	var body contracts.SyncQueueRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondBindError(c, err)
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]ledger.SyncItem, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, ledger.SyncItem{
			LocalID:        item.LocalID,
			Action:         item.Action,
			IdempotencyKey: item.IdempotencyKey,
			Payload:        item.Payload,
		})
	}

	results := h.LedgerService.SyncQueue(c.Request.Context(), userID, items)

	response := contracts.SyncQueueResponse{Results: make([]*contracts.SyncItemResult, 0, len(results))}
	for _, result := range results {
		out := &contracts.SyncItemResult{
			LocalID: result.LocalID,
			Status:  result.Status,
			Message: result.Message,
		}
		if result.Result != nil {
			out.Transaction = &contracts.TransactionResponse{
				Transaction:  result.Result.Transaction,
				PartnerTotal: result.Result.PartnerTotal,
				Duplicate:    result.Result.Duplicate,
			}
		}
		switch result.Status {
		case ledger.SyncStatusOK:
			response.Succeeded++
		case ledger.SyncStatusDuplicate:
			response.Duplicate++
		default:
			response.Failed++
		}
		response.Results = append(response.Results, out)
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) parseTransactionFilters(c *gin.Context) (*ledger.ListFilters, error) {
	filters := &ledger.ListFilters{}

	if partnerIDStr := c.Query("partner_id"); partnerIDStr != "" {
		parsed, err := pkg.ParseULID(partnerIDStr)
		if err != nil {
			return nil, appErrors.NewValidationError("partner_id", "Invalid format")
		}
		filters.PartnerID = &parsed
	}

	if typeStr := c.Query("type"); typeStr != "" {
		parsed := ledger.Types(typeStr)
		if !parsed.IsValid() {
			return nil, appErrors.NewValidationError("type", "Must be one of: contribution adjustment undo expense")
		}
		filters.Type = &parsed
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

	return filters, nil
}
