package routes

import (
	"net/http"

	"Hishab/internal/contracts"
	"Hishab/internal/domain/receipt"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

func (h *Handler) UploadReceipt(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("file", "File is required"))
		return
	}

	if fileHeader.Size > receipt.MaxFileSize {
		h.respondError(c, appErrors.NewValidationError("file", "File exceeds the 8MB limit"))
		return
	}

	var transactionID *ulid.ULID
	if tidStr := c.PostForm("transaction_id"); tidStr != "" {
		parsed, err := pkg.ParseULID(tidStr)
		if err != nil {
			h.respondError(c, appErrors.NewValidationError("transaction_id", "Invalid format"))
			return
		}
		transactionID = &parsed
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, appErrors.ErrInternalServer.WithError(err))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	entity, err := h.ReceiptService.Upload(c.Request.Context(), userID,
		fileHeader.Filename, contentType, fileHeader.Size, file, transactionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, receiptResponse(entity))
}

func (h *Handler) GetReceipt(c *gin.Context) {
	receiptID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "Invalid format"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entity, err := h.ReceiptService.GetByID(c.Request.Context(), receiptID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, receiptResponse(entity))
}

func receiptResponse(entity *receipt.Receipt) contracts.ReceiptResponse {
	resp := contracts.ReceiptResponse{
		ID:          entity.Id.String(),
		URL:         entity.URL,
		FileName:    entity.FileName,
		ContentType: entity.ContentType,
		Size:        entity.Size,
		UploadedAt:  entity.CreatedAt,
	}
	if entity.TransactionId != nil {
		resp.TransactionID = entity.TransactionId.String()
	}
	return resp
}
