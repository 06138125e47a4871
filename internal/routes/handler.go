package routes

import (
	"Hishab/config"
	"Hishab/internal/domain/allocation"
	"Hishab/internal/domain/costentry"
	"Hishab/internal/domain/ledger"
	"Hishab/internal/domain/partner"
	"Hishab/internal/domain/receipt"
	"Hishab/internal/domain/report"
	"Hishab/internal/domain/sale"
	"Hishab/internal/domain/session"
	"Hishab/internal/domain/user"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/logger"
	"Hishab/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type Handler struct {
	Config            *config.Config
	DB                *gorm.DB
	UserService       *user.Service
	SessionService    *session.Service
	PartnerService    *partner.Service
	LedgerService     *ledger.Service
	CostEntryService  *costentry.Service
	SaleService       *sale.Service
	AllocationService *allocation.Service
	ReportService     *report.Service
	ReceiptService    *receipt.Service
}

func (h *Handler) GetUserIDFromContext(c *gin.Context) (ulid.ULID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return ulid.ULID{}, appErrors.ErrUnauthorized
	}

	userID, err := pkg.ParseULID(userIDStr.(string))
	if err != nil {
		return ulid.ULID{}, appErrors.ErrUnauthorized.WithError(err)
	}

	return userID, nil
}

func (h *Handler) parsePagination(c *gin.Context) *pkg.PaginationParams {
	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	var pageNum, limitNum int
	if p, err := pkg.ParseInt(page); err == nil && p > 0 {
		pageNum = p
	} else {
		pageNum = 1
	}

	if l, err := pkg.ParseInt(limit); err == nil && l > 0 {
		limitNum = l
	} else {
		limitNum = 10
	}

	return &pkg.PaginationParams{
		Page:  pageNum,
		Limit: limitNum,
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	event := logger.Error().Str("code", appErr.Code).Str("path", c.FullPath())
	if appErr.Err != nil {
		event = event.Err(appErr.Err)
	}
	event.Msg("request_error")
	payload := gin.H{
		"error":   appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		payload["details"] = appErr.Details
	}
	c.JSON(appErr.StatusCode, payload)
}

func (h *Handler) respondBindError(c *gin.Context, err error) {
	h.respondError(c, appErrors.ParseValidationErrors(err))
}
