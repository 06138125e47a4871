package routes

import (
	"net/http"

	"Hishab/internal/contracts"
	"Hishab/internal/domain/ledger"
	"Hishab/internal/domain/partner"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

func (h *Handler) CreatePartner(c *gin.Context) {
	var body contracts.PartnerCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondBindError(c, err)
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()

	avatarID, err := pkg.ParseULIDPtr(&body.AvatarID)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("avatar_id", "Invalid format"))
		return
	}

	entity := &partner.Partner{
		UserId:   userID,
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Notes:    body.Notes,
		AvatarId: avatarID,
	}

	if err := h.PartnerService.Create(ctx, entity); err != nil {
		h.respondError(c, err)
		return
	}

	// An opening balance is a regular ledger contribution, keyed so a retried
	// partner create cannot double-book it.
	if body.InitialContributed > 0 {
		key := "partner-initial-" + entity.Id.String()
		result, err := h.LedgerService.CreateContribution(ctx, userID, &ledger.ContributionInput{
			PartnerID:      entity.Id,
			Amount:         body.InitialContributed,
			Category:       "initial",
			Context:        "Initial contribution",
			IdempotencyKey: &key,
		})
		if err != nil {
			h.respondError(c, err)
			return
		}
		entity.TotalContributed = result.PartnerTotal
	}

	c.JSON(http.StatusCreated, contracts.PartnerResponse{Partner: entity})
}

func (h *Handler) UpdatePartner(c *gin.Context) {
	partnerID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "Invalid format"))
		return
	}

	var body contracts.PartnerUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondBindError(c, err)
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()

	avatarID, err := pkg.ParseULIDPtr(&body.AvatarID)
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("avatar_id", "Invalid format"))
		return
	}

	entity := &partner.Partner{
		Id:       partnerID,
		UserId:   userID,
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Notes:    body.Notes,
		AvatarId: avatarID,
	}

	if err := h.PartnerService.Update(ctx, entity); err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.PartnerService.GetByID(ctx, partnerID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.PartnerResponse{Partner: updated})
}

func (h *Handler) ListPartners(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filters := &partner.ListFilters{
		Search: c.Query("search"),
		SortBy: c.Query("sort_by"),
		Order:  c.Query("order"),
	}
	pagination := h.parsePagination(c)

	ctx := c.Request.Context()
	partners, total, err := h.PartnerService.List(ctx, userID, filters, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	summaries := make([]*contracts.PartnerSummary, 0, len(partners))
	for _, entity := range partners {
		summaries = append(summaries, &contracts.PartnerSummary{Partner: entity})
	}

	if c.Query("include_transactions") == "true" && len(partners) > 0 {
		ids := make([]ulid.ULID, 0, len(partners))
		for _, entity := range partners {
			ids = append(ids, entity.Id)
		}

		recent, err := h.LedgerService.RecentByPartners(ctx, userID, ids, 5)
		if err != nil {
			h.respondError(c, err)
			return
		}

		for _, summary := range summaries {
			transactions := recent[summary.Partner.Id]
			summary.RecentTransactions = transactions
			for _, entity := range transactions {
				if entity.Type == ledger.TypeContribution {
					last := entity.TransactionDate
					summary.LastContributionAt = &last
					break
				}
			}
		}
	}

	c.JSON(http.StatusOK, contracts.PartnerListResponse{Partners: summaries, Total: total})
}

func (h *Handler) GetPartner(c *gin.Context) {
	partnerID, err := pkg.ParseULID(c.Param("id"))
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
	entity, err := h.PartnerService.GetByID(ctx, partnerID, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.PartnerResponse{Partner: entity})
}

func (h *Handler) GetLeaderboard(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	limit := 10
	if l, err := pkg.ParseInt(c.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limit = l
	}

	partners, grandTotal, err := h.PartnerService.Leaderboard(c.Request.Context(), userID, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entries := make([]*contracts.LeaderboardEntry, 0, len(partners))
	for i, entity := range partners {
		share := float64(0)
		if grandTotal > 0 {
			share = entity.TotalContributed / grandTotal * 100
		}
		entries = append(entries, &contracts.LeaderboardEntry{
			Rank:             i + 1,
			PartnerID:        entity.Id.String(),
			Name:             entity.Name,
			TotalContributed: entity.TotalContributed,
			Share:            share,
		})
	}

	c.JSON(http.StatusOK, contracts.LeaderboardResponse{Entries: entries, Total: grandTotal})
}
