package routes

import (
	"net/http"

	"Hishab/internal/contracts"
	"Hishab/internal/domain/session"
	"Hishab/internal/domain/user"
	appErrors "Hishab/internal/errors"
	"Hishab/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Register(c *gin.Context) {
	var body contracts.RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	entity, err := h.UserService.Register(ctx, body.Name, body.Email, body.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	issued, err := h.SessionService.Issue(ctx, entity.Id, "", c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.AuthResponse{
		Token:     issued.Token,
		ExpiresAt: issued.Session.ExpiresAt,
		User:      toUserResponse(entity),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var body contracts.LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	entity, err := h.UserService.Authenticate(ctx, body.Email, body.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	issued, err := h.SessionService.Issue(ctx, entity.Id, body.DeviceName, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.AuthResponse{
		Token:     issued.Token,
		ExpiresAt: issued.Session.ExpiresAt,
		User:      toUserResponse(entity),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	token, exists := c.Get("session_token")
	if !exists {
		h.respondError(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.SessionService.Revoke(c.Request.Context(), token.(string)); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) GetMe(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entity, err := h.UserService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(entity))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var body contracts.UpdateProfileRequest
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

	avatarURL := ""
	if avatarID != nil {
		stored, err := h.ReceiptService.GetByID(ctx, *avatarID, userID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		avatarURL = stored.URL
	}

	entity, err := h.UserService.UpdateProfile(ctx, userID, body.Name, avatarID, avatarURL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(entity))
}

func (h *Handler) ListSessions(c *gin.Context) {
	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sessions, err := h.SessionService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	currentID, _ := c.Get("session_id")
	out := make([]contracts.SessionResponse, 0, len(sessions))
	for _, entity := range sessions {
		out = append(out, toSessionResponse(entity, currentID == entity.Id.String()))
	}

	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (h *Handler) RevokeSession(c *gin.Context) {
	sessionID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "Invalid format"))
		return
	}

	userID, err := h.GetUserIDFromContext(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.SessionService.RevokeByID(c.Request.Context(), sessionID, userID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session revoked"})
}

func toUserResponse(entity *user.User) contracts.UserResponse {
	return contracts.UserResponse{
		ID:        entity.Id.String(),
		Name:      entity.Name,
		Email:     entity.Email,
		AvatarURL: entity.AvatarURL,
		CreatedAt: entity.CreatedAt,
	}
}

func toSessionResponse(entity *session.Session, current bool) contracts.SessionResponse {
	return contracts.SessionResponse{
		ID:         entity.Id.String(),
		DeviceName: entity.DeviceName,
		IP:         entity.IP,
		UserAgent:  entity.UserAgent,
		CreatedAt:  entity.CreatedAt,
		ExpiresAt:  entity.ExpiresAt,
		Current:    current,
	}
}
