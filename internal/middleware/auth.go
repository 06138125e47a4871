package middleware

import (
	"net/http"
	"strings"

	"Hishab/config"
	"Hishab/internal/domain/session"
	appErrors "Hishab/internal/errors"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the caller's session token (Bearer header or
// cookie) to a server-side session and stores user_id and session_id in the
// request context. The ledger trusts user_id for recorded_by attribution.
func AuthMiddleware(sessions *session.Service, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cfg.Session.CookieName)
		if token == "" {
			abortUnauthorized(c, appErrors.ErrUnauthorized)
			return
		}

		entity, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set("user_id", entity.UserId.String())
		c.Set("session_id", entity.Id.String())
		c.Set("session_token", token)
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status < http.StatusBadRequest {
		status = http.StatusUnauthorized
	}
	c.JSON(status, gin.H{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
	c.Abort()
}
