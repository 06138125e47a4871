package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

func (h *Handler) Health(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"

	if h.DB != nil {
		sqlDB, err := h.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			status = "degraded"
			dbStatus = "unreachable"
		}
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"database":    dbStatus,
		"uptime":      time.Since(startedAt).Round(time.Second).String(),
		"version":     h.Config.App.Version,
		"environment": h.Config.App.Environment,
	})
}
