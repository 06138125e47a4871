package fx

import (
	"time"

	"Hishab/config"
	"Hishab/internal/middleware"

	"go.uber.org/fx"
)

var MiddlewareModule = fx.Module("middleware",
	fx.Provide(
		newAuthRateLimiter,
	),
)

func newAuthRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimit.AuthPerMinute, time.Minute)
}
