package fx

import (
	"Hishab/config"
	"Hishab/internal/logger"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.Load,
	),
	fx.Invoke(
		initLogger,
	),
)

func initLogger(cfg *config.Config) {
	logger.Init(cfg)
}
