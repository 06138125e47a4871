package fx

import (
	"context"

	"Hishab/config"
	"Hishab/internal/logger"
	"Hishab/internal/storage"

	"go.uber.org/fx"
)

var StorageModule = fx.Module("storage",
	fx.Provide(
		newUploader,
	),
)

func newUploader(lc fx.Lifecycle, cfg *config.Config) (storage.Uploader, error) {
	if !cfg.Storage.Enabled {
		logger.Info().Msg("File storage disabled, receipt uploads will be rejected")
		return storage.DisabledUploader{}, nil
	}

	uploader, err := storage.NewGCSUploader(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return uploader.Close()
		},
	})

	logger.Info().Str("bucket", cfg.Storage.Bucket).Msg("File storage enabled")
	return uploader, nil
}
