package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lumora-ai/imageflow"
)

// FromConfig builds the storage backend named by cfg.StorageBackend.
// An empty backend returns (nil, nil): storage is optional.
func FromConfig(ctx context.Context, cfg *imageflow.Config, logger *slog.Logger) (imageflow.Storage, error) {
	switch cfg.StorageBackend {
	case "":
		return nil, nil
	case "s3":
		return NewS3(ctx, cfg, logger)
	case "local":
		return NewLocal(cfg.LocalStoragePath, cfg.LocalStorageBaseURL, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
