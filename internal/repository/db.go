package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/matchiq/matchiq/internal/common"
)

// Open builds the JobRepository selected by configuration.
func Open(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (JobRepository, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLiteRepository(cfg.DSN, logger)
	case "postgres":
		return NewPostgresRepository(ctx, cfg, logger)
	case "memory":
		return NewMemoryRepository(logger), nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.Driver)
	}
}
