// dbhealth opens the configured job store and verifies it is reachable.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/matchiq/matchiq/internal/common"
	"github.com/matchiq/matchiq/internal/repository"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("job store unhealthy", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	if _, err := repo.List(ctx); err != nil {
		logger.Error("job store query failed", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	logger.Info("job store healthy", "driver", cfg.Database.Driver)
}
