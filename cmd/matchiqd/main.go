package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matchiq/matchiq/internal/async"
	"github.com/matchiq/matchiq/internal/common"
	"github.com/matchiq/matchiq/internal/core"
	"github.com/matchiq/matchiq/internal/export"
	"github.com/matchiq/matchiq/internal/ingest"
	"github.com/matchiq/matchiq/internal/llm"
	"github.com/matchiq/matchiq/internal/repository"
	"github.com/matchiq/matchiq/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("opening job store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("closing job store", "error", err)
		}
	}()

	generator := llm.NewClient(llm.Config{
		APIURL:         cfg.LLM.APIURL,
		APIKey:         cfg.LLM.APIKey,
		Model:          cfg.LLM.Model,
		Temperature:    cfg.LLM.Temperature,
		MaxTokens:      cfg.LLM.MaxTokens,
		ConnectTimeout: cfg.LLM.ConnectTimeout,
		Timeout:        cfg.LLM.Timeout,
	}, logger)
	if cfg.LLM.APIURL == "" || cfg.LLM.APIKey == "" {
		logger.Warn("remote generation not configured; fallback content will be used")
	}

	orch := core.NewOrchestrator(repo, generator, nil, logger)
	queue := async.NewProcessorQueue(orch.Process, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
	)
	orch.SetQueue(queue)

	fetcher := ingest.NewFetcher(cfg.Ingest.FetchTimeout, logger)
	exporter := export.NewService(repo, logger)
	api := server.NewServer(orch, fetcher, exporter, cfg.Ingest, logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
