package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/hszk-dev/cinegraph/internal/config"
	"github.com/hszk-dev/cinegraph/internal/domain/repository"
	"github.com/hszk-dev/cinegraph/internal/infrastructure/queue"
	"github.com/hszk-dev/cinegraph/internal/infrastructure/storage"
	"github.com/hszk-dev/cinegraph/internal/infrastructure/tmdb"
	"github.com/hszk-dev/cinegraph/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	fetcher, err := tmdb.NewFetcher(tmdb.FetcherConfig{
		BaseURL:           cfg.Catalog.BaseURL,
		FallbackAddr:      cfg.Catalog.FallbackAddr,
		ImageBaseURL:      cfg.Catalog.ImageBaseURL,
		ImageFallbackAddr: cfg.Catalog.ImageFallbackAddr,
		RequestTimeout:    cfg.Catalog.RequestTimeout,
		MaxInFlight:       cfg.Catalog.MaxInFlight,
		RatePerSecond:     cfg.Catalog.RatePerSecond,
		RateBurst:         cfg.Catalog.RateBurst,
	})
	if err != nil {
		return fmt.Errorf("failed to create catalog fetcher: %w", err)
	}
	catalogSvc := usecase.NewCatalogService(tmdb.NewClient(fetcher, cfg.Catalog.APIKey))

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	// The worker only warms posters; it never re-enqueues, so no queue
	// is wired into the service.
	posterSvc := usecase.NewPosterService(catalogSvc, storageClient, nil)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting worker, consuming poster warm tasks")
		err := queueClient.ConsumePosterWarmTasks(ctx, func(task repository.PosterWarmTask) error {
			wg.Add(1)
			defer wg.Done()

			logger.Info("warming poster", slog.String("path", task.Path))

			if err := posterSvc.WarmPoster(ctx, task.Path); err != nil {
				logger.Error("poster warm failed",
					slog.String("path", task.Path),
					slog.String("error", err.Error()),
				)
				return err
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			errCh <- fmt.Errorf("consumer error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down worker", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownTimeout)
	defer shutdownCancel()

	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("all in-flight tasks completed")
	case <-shutdownCtx.Done():
		logger.Warn("shutdown timeout exceeded, some tasks may not have completed")
	}

	logger.Info("worker stopped")
	return nil
}
