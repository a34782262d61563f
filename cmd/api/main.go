package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/cinegraph/internal/api/handler"
	"github.com/hszk-dev/cinegraph/internal/api/middleware"
	"github.com/hszk-dev/cinegraph/internal/config"
	"github.com/hszk-dev/cinegraph/internal/infrastructure/cache"
	"github.com/hszk-dev/cinegraph/internal/infrastructure/postgres"
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

	// Catalog access: bounded fetcher + repository client.
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

	// Response cache backend.
	var responseCache cache.ResponseCache
	switch cfg.Cache.Backend {
	case "memory":
		responseCache = cache.NewMemoryResponseCache(cfg.Cache.MemoryMaxEntries, cfg.Cache.GenresTTL)
		logger.Info("using in-memory response cache",
			slog.Int("max_entries", cfg.Cache.MemoryMaxEntries))
	default:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		responseCache = cache.NewRedisResponseCache(redisClient)
		logger.Info("connected to Redis")
	}

	cachedCatalog := usecase.NewCachedCatalogService(catalogSvc, responseCache, usecase.CacheTTLConfig{
		Discovery: cfg.Cache.DiscoveryTTL,
		Details:   cfg.Cache.DetailsTTL,
		Genres:    cfg.Cache.GenresTTL,
	})
	engine := usecase.NewRecommendationEngine(cachedCatalog)

	// Persisted ratings.
	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	if err := pgClient.EnsureSchema(ctx); err != nil {
		return err
	}
	logger.Info("connected to PostgreSQL")

	ratingSvc := usecase.NewRatingService(postgres.NewRatingRepository(pgClient.Pool()), engine)

	// Poster store and warm queue.
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

	posterSvc := usecase.NewPosterService(cachedCatalog, storageClient, queueClient)

	r := setupRouter(logger, routerDeps{
		movies:  handler.NewMovieHandler(cachedCatalog, engine),
		ratings: handler.NewRatingHandler(ratingSvc),
		images:  handler.NewImageHandler(posterSvc),
		ready: handler.Ready(map[string]handler.Pinger{
			"postgres": pgClient,
			"minio":    storageClient,
		}),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

type routerDeps struct {
	movies  *handler.MovieHandler
	ratings *handler.RatingHandler
	images  *handler.ImageHandler
	ready   http.HandlerFunc
}

func setupRouter(logger *slog.Logger, deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health)
	r.Get("/ready", deps.ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/movies", func(r chi.Router) {
			r.Get("/popular", deps.movies.Popular)
			r.Get("/search", deps.movies.Search)
			r.Get("/discover", deps.movies.Discover)
			r.Get("/{id}", deps.movies.Details)
			r.Get("/{id}/credits", deps.movies.Credits)
		})
		r.Get("/genres", deps.movies.Genres)
		r.Post("/recommendations", deps.movies.Recommend)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/ratings", deps.ratings.List)
			r.Put("/ratings/{movieID}", deps.ratings.Rate)
			r.Delete("/ratings/{movieID}", deps.ratings.Delete)
			r.Post("/recommendations", deps.ratings.Recommend)
		})
	})

	r.Get("/images/*", deps.images.Get)

	return r
}
