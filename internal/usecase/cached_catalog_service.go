package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hszk-dev/cinegraph/internal/domain/model"
	"github.com/hszk-dev/cinegraph/internal/infrastructure/cache"
	"github.com/hszk-dev/cinegraph/internal/infrastructure/metrics"
)

// CacheTTLConfig holds the TTLs of the three cacheable query classes.
type CacheTTLConfig struct {
	// Discovery covers list-shaped queries (popular, genre discovery).
	Discovery time.Duration
	// Details covers the composite detail+credits+videos record.
	Details time.Duration
	// Genres covers the genre taxonomy entry in the shared cache; the
	// in-process copy never expires once populated.
	Genres time.Duration
}

// DefaultCacheTTLConfig returns the default TTL classes.
func DefaultCacheTTLConfig() CacheTTLConfig {
	return CacheTTLConfig{
		Discovery: 10 * time.Minute,
		Details:   30 * time.Minute,
		Genres:    60 * time.Minute,
	}
}

// cachedCatalogService wraps a CatalogService with response caching.
// It implements the decorator pattern to add caching without modifying
// the underlying facade. Cached classes: popular list, genre discovery,
// composite details, genre taxonomy. Person credits, cast discovery,
// search, keywords, and images pass straight through.
//
// The genre taxonomy is additionally held in process: once a language's
// taxonomy has been fetched successfully it is never re-queried for the
// lifetime of this instance, regardless of the shared cache TTL.
type cachedCatalogService struct {
	CatalogService

	cache   cache.ResponseCache
	sfGroup singleflight.Group
	ttl     CacheTTLConfig

	genres *genreCache
}

// NewCachedCatalogService creates a CachedCatalogService wrapping the
// provided CatalogService.
func NewCachedCatalogService(delegate CatalogService, responseCache cache.ResponseCache, ttl CacheTTLConfig) CatalogService {
	return &cachedCatalogService{
		CatalogService: delegate,
		cache:          responseCache,
		ttl:            ttl,
		genres:         newGenreCache(),
	}
}

// GetPopularMovies serves the merged two-page popular list from cache.
func (s *cachedCatalogService) GetPopularMovies(ctx context.Context, language string) ([]model.Movie, error) {
	key := cache.Key("popular_movies", "1-2", language)
	return getOrFetch(ctx, s, key, s.ttl.Discovery, func(ctx context.Context) ([]model.Movie, error) {
		return s.CatalogService.GetPopularMovies(ctx, language)
	})
}

// GetMoviesByGenre serves genre discovery results from cache.
func (s *cachedCatalogService) GetMoviesByGenre(ctx context.Context, genreID int, language string) ([]model.Movie, error) {
	key := cache.Key("discover_genre", strconv.Itoa(genreID), language)
	return getOrFetch(ctx, s, key, s.ttl.Discovery, func(ctx context.Context) ([]model.Movie, error) {
		return s.CatalogService.GetMoviesByGenre(ctx, genreID, language)
	})
}

// GetMovieDetails serves the composite detail record from cache.
// Absence is not cached: a missing movie stays a direct lookup.
func (s *cachedCatalogService) GetMovieDetails(ctx context.Context, movieID int, language string) (*model.MovieDetails, error) {
	key := cache.Key("movie_details", strconv.Itoa(movieID), language)
	return getOrFetch(ctx, s, key, s.ttl.Details, func(ctx context.Context) (*model.MovieDetails, error) {
		return s.CatalogService.GetMovieDetails(ctx, movieID, language)
	})
}

// GetGenres serves the genre taxonomy, write-once per language.
func (s *cachedCatalogService) GetGenres(ctx context.Context, language string) ([]model.Genre, error) {
	if genres, ok := s.genres.get(language); ok {
		return genres, nil
	}

	key := cache.Key("genres", "all", language)
	genres, err := getOrFetch(ctx, s, key, s.ttl.Genres, func(ctx context.Context) ([]model.Genre, error) {
		return s.CatalogService.GetGenres(ctx, language)
	})
	if err != nil {
		return nil, err
	}
	return s.genres.put(language, genres), nil
}

// getOrFetch implements the cache-aside pattern with singleflight
// coalescing: concurrent misses for the same key share one producer call.
func getOrFetch[T any](ctx context.Context, s *cachedCatalogService, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	result, err, shared := s.sfGroup.Do(key, func() (any, error) {
		if data, found, cacheErr := s.cache.Get(ctx, key); cacheErr != nil {
			// Log cache error but continue to the catalog
			slog.Warn("cache get failed, falling back to catalog",
				"key", key,
				"error", cacheErr,
			)
		} else if found {
			var value T
			if jsonErr := json.Unmarshal(data, &value); jsonErr == nil {
				return value, nil
			}
			slog.Warn("malformed cache entry, refetching", "key", key)
		}

		value, fetchErr := fetch(ctx)
		if fetchErr != nil {
			return value, fetchErr
		}

		// Store in cache (errors logged but not propagated)
		if data, jsonErr := json.Marshal(value); jsonErr == nil {
			if setErr := s.cache.Set(ctx, key, data, ttl); setErr != nil {
				slog.Warn("failed to cache catalog response",
					"key", key,
					"error", setErr,
				)
			}
		}
		return value, nil
	})

	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}

	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// genreCache is the explicitly owned, lazily-initialized, write-once
// holder for the genre taxonomy. Its lifecycle is tied to the facade that
// owns it; there is no package-level state.
type genreCache struct {
	mu       sync.RWMutex
	byLocale map[string][]model.Genre
}

func newGenreCache() *genreCache {
	return &genreCache{byLocale: make(map[string][]model.Genre)}
}

func (g *genreCache) get(language string) ([]model.Genre, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	genres, ok := g.byLocale[language]
	return genres, ok
}

// put records the first successful taxonomy for a language and returns
// the winning value, so racing callers converge on one slice.
func (g *genreCache) put(language string, genres []model.Genre) []model.Genre {
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.byLocale[language]; ok {
		return existing
	}
	g.byLocale[language] = genres
	return genres
}
