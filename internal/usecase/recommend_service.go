package usecase

import (
	"context"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/hszk-dev/cinegraph/internal/domain/model"
	"github.com/hszk-dev/cinegraph/internal/infrastructure/metrics"
)

// Scoring constants. A candidate's score is the Bayesian-damped vote
// average halved, plus a similarity bonus scaled by the seed's rating.
const (
	maxSeeds           = 5
	maxRecommendations = 15
	maxActorSignals    = 3
	maxGenreSignals    = 2

	// Titles below this vote count are too volatile to recommend.
	minVoteCount = 50

	// Damping prior: a global mean vote weighted as 100 phantom votes.
	priorVotes = 100.0
	priorMean  = 6.9

	weightDirector = 4.0
	weightActor    = 2.5
	weightGenre    = 2.0

	// Cast billed at topBilling or below contribute with reduced weight.
	topBilling           = 3
	supportingRoleWeight = 0.6
)

// RecommendationEngine derives personalized recommendations from a user's
// rating set.
type RecommendationEngine interface {
	// Recommend returns up to 15 scored candidates, score descending.
	// ratings maps movie IDs to 1-5 ratings; non-positive values are
	// ignored. ratedMovies optionally carries catalog objects for already
	// rated movies; their IDs extend the exclusion set. An empty or
	// all-invalid rating set yields an empty list without any catalog
	// calls. Individual catalog failures are contained and surface only
	// as missing contributions.
	Recommend(ctx context.Context, ratings model.RatingSet, ratedMovies []model.Movie, language string) ([]model.Recommendation, error)
}

type recommendationEngine struct {
	catalog CatalogService
}

// NewRecommendationEngine creates a RecommendationEngine on top of the
// catalog facade.
func NewRecommendationEngine(catalog CatalogService) RecommendationEngine {
	return &recommendationEngine{catalog: catalog}
}

func (e *recommendationEngine) Recommend(ctx context.Context, ratings model.RatingSet, ratedMovies []model.Movie, language string) ([]model.Recommendation, error) {
	valid := ratings.Valid()
	seeds := valid.Seeds(maxSeeds)
	if len(seeds) == 0 {
		metrics.RecommendationRunsTotal.WithLabelValues(metrics.RecommendationEmpty).Inc()
		return []model.Recommendation{}, nil
	}

	// Candidates are excluded against everything the user has rated, not
	// just the seeds.
	rated := make(map[int]struct{}, len(valid)+len(ratedMovies))
	for id := range valid {
		rated[id] = struct{}{}
	}
	for _, m := range ratedMovies {
		rated[m.ID] = struct{}{}
	}

	candidates := newCandidateSet()

	var wg sync.WaitGroup
	for _, seedID := range seeds {
		wg.Add(1)
		go func(seedID int) {
			defer wg.Done()
			e.expandSeed(ctx, seedID, valid[seedID], language, rated, candidates)
		}(seedID)
	}
	wg.Wait()

	results := candidates.ranked(maxRecommendations)
	metrics.RecommendationCandidates.Observe(float64(candidates.len()))
	metrics.RecommendationRunsTotal.WithLabelValues(metrics.RecommendationOK).Inc()
	return results, nil
}

// expandSeed fetches the seed's detail and credits concurrently, then
// launches one expansion per signal. All expansions for the seed are
// joined before returning; a failed fetch simply drops its signals.
func (e *recommendationEngine) expandSeed(ctx context.Context, seedID, rating int, language string, rated map[int]struct{}, candidates *candidateSet) {
	ratingWeight := float64(rating) / model.MaxRating

	var (
		details *model.MovieDetails
		credits *model.Credits
		fetchWG sync.WaitGroup
	)
	fetchWG.Add(2)
	go func() {
		defer fetchWG.Done()
		d, err := e.catalog.GetMovieDetails(ctx, seedID, language)
		if err != nil {
			slog.Debug("seed details unavailable", "movie_id", seedID, "error", err)
			return
		}
		details = d
	}()
	go func() {
		defer fetchWG.Done()
		c, err := e.catalog.GetMovieCredits(ctx, seedID, language)
		if err != nil {
			slog.Debug("seed credits unavailable", "movie_id", seedID, "error", err)
			return
		}
		credits = c
	}()
	fetchWG.Wait()

	var wg sync.WaitGroup

	if director := credits.Director(); director != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.expandDirector(ctx, *director, ratingWeight, language, rated, candidates)
		}()
	}

	for _, actor := range credits.TopCast(maxActorSignals) {
		wg.Add(1)
		go func(actor model.CastMember) {
			defer wg.Done()
			e.expandActor(ctx, actor, ratingWeight, language, rated, candidates)
		}(actor)
	}

	if details != nil {
		genres := details.Genres
		if len(genres) > maxGenreSignals {
			genres = genres[:maxGenreSignals]
		}
		for _, genre := range genres {
			wg.Add(1)
			go func(genre model.Genre) {
				defer wg.Done()
				e.expandGenre(ctx, genre, ratingWeight, language, rated, candidates)
			}(genre)
		}
	}

	wg.Wait()
}

func (e *recommendationEngine) expandDirector(ctx context.Context, director model.CrewMember, ratingWeight float64, language string, rated map[int]struct{}, candidates *candidateSet) {
	movies, err := e.catalog.GetMoviesByCrew(ctx, director.ID, language)
	if err != nil {
		slog.Debug("director expansion unavailable", "person_id", director.ID, "error", err)
		return
	}

	reason := reasonLabel(language, signalDirector, director.Name)
	bonus := weightDirector * ratingWeight
	mergeMovies(movies, rated, bonus, reason, candidates)
}

func (e *recommendationEngine) expandActor(ctx context.Context, actor model.CastMember, ratingWeight float64, language string, rated map[int]struct{}, candidates *candidateSet) {
	movies, err := e.catalog.GetMoviesByCast(ctx, actor.ID, language)
	if err != nil {
		slog.Debug("actor expansion unavailable", "person_id", actor.ID, "error", err)
		return
	}

	roleWeight := 1.0
	if actor.Order >= topBilling {
		roleWeight = supportingRoleWeight
	}

	reason := reasonLabel(language, signalActor, actor.Name)
	bonus := weightActor * ratingWeight * roleWeight
	mergeMovies(movies, rated, bonus, reason, candidates)
}

func (e *recommendationEngine) expandGenre(ctx context.Context, genre model.Genre, ratingWeight float64, language string, rated map[int]struct{}, candidates *candidateSet) {
	movies, err := e.catalog.GetMoviesByGenre(ctx, genre.ID, language)
	if err != nil {
		slog.Debug("genre expansion unavailable", "genre_id", genre.ID, "error", err)
		return
	}

	reason := reasonLabel(language, signalGenre, genre.Name)
	bonus := weightGenre * ratingWeight
	mergeMovies(movies, rated, bonus, reason, candidates)
}

// mergeMovies scores each candidate and merges it into the shared set.
// Movies the user has rated and movies below the vote floor never enter
// the map.
func mergeMovies(movies []model.Movie, rated map[int]struct{}, bonus float64, reason string, candidates *candidateSet) {
	for _, movie := range movies {
		if _, ok := rated[movie.ID]; ok {
			continue
		}
		score, ok := contribution(movie, bonus)
		if !ok {
			continue
		}
		candidates.add(movie, score, reason)
	}
}

// contribution computes one signal's score for a movie: the Bayesian-damped
// rating halved plus the signal bonus. Returns ok=false below the vote floor.
// The damping is always applied, even for high-vote titles.
func contribution(movie model.Movie, bonus float64) (float64, bool) {
	if movie.VoteCount < minVoteCount {
		return 0, false
	}

	votes := float64(movie.VoteCount)
	damped := votes/(votes+priorVotes)*movie.VoteAverage + priorVotes/(votes+priorVotes)*priorMean

	return damped/2 + bonus, true
}

// Signal kinds for reason labels.
type signalKind int

const (
	signalDirector signalKind = iota
	signalActor
	signalGenre
)

// reasonLabel builds the human-readable reason string for a contribution.
// Labels are English for en-* locales and Turkish otherwise, matching the
// translation table of the presentation layer.
func reasonLabel(language string, kind signalKind, name string) string {
	english := strings.HasPrefix(language, "en")
	switch kind {
	case signalDirector:
		if english {
			return "🎬 Director: " + name
		}
		return "🎬 Yönetmen: " + name
	case signalActor:
		if english {
			return "⭐ Actor: " + name
		}
		return "⭐ Oyuncu: " + name
	default:
		if english {
			return "🎭 Genre: " + name
		}
		return "🎭 Tür: " + name
	}
}

// candidateSet accumulates scored candidates from concurrent expansions.
// Merging is monotonic max on score with duplicate-free reason union; both
// happen under one lock so interleaved writers cannot lose updates.
type candidateSet struct {
	mu   sync.Mutex
	byID map[int]*model.Recommendation
}

func newCandidateSet() *candidateSet {
	return &candidateSet{byID: make(map[int]*model.Recommendation)}
}

func (s *candidateSet) add(movie model.Movie, score float64, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[movie.ID]
	if !ok {
		s.byID[movie.ID] = &model.Recommendation{
			Movie:   movie,
			Score:   score,
			Reasons: []string{reason},
		}
		return
	}

	if score > existing.Score {
		existing.Score = score
	}
	if !slices.Contains(existing.Reasons, reason) {
		existing.Reasons = append(existing.Reasons, reason)
	}
}

func (s *candidateSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// ranked returns the top n candidates, score descending with movie ID
// ascending as a stable tie-break.
func (s *candidateSet) ranked(n int) []model.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]model.Recommendation, 0, len(s.byID))
	for _, rec := range s.byID {
		results = append(results, *rec)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Movie.ID < results[j].Movie.ID
	})
	if len(results) > n {
		results = results[:n]
	}
	return results
}
