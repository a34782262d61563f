package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/hszk-dev/cinegraph/internal/domain/model"
	"github.com/hszk-dev/cinegraph/internal/domain/repository"
)

// maxDirectedMovies caps the result of a director filmography query.
const maxDirectedMovies = 20

// Client implements repository.Catalog against the TMDB API.
type Client struct {
	fetcher *Fetcher
	apiKey  string
}

// Compile-time verification that Client implements repository.Catalog.
var _ repository.Catalog = (*Client)(nil)

// NewClient creates a catalog client on top of a bounded fetcher.
func NewClient(fetcher *Fetcher, apiKey string) *Client {
	return &Client{fetcher: fetcher, apiKey: apiKey}
}

// Wire shapes. TMDB wraps collections in envelope objects.

type movieListResponse struct {
	Page         int           `json:"page"`
	Results      []model.Movie `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

type genreListResponse struct {
	Genres []model.Genre `json:"genres"`
}

type keywordListResponse struct {
	Keywords []model.Keyword `json:"keywords"`
}

// personCrewCredit is one crew entry of a person's credit list. It carries
// movie fields plus the person's job on that movie.
type personCrewCredit struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	GenreIDs    []int   `json:"genre_ids"`
	Job         string  `json:"job"`
}

type personCreditsResponse struct {
	Crew []personCrewCredit `json:"crew"`
}

type videoListSection struct {
	Results []model.VideoClip `json:"results"`
}

// movieDetailsResponse decodes the composite detail query. The embedded
// MovieDetails absorbs the flat fields and the appended "credits" object;
// "videos" needs unwrapping because the wire nests the clips in a results
// envelope (the outer field shadows the embedded json tag during decode).
type movieDetailsResponse struct {
	model.MovieDetails
	Videos videoListSection `json:"videos"`
}

// PopularMovies returns one page of the popularity-ordered list.
func (c *Client) PopularMovies(ctx context.Context, page int, language string) ([]model.Movie, error) {
	q := c.query(language)
	q.Set("page", strconv.Itoa(page))

	var resp movieListResponse
	if err := c.fetcher.GetJSON(ctx, "/movie/popular", q, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Results), nil
}

// MoviesByGenre returns genre discovery results, vote count descending.
func (c *Client) MoviesByGenre(ctx context.Context, genreID int, language string) ([]model.Movie, error) {
	q := c.query(language)
	q.Set("with_genres", strconv.Itoa(genreID))
	q.Set("sort_by", "vote_count.desc")

	var resp movieListResponse
	if err := c.fetcher.GetJSON(ctx, "/discover/movie", q, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Results), nil
}

// MoviesByCast returns discovery results for movies featuring a person.
func (c *Client) MoviesByCast(ctx context.Context, personID int, language string) ([]model.Movie, error) {
	q := c.query(language)
	q.Set("with_cast", strconv.Itoa(personID))
	q.Set("sort_by", "vote_count.desc")

	var resp movieListResponse
	if err := c.fetcher.GetJSON(ctx, "/discover/movie", q, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Results), nil
}

// MoviesByCrew returns the movies a person directed, vote count
// descending, capped to maxDirectedMovies.
func (c *Client) MoviesByCrew(ctx context.Context, personID int, language string) ([]model.Movie, error) {
	var resp personCreditsResponse
	path := fmt.Sprintf("/person/%d/movie_credits", personID)
	if err := c.fetcher.GetJSON(ctx, path, c.query(language), &resp); err != nil {
		return nil, err
	}

	directed := make([]model.Movie, 0, len(resp.Crew))
	for _, credit := range resp.Crew {
		if credit.Job != model.JobDirector {
			continue
		}
		directed = append(directed, model.Movie{
			ID:          credit.ID,
			Title:       credit.Title,
			Overview:    credit.Overview,
			PosterPath:  credit.PosterPath,
			ReleaseDate: credit.ReleaseDate,
			VoteAverage: credit.VoteAverage,
			VoteCount:   credit.VoteCount,
			GenreIDs:    credit.GenreIDs,
		})
	}
	sort.Slice(directed, func(i, j int) bool {
		return directed[i].VoteCount > directed[j].VoteCount
	})
	if len(directed) > maxDirectedMovies {
		directed = directed[:maxDirectedMovies]
	}
	return directed, nil
}

// MoviesByKeywords returns discovery results matching any keyword,
// restricted to titles with at least 100 votes.
func (c *Client) MoviesByKeywords(ctx context.Context, keywordIDs []int, language string) ([]model.Movie, error) {
	if len(keywordIDs) == 0 {
		return []model.Movie{}, nil
	}

	parts := make([]string, len(keywordIDs))
	for i, id := range keywordIDs {
		parts[i] = strconv.Itoa(id)
	}

	q := c.query(language)
	q.Set("with_keywords", strings.Join(parts, ","))
	q.Set("sort_by", "vote_count.desc")
	q.Set("vote_count.gte", "100")

	var resp movieListResponse
	if err := c.fetcher.GetJSON(ctx, "/discover/movie", q, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Results), nil
}

// SimilarMovies returns the catalog's own similarity list for a movie.
func (c *Client) SimilarMovies(ctx context.Context, movieID int, language string) ([]model.Movie, error) {
	var resp movieListResponse
	path := fmt.Sprintf("/movie/%d/similar", movieID)
	if err := c.fetcher.GetJSON(ctx, path, c.query(language), &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Results), nil
}

// SearchMovies returns title-search results. The free-text query is
// URL-encoded by the query builder.
func (c *Client) SearchMovies(ctx context.Context, query, language string) ([]model.Movie, error) {
	q := c.query(language)
	q.Set("query", query)

	var resp movieListResponse
	if err := c.fetcher.GetJSON(ctx, "/search/movie", q, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Results), nil
}

// MovieDetails fetches the detail record with credits and videos appended,
// so the composite costs a single catalog call.
func (c *Client) MovieDetails(ctx context.Context, movieID int, language string) (*model.MovieDetails, error) {
	q := c.query(language)
	q.Set("append_to_response", "credits,videos")

	var resp movieDetailsResponse
	path := fmt.Sprintf("/movie/%d", movieID)
	if err := c.fetcher.GetJSON(ctx, path, q, &resp); err != nil {
		return nil, err
	}

	details := resp.MovieDetails
	details.Videos = resp.Videos.Results
	return &details, nil
}

// MovieCredits returns the raw cast and crew of a movie.
func (c *Client) MovieCredits(ctx context.Context, movieID int, language string) (*model.Credits, error) {
	var credits model.Credits
	path := fmt.Sprintf("/movie/%d/credits", movieID)
	if err := c.fetcher.GetJSON(ctx, path, c.query(language), &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// MovieKeywords returns the keywords attached to a movie.
func (c *Client) MovieKeywords(ctx context.Context, movieID int) ([]model.Keyword, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)

	var resp keywordListResponse
	path := fmt.Sprintf("/movie/%d/keywords", movieID)
	if err := c.fetcher.GetJSON(ctx, path, q, &resp); err != nil {
		return nil, err
	}
	return resp.Keywords, nil
}

// Genres returns the catalog's genre taxonomy.
func (c *Client) Genres(ctx context.Context, language string) ([]model.Genre, error) {
	var resp genreListResponse
	if err := c.fetcher.GetJSON(ctx, "/genre/movie/list", c.query(language), &resp); err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// Image streams an image by its catalog-relative path.
func (c *Client) Image(ctx context.Context, path string) (io.ReadCloser, error) {
	return c.fetcher.GetImage(ctx, path)
}

func (c *Client) query(language string) url.Values {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	if language != "" {
		q.Set("language", language)
	}
	return q
}

func nonNil(movies []model.Movie) []model.Movie {
	if movies == nil {
		return []model.Movie{}
	}
	return movies
}
