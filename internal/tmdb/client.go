package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public TMDB v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// Client is the TMDB API client used by the catalog import.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// DiscoverResponse is the TMDB discover/movie response.
type DiscoverResponse struct {
	Page         int         `json:"page"`
	Results      []MovieItem `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// MovieItem is a movie from TMDB discover results.
type MovieItem struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	GenreIDs    []int   `json:"genre_ids"`
}

// ReleaseYear parses the year out of release_date. Missing or malformed dates yield nil.
func (m MovieItem) ReleaseYear() *int {
	if len(m.ReleaseDate) < 4 {
		return nil
	}
	y, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return nil
	}
	return &y
}

// Rating returns vote_average, or nil when nobody has voted yet.
func (m MovieItem) Rating() *float64 {
	if m.VoteCount == 0 {
		return nil
	}
	r := m.VoteAverage
	return &r
}

// Genre is a genre from TMDB.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreListResponse is the TMDB genre/movie/list response.
type GenreListResponse struct {
	Genres []Genre `json:"genres"`
}

// CrewMember is one crew credit of a movie.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// CreditsResponse is the TMDB movie/{id}/credits response. Cast is not needed.
type CreditsResponse struct {
	ID   int          `json:"id"`
	Crew []CrewMember `json:"crew"`
}

// Directors returns the names credited with the Director job.
func (c CreditsResponse) Directors() []string {
	var names []string
	for _, m := range c.Crew {
		if m.Job == "Director" {
			names = append(names, m.Name)
		}
	}
	return names
}

// DiscoverMovies fetches one page of the discover endpoint, most popular first.
func (c *Client) DiscoverMovies(ctx context.Context, page int) (*DiscoverResponse, error) {
	q := url.Values{}
	q.Set("sort_by", "popularity.desc")
	q.Set("page", strconv.Itoa(page))

	slog.Debug("fetching TMDB discover", "page", page)
	var result DiscoverResponse
	if err := c.getJSON(ctx, "/discover/movie", q, &result); err != nil {
		return nil, fmt.Errorf("discover page %d: %w", page, err)
	}
	return &result, nil
}

// GetGenres fetches all movie genres from TMDB.
func (c *Client) GetGenres(ctx context.Context) ([]Genre, error) {
	slog.Debug("fetching TMDB genres")
	var result GenreListResponse
	if err := c.getJSON(ctx, "/genre/movie/list", nil, &result); err != nil {
		return nil, fmt.Errorf("genre list: %w", err)
	}
	return result.Genres, nil
}

// GetCredits fetches the crew of a movie.
func (c *Client) GetCredits(ctx context.Context, tmdbID int) (*CreditsResponse, error) {
	slog.Debug("fetching TMDB credits", "tmdb_id", tmdbID)
	var result CreditsResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d/credits", tmdbID), nil, &result); err != nil {
		return nil, fmt.Errorf("credits %d: %w", tmdbID, err)
	}
	return &result, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, dst interface{}) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
