package service

import (
	"context"
	"fmt"
	"strings"

	"movie-finder/internal/models"
	"movie-finder/internal/validation"
)

// MovieStore is the catalog persistence the movie service needs.
type MovieStore interface {
	Search(ctx context.Context, params models.SearchParams) ([]models.MovieSearchResult, error)
	GetByID(ctx context.Context, id int64) (*models.MovieDetail, error)
	Create(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error)
	Update(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error)
	Delete(ctx context.Context, id int64) error
	ListGenres(ctx context.Context) ([]models.Genre, error)
	SimilarByDirector(ctx context.Context, movieID int64, limit int) ([]models.SimilarMovie, error)
}

// MovieService handles business logic for the catalog.
type MovieService struct {
	repo MovieStore
}

// NewMovieService creates a new MovieService.
func NewMovieService(repo MovieStore) *MovieService {
	return &MovieService{repo: repo}
}

// Search returns movies matching every supplied filter.
func (s *MovieService) Search(ctx context.Context, params models.SearchParams) ([]models.MovieSearchResult, error) {
	if params.MinRating != nil && (*params.MinRating < 0 || *params.MinRating > 10) {
		return nil, validation.NewError("min_rating", "must be between 0 and 10")
	}
	params.Query = strings.TrimSpace(params.Query)

	movies, err := s.repo.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return movies, nil
}

// Get returns a single movie with its genres and directors.
func (s *MovieService) Get(ctx context.Context, id int64) (*models.MovieDetail, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

// Create validates and stores a new movie.
func (s *MovieService) Create(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, req)
}

// Update applies a partial update to an existing movie.
func (s *MovieService) Update(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error) {
	if req.Empty() {
		return nil, ErrNoUpdates
	}
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		req.Title = &t
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	m, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

// Delete removes a movie and everything that references it.
func (s *MovieService) Delete(ctx context.Context, id int64) error {
	return notFound(s.repo.Delete(ctx, id))
}

// Genres lists every known genre.
func (s *MovieService) Genres(ctx context.Context) ([]models.Genre, error) {
	return s.repo.ListGenres(ctx)
}

// SimilarByDirector returns movies that share a director with the given movie.
// An unknown movie simply has no similar movies.
func (s *MovieService) SimilarByDirector(ctx context.Context, id int64) ([]models.SimilarMovie, error) {
	return s.repo.SimilarByDirector(ctx, id, models.SimilarByDirectorLimit)
}
