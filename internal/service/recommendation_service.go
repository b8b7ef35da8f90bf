package service

import (
	"context"
	"fmt"
	"log/slog"

	"movie-finder/internal/config"
	"movie-finder/internal/metrics"
	"movie-finder/internal/models"
)

// RecommendationStore is the read side the recommendation engine queries.
type RecommendationStore interface {
	TopGenres(ctx context.Context, userID int64, minRating float64, limit int) ([]models.TopGenre, error)
	MoviesInGenres(ctx context.Context, genres []string, limit int) ([]models.RecommendedMovie, error)
	TopDirectors(ctx context.Context, userID int64, minRating float64, limit int) ([]models.TopDirector, error)
	DirectorFallback(ctx context.Context, limit int) ([]models.RecommendedMovie, error)
	DirectorCandidates(ctx context.Context, p models.DirectorCandidateParams, limit int) ([]models.RecommendedMovie, error)
	TopRated(ctx context.Context, limit int) ([]models.RecommendedMovie, error)
}

// RecommendationService picks a strategy by type and falls back to the global
// top list when a query fails. For the top strategy the fallback is one retry.
type RecommendationService struct {
	repo RecommendationStore
	cfg  config.RecommendationConfig
}

func NewRecommendationService(repo RecommendationStore, cfg config.RecommendationConfig) *RecommendationService {
	return &RecommendationService{repo: repo, cfg: cfg}
}

// Recommend returns the ranked movies for userID using the named strategy.
func (s *RecommendationService) Recommend(ctx context.Context, userID int64, recType string) ([]models.RecommendedMovie, error) {
	var (
		movies []models.RecommendedMovie
		err    error
	)

	switch models.RecommendationType(recType) {
	case models.RecommendGenre:
		movies, err = s.byGenre(ctx, userID)
	case models.RecommendDirector:
		movies, err = s.byDirector(ctx, userID)
	case models.RecommendTop:
		movies, err = s.repo.TopRated(ctx, models.TopRatedLimit)
	default:
		return nil, ErrInvalidRecommendationType
	}

	if err != nil {
		slog.Error("recommendation query failed, serving top rated",
			"type", recType, "user_id", userID, "error", err)
		metrics.ObserveRecommendationFallback(recType)

		movies, err = s.repo.TopRated(ctx, models.TopRatedLimit)
		if err != nil {
			return nil, fmt.Errorf("fallback top rated: %w", err)
		}
	}
	return movies, nil
}

func (s *RecommendationService) byGenre(ctx context.Context, userID int64) ([]models.RecommendedMovie, error) {
	top, err := s.repo.TopGenres(ctx, userID, s.cfg.GenreMinRating, models.TopGenresLimit)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return []models.RecommendedMovie{}, nil
	}

	names := make([]string, 0, len(top))
	for _, g := range top {
		names = append(names, g.Name)
	}
	return s.repo.MoviesInGenres(ctx, names, models.GenreRecommendLimit)
}

func (s *RecommendationService) byDirector(ctx context.Context, userID int64) ([]models.RecommendedMovie, error) {
	top, err := s.repo.TopDirectors(ctx, userID, s.cfg.DirectorMinRating, models.TopDirectorsLimit)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return s.repo.DirectorFallback(ctx, models.DirectorFallbackLimit)
	}

	ids := make([]int64, 0, len(top))
	for _, d := range top {
		ids = append(ids, d.PersonID)
	}
	return s.repo.DirectorCandidates(ctx, models.DirectorCandidateParams{
		UserID:       userID,
		DirectorIDs:  ids,
		ExcludeBelow: s.cfg.DirectorExcludeBelow,
		ExcludeSaved: s.cfg.ExcludeSaved,
	}, models.DirectorCandidatesLimit)
}
