package service

import (
	"context"

	"movie-finder/internal/models"
	"movie-finder/internal/validation"
)

// InteractionStore is the interaction persistence the interaction service needs.
type InteractionStore interface {
	Upsert(ctx context.Context, in models.Interaction) (models.Outcome, error)
	ListRatings(ctx context.Context, userID int64) ([]models.UserRating, error)
	ListRated(ctx context.Context, userID int64, action *models.Action) ([]models.InteractionRow, error)
	ListWatchLater(ctx context.Context, userID int64) ([]models.Movie, error)
	RemoveWatchLater(ctx context.Context, userID, movieID int64) error
	GenreStats(ctx context.Context, userID int64) (*models.GenreStats, error)
}

// InteractionService records and lists user interactions.
type InteractionService struct {
	repo InteractionStore
}

func NewInteractionService(repo InteractionStore) *InteractionService {
	return &InteractionService{repo: repo}
}

// Record stores an interaction and reports whether it was created, updated or
// already present with the same rating.
func (s *InteractionService) Record(ctx context.Context, req models.RecordInteractionRequest) (*models.RecordInteractionResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Action == models.ActionRate && req.Rating == nil {
		return nil, validation.NewError("rating", "is required for the rate action")
	}

	outcome, err := s.repo.Upsert(ctx, models.Interaction{
		UserID:  req.UserID,
		MovieID: req.MovieID,
		Action:  req.Action,
		Rating:  req.Rating,
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &models.RecordInteractionResponse{Outcome: outcome, Message: outcome.Message()}, nil
}

// List returns the user's rated interactions, optionally for a single action.
func (s *InteractionService) List(ctx context.Context, userID int64, action string) ([]models.InteractionRow, error) {
	if action == "" {
		return s.repo.ListRated(ctx, userID, nil)
	}
	a := models.Action(action)
	if !a.Valid() {
		return nil, validation.NewError("action", "must be one of [rate like watch_later]")
	}
	return s.repo.ListRated(ctx, userID, &a)
}

// Ratings returns the user's ratings, newest first.
func (s *InteractionService) Ratings(ctx context.Context, userID int64) ([]models.UserRating, error) {
	return s.repo.ListRatings(ctx, userID)
}

// WatchLater returns the movies the user saved for later.
func (s *InteractionService) WatchLater(ctx context.Context, userID int64) ([]models.Movie, error) {
	return s.repo.ListWatchLater(ctx, userID)
}

// RemoveWatchLater drops a movie from the user's watch-later list.
func (s *InteractionService) RemoveWatchLater(ctx context.Context, userID, movieID int64) error {
	return s.repo.RemoveWatchLater(ctx, userID, movieID)
}

// GenreStats returns per-genre movie counts for the user's chart.
func (s *InteractionService) GenreStats(ctx context.Context, userID int64) (*models.GenreStats, error) {
	return s.repo.GenreStats(ctx, userID)
}
