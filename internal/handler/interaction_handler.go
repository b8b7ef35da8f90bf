package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movie-finder/internal/models"
)

// InteractionService is the interaction behaviour the handler exposes.
type InteractionService interface {
	Record(ctx context.Context, req models.RecordInteractionRequest) (*models.RecordInteractionResponse, error)
	List(ctx context.Context, userID int64, action string) ([]models.InteractionRow, error)
	Ratings(ctx context.Context, userID int64) ([]models.UserRating, error)
	WatchLater(ctx context.Context, userID int64) ([]models.Movie, error)
	RemoveWatchLater(ctx context.Context, userID, movieID int64) error
	GenreStats(ctx context.Context, userID int64) (*models.GenreStats, error)
}

type InteractionHandler struct {
	svc InteractionService
}

func NewInteractionHandler(svc InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

// Record stores a rate, like or watch_later action. A new row answers 201, an
// update or an identical resubmission answers 200 with the outcome in the body.
// @Summary Record interaction
// @Tags interactions
// @Accept json
// @Produce json
// @Param body body models.RecordInteractionRequest true "Interaction"
// @Success 201 {object} models.RecordInteractionResponse
// @Success 200 {object} models.RecordInteractionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /interactions [post]
func (h *InteractionHandler) Record(c fiber.Ctx) error {
	var req models.RecordInteractionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.svc.Record(c.Context(), req)
	if err != nil {
		return fail(c, err, "user or movie")
	}

	status := fiber.StatusOK
	if resp.Outcome == models.OutcomeCreated {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(resp)
}

// List returns the rated interactions of user_id, optionally filtered by action.
// @Router /interactions [get]
func (h *InteractionHandler) List(c fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return badRequest(c, "user_id query parameter is required")
	}

	rows, err := h.svc.List(c.Context(), userID, c.Query("action"))
	if err != nil {
		return fail(c, err, "interaction")
	}
	return c.JSON(rows)
}

// Ratings returns the user's ratings, newest first.
// @Router /users/{id}/ratings [get]
func (h *InteractionHandler) Ratings(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	ratings, err := h.svc.Ratings(c.Context(), id)
	if err != nil {
		return fail(c, err, "user")
	}
	return c.JSON(ratings)
}

// WatchLater returns the user's watch-later movies.
// @Router /users/{id}/watchlater [get]
func (h *InteractionHandler) WatchLater(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	movies, err := h.svc.WatchLater(c.Context(), id)
	if err != nil {
		return fail(c, err, "user")
	}
	return c.JSON(movies)
}

// RemoveWatchLater drops a movie from the watch-later list.
// @Router /users/{id}/watchlater/{movieId} [delete]
func (h *InteractionHandler) RemoveWatchLater(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}
	movieID, ok := pathID(c, "movieId")
	if !ok {
		return badRequest(c, "invalid movie ID")
	}

	if err := h.svc.RemoveWatchLater(c.Context(), id, movieID); err != nil {
		return fail(c, err, "watch later entry")
	}
	return c.JSON(fiber.Map{"message": "removed from watch later"})
}

// GenreStats returns chart data of movies per genre for the user.
// @Router /users/{id}/genre-stats [get]
func (h *InteractionHandler) GenreStats(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	stats, err := h.svc.GenreStats(c.Context(), id)
	if err != nil {
		return fail(c, err, "user")
	}
	return c.JSON(stats)
}
