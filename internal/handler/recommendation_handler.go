package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"movie-finder/internal/models"
)

// RecommendationService produces ranked movie lists for a user.
type RecommendationService interface {
	Recommend(ctx context.Context, userID int64, recType string) ([]models.RecommendedMovie, error)
}

type RecommendationHandler struct {
	svc RecommendationService
}

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// Recommend returns recommendations for a user.
// @Summary Get recommendations
// @Tags recommendations
// @Produce json
// @Param userId path int true "User ID"
// @Param type query string true "Strategy" Enums(genre,director,top)
// @Success 200 {array} models.RecommendedMovie
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /recommendations/{userId} [get]
func (h *RecommendationHandler) Recommend(c fiber.Ctx) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	movies, err := h.svc.Recommend(c.Context(), userID, c.Query("type"))
	if err != nil {
		return fail(c, err, "user")
	}
	return c.JSON(movies)
}
