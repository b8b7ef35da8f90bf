package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movie-finder/internal/models"
	"movie-finder/internal/validation"
)

// MovieService is the catalog behaviour the movie handler exposes.
type MovieService interface {
	Search(ctx context.Context, params models.SearchParams) ([]models.MovieSearchResult, error)
	Get(ctx context.Context, id int64) (*models.MovieDetail, error)
	Create(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error)
	Update(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error)
	Delete(ctx context.Context, id int64) error
	Genres(ctx context.Context) ([]models.Genre, error)
	SimilarByDirector(ctx context.Context, id int64) ([]models.SimilarMovie, error)
}

// MovieHandler handles HTTP requests for movies.
type MovieHandler struct {
	svc MovieService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// Search returns movies filtered by title, year and rating.
// @Summary Search movies
// @Tags movies
// @Produce json
// @Param q query string false "Title substring"
// @Param minYear query int false "Minimum release year"
// @Param minRating query number false "Minimum rating (0-10)"
// @Success 200 {array} models.MovieSearchResult
// @Failure 400 {object} ErrorResponse
// @Router /movies [get]
func (h *MovieHandler) Search(c fiber.Ctx) error {
	params := models.SearchParams{Query: c.Query("q")}

	if v := c.Query("minYear"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fail(c, validation.NewError("minYear", "must be an integer"), "movie")
		}
		y := int(n)
		params.MinYear = &y
	}
	if v := c.Query("minRating"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fail(c, validation.NewError("minRating", "must be a number"), "movie")
		}
		params.MinRating = &r
	}

	movies, err := h.svc.Search(c.Context(), params)
	if err != nil {
		return fail(c, err, "movie")
	}
	return c.JSON(movies)
}

// Get returns a single movie with its genres and directors.
// @Summary Get movie
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} models.MovieDetail
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) Get(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie ID")
	}

	movie, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return fail(c, err, "movie")
	}
	return c.JSON(movie)
}

// Create adds a movie to the catalog.
// @Summary Create movie
// @Tags movies
// @Accept json
// @Produce json
// @Param body body models.CreateMovieRequest true "Movie"
// @Success 201 {object} models.Movie
// @Failure 400 {object} ErrorResponse
// @Router /movies [post]
func (h *MovieHandler) Create(c fiber.Ctx) error {
	var req models.CreateMovieRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	movie, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return fail(c, err, "movie")
	}
	return c.Status(fiber.StatusCreated).JSON(movie)
}

// Update applies a partial update to a movie.
// @Summary Update movie
// @Tags movies
// @Accept json
// @Produce json
// @Param id path int true "Movie ID"
// @Param body body models.UpdateMovieRequest true "Fields to change"
// @Success 200 {object} models.Movie
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id} [put]
func (h *MovieHandler) Update(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie ID")
	}

	var req models.UpdateMovieRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	movie, err := h.svc.Update(c.Context(), id, req)
	if err != nil {
		return fail(c, err, "movie")
	}
	return c.JSON(movie)
}

// Delete removes a movie and everything referencing it.
// @Summary Delete movie
// @Tags movies
// @Param id path int true "Movie ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /movies/{id} [delete]
func (h *MovieHandler) Delete(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie ID")
	}

	if err := h.svc.Delete(c.Context(), id); err != nil {
		return fail(c, err, "movie")
	}
	return c.JSON(fiber.Map{"message": "movie deleted"})
}

// Genres lists all genres.
// @Summary List genres
// @Tags movies
// @Produce json
// @Success 200 {array} models.Genre
// @Router /genres [get]
func (h *MovieHandler) Genres(c fiber.Ctx) error {
	genres, err := h.svc.Genres(c.Context())
	if err != nil {
		return fail(c, err, "genre")
	}
	return c.JSON(genres)
}

// SimilarByDirector lists movies that share a director with the given movie.
// @Summary Movies by the same director
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {array} models.SimilarMovie
// @Router /movies/{id}/similar-by-director [get]
func (h *MovieHandler) SimilarByDirector(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid movie ID")
	}

	movies, err := h.svc.SimilarByDirector(c.Context(), id)
	if err != nil {
		return fail(c, err, "movie")
	}
	return c.JSON(movies)
}
