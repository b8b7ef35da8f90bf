package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-finder/internal/middleware"
)

// Handlers bundles every API handler for route registration.
type Handlers struct {
	Movies          *MovieHandler
	Users           *UserHandler
	Interactions    *InteractionHandler
	Recommendations *RecommendationHandler
	Admin           *AdminHandler

	// AdminToken is the bearer token required on /api/admin. Empty closes the group.
	AdminToken string
}

// Register mounts the API under /api plus the root and health endpoints.
func (h Handlers) Register(app fiber.Router) {
	app.Get("/", Root)
	app.Get("/health", Health)

	api := app.Group("/api")

	api.Get("/movies", h.Movies.Search)
	api.Post("/movies", h.Movies.Create)
	api.Get("/movies/:id", h.Movies.Get)
	api.Put("/movies/:id", h.Movies.Update)
	api.Delete("/movies/:id", h.Movies.Delete)
	api.Get("/movies/:id/similar-by-director", h.Movies.SimilarByDirector)
	api.Get("/genres", h.Movies.Genres)

	api.Post("/signup", h.Users.Signup)
	api.Post("/login", h.Users.Login)
	api.Put("/users/:id", h.Users.Update)
	api.Put("/users/:id/password", h.Users.ChangePassword)
	api.Delete("/users/:id", h.Users.Delete)

	api.Post("/interactions", h.Interactions.Record)
	api.Get("/interactions", h.Interactions.List)
	api.Get("/users/:id/ratings", h.Interactions.Ratings)
	api.Get("/users/:id/watchlater", h.Interactions.WatchLater)
	api.Delete("/users/:id/watchlater/:movieId", h.Interactions.RemoveWatchLater)
	api.Get("/users/:id/genre-stats", h.Interactions.GenreStats)

	api.Get("/recommendations/:userId", h.Recommendations.Recommend)

	admin := api.Group("/admin", middleware.AdminAuth(h.AdminToken))
	admin.Post("/import", h.Admin.Import)
}

// Root answers the plain acknowledgement clients use as a liveness probe.
func Root(c fiber.Ctx) error {
	return c.SendString("Movie Finder API is running")
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-finder",
	})
}
