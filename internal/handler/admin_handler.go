package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movie-finder/internal/models"
	"movie-finder/internal/validation"
)

// Importer fills the catalog from an external source.
type Importer interface {
	Import(ctx context.Context, pages int) (*models.ImportResult, error)
}

type AdminHandler struct {
	importer Importer
}

func NewAdminHandler(importer Importer) *AdminHandler {
	return &AdminHandler{importer: importer}
}

// Import pulls discover pages from TMDB into the catalog.
// @Summary Import movies from TMDB
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param pages query int false "Number of pages to import" default(1)
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/import [post]
func (h *AdminHandler) Import(c fiber.Ctx) error {
	pages := models.DefaultImportPages
	if v := c.Query("pages"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, validation.NewError("pages", "must be an integer"), "import")
		}
		pages = n
	}

	result, err := h.importer.Import(c.Context(), pages)
	if err != nil {
		return fail(c, err, "import")
	}
	return c.JSON(result)
}
