package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"movie-finder/internal/metrics"
	"movie-finder/internal/models"
	"movie-finder/internal/repository"
	"movie-finder/internal/tmdb"
	"movie-finder/internal/validation"
)

// CatalogSource is the remote catalog the import reads from.
type CatalogSource interface {
	DiscoverMovies(ctx context.Context, page int) (*tmdb.DiscoverResponse, error)
	GetGenres(ctx context.Context) ([]tmdb.Genre, error)
	GetCredits(ctx context.Context, tmdbID int) (*tmdb.CreditsResponse, error)
}

// CatalogWriter stores imported movies.
type CatalogWriter interface {
	UpsertImported(ctx context.Context, im repository.ImportedMovie) (int64, error)
}

// ImportService pulls movies from TMDB into the local catalog.
type ImportService struct {
	source CatalogSource
	repo   CatalogWriter
}

// NewImportService creates an ImportService. A nil source disables importing.
func NewImportService(source CatalogSource, repo CatalogWriter) *ImportService {
	return &ImportService{source: source, repo: repo}
}

// Import fetches up to pages discover pages and upserts every movie on them.
func (s *ImportService) Import(ctx context.Context, pages int) (*models.ImportResult, error) {
	if s.source == nil {
		return nil, ErrImportDisabled
	}
	if pages < 1 || pages > models.MaxImportPages {
		return nil, validation.NewError("pages", fmt.Sprintf("must be between 1 and %d", models.MaxImportPages))
	}

	slog.Info("starting TMDB import", "pages", pages)

	genres, err := s.source.GetGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch TMDB genres: %w", err)
	}
	genreNames := make(map[int]string, len(genres))
	for _, g := range genres {
		genreNames[g.ID] = g.Name
	}

	imported, fetched := 0, 0
	var lastErr error
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := s.source.DiscoverMovies(ctx, page)
		if err != nil {
			slog.Error("failed to fetch TMDB page", "page", page, "error", err)
			lastErr = err
			continue
		}
		fetched++

		for _, item := range result.Results {
			if strings.TrimSpace(item.Title) == "" {
				continue
			}
			if err := s.importOne(ctx, item, genreNames); err != nil {
				slog.Error("failed to import movie", "tmdb_id", item.ID, "title", item.Title, "error", err)
				continue
			}
			imported++
		}

		slog.Info("imported page", "page", page, "movies", len(result.Results))
		if page >= result.TotalPages {
			break
		}
	}

	if fetched == 0 && lastErr != nil {
		return nil, fmt.Errorf("import failed: %w", lastErr)
	}

	metrics.ObserveImported(imported)
	slog.Info("TMDB import completed", "movies_imported", imported)
	return &models.ImportResult{
		Message:        "import completed",
		MoviesImported: imported,
		Pages:          fetched,
	}, nil
}

func (s *ImportService) importOne(ctx context.Context, item tmdb.MovieItem, genreNames map[int]string) error {
	var genres []string
	for _, id := range item.GenreIDs {
		if name, ok := genreNames[id]; ok {
			genres = append(genres, name)
		}
	}

	var directors []string
	credits, err := s.source.GetCredits(ctx, item.ID)
	if err != nil {
		slog.Warn("could not fetch credits, importing without directors", "tmdb_id", item.ID, "error", err)
	} else {
		directors = credits.Directors()
	}

	_, err = s.repo.UpsertImported(ctx, repository.ImportedMovie{
		TMDBID:      item.ID,
		Title:       strings.TrimSpace(item.Title),
		ReleaseYear: item.ReleaseYear(),
		Rating:      item.Rating(),
		Genres:      genres,
		Directors:   directors,
	})
	return err
}
