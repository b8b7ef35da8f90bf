package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"movie-finder/internal/models"
)

// MovieRepository handles database operations for the catalog.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository.
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns up to 50 movies matching every supplied filter, best rated first.
func (r *MovieRepository) Search(ctx context.Context, params models.SearchParams) ([]models.MovieSearchResult, error) {
	var query interface{}
	if q := strings.TrimSpace(params.Query); q != "" {
		query = likeEscaper.Replace(q)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT m.movie_id, m.title, m.release_year, m.imdb_rating,
			COALESCE(STRING_AGG(DISTINCT g.name, ', ' ORDER BY g.name), '') AS genre
		FROM movies m
		LEFT JOIN movie_genres mg ON mg.movie_id = m.movie_id
		LEFT JOIN genres g ON g.genre_id = mg.genre_id
		WHERE ($1::text IS NULL OR m.title ILIKE '%' || $1 || '%')
			AND ($2::int IS NULL OR m.release_year >= $2)
			AND ($3::numeric IS NULL OR m.imdb_rating >= $3)
		GROUP BY m.movie_id, m.title, m.release_year, m.imdb_rating
		ORDER BY m.imdb_rating DESC NULLS LAST, m.release_year DESC NULLS LAST, m.movie_id
		LIMIT $4
	`, query, params.MinYear, params.MinRating, models.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	defer rows.Close()

	results := make([]models.MovieSearchResult, 0)
	for rows.Next() {
		var m models.MovieSearchResult
		if err := rows.Scan(&m.ID, &m.Title, &m.ReleaseYear, &m.IMDBRating, &m.Genre); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		results = append(results, m)
	}
	return results, rows.Err()
}

// GetByID returns a movie with its genres and directors.
func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*models.MovieDetail, error) {
	var d models.MovieDetail
	err := r.db.QueryRowContext(ctx, `
		SELECT m.movie_id, m.title, m.release_year, m.imdb_rating,
			ARRAY(
				SELECT g.name FROM movie_genres mg
				JOIN genres g ON g.genre_id = mg.genre_id
				WHERE mg.movie_id = m.movie_id
				ORDER BY g.name
			),
			ARRAY(
				SELECT p.display_name FROM movie_people mp
				JOIN people p ON p.person_id = mp.person_id
				JOIN roles r ON r.role_id = mp.role_id AND r.name = 'Director'
				WHERE mp.movie_id = m.movie_id
				ORDER BY p.display_name
			)
		FROM movies m
		WHERE m.movie_id = $1
	`, id).Scan(&d.ID, &d.Title, &d.ReleaseYear, &d.IMDBRating,
		pq.Array(&d.Genres), pq.Array(&d.Directors))
	if err != nil {
		return nil, translate(err, "get movie")
	}
	return &d, nil
}

// Create inserts a movie and links its genres and directors in one transaction.
func (r *MovieRepository) Create(ctx context.Context, req models.CreateMovieRequest) (*models.Movie, error) {
	var m models.Movie
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO movies (title, release_year, imdb_rating)
			VALUES ($1, $2, $3)
			RETURNING movie_id, title, release_year, imdb_rating
		`, req.Title, req.ReleaseYear, req.IMDBRating).Scan(&m.ID, &m.Title, &m.ReleaseYear, &m.IMDBRating)
		if err != nil {
			return translate(err, "insert movie")
		}
		if err := linkGenres(ctx, tx, m.ID, req.Genres); err != nil {
			return err
		}
		return linkDirectors(ctx, tx, m.ID, req.Directors)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Update applies a partial update. Present association lists replace the old ones.
func (r *MovieRepository) Update(ctx context.Context, id int64, req models.UpdateMovieRequest) (*models.Movie, error) {
	var m models.Movie
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			UPDATE movies
			SET title = COALESCE($1, title),
				release_year = COALESCE($2, release_year),
				imdb_rating = COALESCE($3, imdb_rating)
			WHERE movie_id = $4
			RETURNING movie_id, title, release_year, imdb_rating
		`, req.Title, req.ReleaseYear, req.IMDBRating, id).Scan(&m.ID, &m.Title, &m.ReleaseYear, &m.IMDBRating)
		if err != nil {
			return translate(err, "update movie")
		}

		if req.Genres != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM movie_genres WHERE movie_id = $1`, id); err != nil {
				return fmt.Errorf("clear movie genres: %w", err)
			}
			if err := linkGenres(ctx, tx, id, req.Genres); err != nil {
				return err
			}
		}
		if req.Directors != nil {
			if err := clearDirectors(ctx, tx, id); err != nil {
				return err
			}
			if err := linkDirectors(ctx, tx, id, req.Directors); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a movie together with its genre, person and interaction rows.
func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM movie_genres WHERE movie_id = $1`,
			`DELETE FROM movie_people WHERE movie_id = $1`,
			`DELETE FROM user_interactions WHERE movie_id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return fmt.Errorf("delete movie references: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE movie_id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete movie: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete movie: %w", err)
		}
		if n == 0 {
			return ErrRecordNotFound
		}
		return nil
	})
}

// ListGenres returns every genre alphabetically.
func (r *MovieRepository) ListGenres(ctx context.Context) ([]models.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT genre_id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	genres := make([]models.Genre, 0)
	for rows.Next() {
		var g models.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// SimilarByDirector returns movies sharing a director with the seed movie.
func (r *MovieRepository) SimilarByDirector(ctx context.Context, movieID int64, limit int) ([]models.SimilarMovie, error) {
	rows, err := r.db.QueryContext(ctx, `
		WITH dirs AS (
			SELECT mp.person_id
			FROM movie_people mp
			JOIN roles r ON r.role_id = mp.role_id AND r.name = 'Director'
			WHERE mp.movie_id = $1
		)
		SELECT m.movie_id, m.title, m.release_year, m.imdb_rating,
			COALESCE(STRING_AGG(DISTINCT g.name, ', ' ORDER BY g.name), '') AS genres
		FROM movies m
		JOIN movie_people mp ON mp.movie_id = m.movie_id
		JOIN roles r ON r.role_id = mp.role_id AND r.name = 'Director'
		LEFT JOIN movie_genres mg ON mg.movie_id = m.movie_id
		LEFT JOIN genres g ON g.genre_id = mg.genre_id
		WHERE mp.person_id IN (SELECT person_id FROM dirs)
			AND m.movie_id <> $1
		GROUP BY m.movie_id, m.title, m.release_year, m.imdb_rating
		ORDER BY m.imdb_rating DESC NULLS LAST, m.release_year DESC NULLS LAST, m.movie_id
		LIMIT $2
	`, movieID, limit)
	if err != nil {
		return nil, fmt.Errorf("similar by director: %w", err)
	}
	defer rows.Close()

	movies := make([]models.SimilarMovie, 0)
	for rows.Next() {
		var m models.SimilarMovie
		if err := rows.Scan(&m.ID, &m.Title, &m.ReleaseYear, &m.IMDBRating, &m.Genres); err != nil {
			return nil, fmt.Errorf("scan similar movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// ImportedMovie is a catalog entry coming from an external source.
type ImportedMovie struct {
	TMDBID      int
	Title       string
	ReleaseYear *int
	Rating      *float64
	Genres      []string
	Directors   []string
}

// UpsertImported inserts or refreshes a movie keyed by its TMDB id and replaces its links.
func (r *MovieRepository) UpsertImported(ctx context.Context, im ImportedMovie) (int64, error) {
	var id int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO movies (tmdb_id, title, release_year, imdb_rating)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (tmdb_id) DO UPDATE SET
				title = EXCLUDED.title,
				release_year = EXCLUDED.release_year,
				imdb_rating = EXCLUDED.imdb_rating
			RETURNING movie_id
		`, im.TMDBID, im.Title, im.ReleaseYear, im.Rating).Scan(&id)
		if err != nil {
			return translate(err, "upsert imported movie")
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM movie_genres WHERE movie_id = $1`, id); err != nil {
			return fmt.Errorf("clear movie genres: %w", err)
		}
		if err := linkGenres(ctx, tx, id, im.Genres); err != nil {
			return err
		}
		if err := clearDirectors(ctx, tx, id); err != nil {
			return err
		}
		return linkDirectors(ctx, tx, id, im.Directors)
	})
	return id, err
}

func linkGenres(ctx context.Context, tx *sql.Tx, movieID int64, names []string) error {
	names = cleanNames(names)
	if len(names) == 0 {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO genres (name)
		SELECT UNNEST($1::text[])
		ON CONFLICT (name) DO NOTHING
	`, pq.Array(names)); err != nil {
		return fmt.Errorf("upsert genres: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO movie_genres (movie_id, genre_id)
		SELECT $1, genre_id FROM genres WHERE name = ANY($2)
		ON CONFLICT DO NOTHING
	`, movieID, pq.Array(names)); err != nil {
		return fmt.Errorf("link movie genres: %w", err)
	}
	return nil
}

func linkDirectors(ctx context.Context, tx *sql.Tx, movieID int64, names []string) error {
	names = cleanNames(names)
	if len(names) == 0 {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO people (display_name)
		SELECT UNNEST($1::text[])
		ON CONFLICT (display_name) DO NOTHING
	`, pq.Array(names)); err != nil {
		return fmt.Errorf("upsert people: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO movie_people (movie_id, person_id, role_id)
		SELECT $1, p.person_id, r.role_id
		FROM people p
		CROSS JOIN roles r
		WHERE p.display_name = ANY($2) AND r.name = $3
		ON CONFLICT DO NOTHING
	`, movieID, pq.Array(names), models.RoleDirector); err != nil {
		return fmt.Errorf("link movie directors: %w", err)
	}
	return nil
}

func clearDirectors(ctx context.Context, tx *sql.Tx, movieID int64) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM movie_people
		WHERE movie_id = $1
			AND role_id = (SELECT role_id FROM roles WHERE name = $2)
	`, movieID, models.RoleDirector)
	if err != nil {
		return fmt.Errorf("clear movie directors: %w", err)
	}
	return nil
}

// cleanNames trims names and drops blanks and duplicates, keeping first-seen order.
func cleanNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
