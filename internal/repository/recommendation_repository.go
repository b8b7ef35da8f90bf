package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"movie-finder/internal/models"
)

// RecommendationRepository runs the read-only queries behind the recommendation engine.
type RecommendationRepository struct {
	db *sql.DB
}

func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// TopGenres returns the genres the user most often rated at or above minRating.
func (r *RecommendationRepository) TopGenres(ctx context.Context, userID int64, minRating float64, limit int) ([]models.TopGenre, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.name, COUNT(*) AS freq
		FROM user_interactions ui
		JOIN movie_genres mg ON mg.movie_id = ui.movie_id
		JOIN genres g ON g.genre_id = mg.genre_id
		WHERE ui.user_id = $1
			AND ui.action = 'rate'
			AND ui.rating >= $2
		GROUP BY g.name
		ORDER BY freq DESC, g.name
		LIMIT $3
	`, userID, minRating, limit)
	if err != nil {
		return nil, fmt.Errorf("query top genres: %w", err)
	}
	defer rows.Close()

	var genres []models.TopGenre
	for rows.Next() {
		var g models.TopGenre
		if err := rows.Scan(&g.Name, &g.Freq); err != nil {
			return nil, fmt.Errorf("scan top genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// MoviesInGenres returns distinct movies tagged with any of the named genres.
func (r *RecommendationRepository) MoviesInGenres(ctx context.Context, genres []string, limit int) ([]models.RecommendedMovie, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.movie_id, m.title, m.release_year, m.imdb_rating
		FROM movies m
		WHERE EXISTS (
			SELECT 1 FROM movie_genres mg
			JOIN genres g ON g.genre_id = mg.genre_id
			WHERE mg.movie_id = m.movie_id AND g.name = ANY($1)
		)
		ORDER BY m.imdb_rating DESC NULLS LAST, m.release_year DESC NULLS LAST, m.movie_id
		LIMIT $2
	`, pq.Array(genres), limit)
	if err != nil {
		return nil, fmt.Errorf("query movies in genres: %w", err)
	}
	return scanRecommended(rows, false)
}

// TopDirectors returns the directors the user most often rated at or above minRating,
// ties broken by the user's average rating of their movies.
func (r *RecommendationRepository) TopDirectors(ctx context.Context, userID int64, minRating float64, limit int) ([]models.TopDirector, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.person_id, p.display_name, COUNT(*) AS freq, AVG(ui.rating)::float8 AS avg_rating
		FROM user_interactions ui
		JOIN movie_people mp ON mp.movie_id = ui.movie_id
		JOIN roles ro ON ro.role_id = mp.role_id AND ro.name = 'Director'
		JOIN people p ON p.person_id = mp.person_id
		WHERE ui.user_id = $1
			AND ui.action = 'rate'
			AND ui.rating >= $2
		GROUP BY p.person_id, p.display_name
		ORDER BY freq DESC, avg_rating DESC, p.display_name
		LIMIT $3
	`, userID, minRating, limit)
	if err != nil {
		return nil, fmt.Errorf("query top directors: %w", err)
	}
	defer rows.Close()

	var directors []models.TopDirector
	for rows.Next() {
		var d models.TopDirector
		if err := rows.Scan(&d.PersonID, &d.Name, &d.Freq, &d.AvgRating); err != nil {
			return nil, fmt.Errorf("scan top director: %w", err)
		}
		directors = append(directors, d)
	}
	return directors, rows.Err()
}

// DirectorFallback returns the best rated movies that credit at least one director,
// each annotated with all of its directors.
func (r *RecommendationRepository) DirectorFallback(ctx context.Context, limit int) ([]models.RecommendedMovie, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.movie_id, m.title, m.release_year, m.imdb_rating,
			STRING_AGG(DISTINCT p.display_name, ', ' ORDER BY p.display_name) AS director
		FROM movies m
		JOIN movie_people mp ON mp.movie_id = m.movie_id
		JOIN roles ro ON ro.role_id = mp.role_id AND ro.name = 'Director'
		JOIN people p ON p.person_id = mp.person_id
		GROUP BY m.movie_id, m.title, m.release_year, m.imdb_rating
		ORDER BY m.imdb_rating DESC NULLS LAST, m.release_year DESC NULLS LAST, m.movie_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query director fallback: %w", err)
	}
	return scanRecommended(rows, true)
}

// DirectorCandidates returns movies by the given directors that the user has not
// rated below the exclusion threshold, annotated with the matching director names.
func (r *RecommendationRepository) DirectorCandidates(ctx context.Context, p models.DirectorCandidateParams, limit int) ([]models.RecommendedMovie, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.movie_id, m.title, m.release_year, m.imdb_rating,
			STRING_AGG(DISTINCT pe.display_name, ', ' ORDER BY pe.display_name) AS director
		FROM movies m
		JOIN movie_people mp ON mp.movie_id = m.movie_id
		JOIN roles ro ON ro.role_id = mp.role_id AND ro.name = 'Director'
		JOIN people pe ON pe.person_id = mp.person_id
		WHERE mp.person_id = ANY($2)
			AND NOT EXISTS (
				SELECT 1 FROM user_interactions ui
				WHERE ui.user_id = $1
					AND ui.movie_id = m.movie_id
					AND ui.action = 'rate'
					AND ui.rating < $3
			)
			AND (NOT $4::boolean OR NOT EXISTS (
				SELECT 1 FROM user_interactions ui
				WHERE ui.user_id = $1
					AND ui.movie_id = m.movie_id
					AND ui.action IN ('like', 'watch_later')
			))
		GROUP BY m.movie_id, m.title, m.release_year, m.imdb_rating
		ORDER BY m.imdb_rating DESC NULLS LAST, m.release_year DESC NULLS LAST, m.movie_id
		LIMIT $5
	`, p.UserID, pq.Array(p.DirectorIDs), p.ExcludeBelow, p.ExcludeSaved, limit)
	if err != nil {
		return nil, fmt.Errorf("query director candidates: %w", err)
	}
	return scanRecommended(rows, true)
}

// TopRated returns the globally best rated movies.
func (r *RecommendationRepository) TopRated(ctx context.Context, limit int) ([]models.RecommendedMovie, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT movie_id, title, release_year, imdb_rating
		FROM movies
		ORDER BY imdb_rating DESC NULLS LAST, release_year DESC NULLS LAST, movie_id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top rated: %w", err)
	}
	return scanRecommended(rows, false)
}

func scanRecommended(rows *sql.Rows, withDirector bool) ([]models.RecommendedMovie, error) {
	defer rows.Close()

	movies := make([]models.RecommendedMovie, 0)
	for rows.Next() {
		var m models.RecommendedMovie
		dest := []interface{}{&m.ID, &m.Title, &m.ReleaseYear, &m.IMDBRating}
		if withDirector {
			dest = append(dest, &m.Director)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan recommended movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
