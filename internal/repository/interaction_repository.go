package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"movie-finder/internal/models"
)

// InteractionRepository handles the per-user interaction log.
type InteractionRepository struct {
	db *sql.DB
}

// NewInteractionRepository creates a new InteractionRepository.
func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Upsert records an interaction in a single statement. The conflict branch only
// fires when the rating differs, so an identical resubmission returns no row.
func (r *InteractionRepository) Upsert(ctx context.Context, in models.Interaction) (models.Outcome, error) {
	var inserted bool
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO user_interactions (user_id, movie_id, action, rating, occurred_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, movie_id, action) DO UPDATE
		SET rating = EXCLUDED.rating, occurred_at = NOW()
		WHERE user_interactions.rating IS DISTINCT FROM EXCLUDED.rating
		RETURNING (xmax = 0) AS inserted
	`, in.UserID, in.MovieID, string(in.Action), in.Rating).Scan(&inserted)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.OutcomeUnchanged, nil
	case err != nil:
		return "", translate(err, "upsert interaction")
	case inserted:
		return models.OutcomeCreated, nil
	default:
		return models.OutcomeUpdated, nil
	}
}

// Count returns how many rows exist for a (user, movie, action) triple.
func (r *InteractionRepository) Count(ctx context.Context, userID, movieID int64, action models.Action) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_interactions
		WHERE user_id = $1 AND movie_id = $2 AND action = $3
	`, userID, movieID, string(action)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return n, nil
}

// ListRatings returns the user's rated movies, newest first.
func (r *InteractionRepository) ListRatings(ctx context.Context, userID int64) ([]models.UserRating, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT movie_id, rating
		FROM user_interactions
		WHERE user_id = $1 AND action = 'rate' AND rating IS NOT NULL
		ORDER BY occurred_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]models.UserRating, 0)
	for rows.Next() {
		var ur models.UserRating
		if err := rows.Scan(&ur.MovieID, &ur.Rating); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, ur)
	}
	return ratings, rows.Err()
}

// ListRated returns the user's interactions that carry a rating, optionally for one action.
func (r *InteractionRepository) ListRated(ctx context.Context, userID int64, action *models.Action) ([]models.InteractionRow, error) {
	var actionArg interface{}
	if action != nil {
		actionArg = string(*action)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT movie_id, rating, action
		FROM user_interactions
		WHERE user_id = $1
			AND ($2::text IS NULL OR action = $2)
			AND rating IS NOT NULL
		ORDER BY occurred_at DESC
	`, userID, actionArg)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	out := make([]models.InteractionRow, 0)
	for rows.Next() {
		var row models.InteractionRow
		if err := rows.Scan(&row.MovieID, &row.Rating, &row.Action); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListWatchLater returns the movies the user saved for later, newest first.
func (r *InteractionRepository) ListWatchLater(ctx context.Context, userID int64) ([]models.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.movie_id, m.title, m.release_year, m.imdb_rating
		FROM user_interactions ui
		JOIN movies m ON m.movie_id = ui.movie_id
		WHERE ui.user_id = $1 AND ui.action = 'watch_later'
		ORDER BY ui.occurred_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list watch later: %w", err)
	}
	defer rows.Close()

	movies := make([]models.Movie, 0)
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.ReleaseYear, &m.IMDBRating); err != nil {
			return nil, fmt.Errorf("scan watch later: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// RemoveWatchLater deletes a watch-later row. Removing a missing row is not an error.
func (r *InteractionRepository) RemoveWatchLater(ctx context.Context, userID, movieID int64) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM user_interactions
		WHERE user_id = $1 AND movie_id = $2 AND action = 'watch_later'
	`, userID, movieID)
	if err != nil {
		return fmt.Errorf("remove watch later: %w", err)
	}
	return nil
}

// GenreStats counts distinct interacted movies per genre for the user.
func (r *InteractionRepository) GenreStats(ctx context.Context, userID int64) (*models.GenreStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.name, COUNT(DISTINCT ui.movie_id) AS movies
		FROM user_interactions ui
		JOIN movie_genres mg ON mg.movie_id = ui.movie_id
		JOIN genres g ON g.genre_id = mg.genre_id
		WHERE ui.user_id = $1
		GROUP BY g.name
		ORDER BY movies DESC, g.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("genre stats: %w", err)
	}
	defer rows.Close()

	stats := &models.GenreStats{Labels: []string{}, Data: []int{}}
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan genre stats: %w", err)
		}
		stats.Labels = append(stats.Labels, name)
		stats.Data = append(stats.Data, n)
	}
	return stats, rows.Err()
}
