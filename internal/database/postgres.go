package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"movie-finder/internal/config"
)

// NewPostgres opens the shared connection pool and runs migrations.
func NewPostgres(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(15 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrate creates the catalog, account and interaction tables if they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			movie_id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			release_year INTEGER,
			imdb_rating NUMERIC(3,1),
			tmdb_id INTEGER UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS genres (
			genre_id SERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS movie_genres (
			movie_id BIGINT NOT NULL REFERENCES movies(movie_id),
			genre_id INTEGER NOT NULL REFERENCES genres(genre_id),
			PRIMARY KEY (movie_id, genre_id)
		)`,
		`CREATE TABLE IF NOT EXISTS people (
			person_id BIGSERIAL PRIMARY KEY,
			display_name TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS roles (
			role_id SERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS movie_people (
			movie_id BIGINT NOT NULL REFERENCES movies(movie_id),
			person_id BIGINT NOT NULL REFERENCES people(person_id),
			role_id INTEGER NOT NULL REFERENCES roles(role_id),
			PRIMARY KEY (movie_id, person_id, role_id)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id BIGSERIAL PRIMARY KEY,
			full_name TEXT NOT NULL,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS user_interactions (
			user_id BIGINT NOT NULL REFERENCES users(user_id),
			movie_id BIGINT NOT NULL REFERENCES movies(movie_id),
			action TEXT NOT NULL CHECK (action IN ('rate', 'like', 'watch_later')),
			rating NUMERIC(3,1) CHECK (rating BETWEEN 0 AND 10),
			occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, movie_id, action)
		)`,
		// Indexes for common query patterns
		`CREATE INDEX IF NOT EXISTS idx_movies_rating_year ON movies(imdb_rating DESC NULLS LAST, release_year DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_movie_genres_genre_id ON movie_genres(genre_id)`,
		`CREATE INDEX IF NOT EXISTS idx_movie_people_person_id ON movie_people(person_id)`,
		`CREATE INDEX IF NOT EXISTS idx_user_interactions_movie_id ON user_interactions(movie_id)`,
		// Seed roles
		`INSERT INTO roles (name) VALUES ('Director'), ('Actor'), ('Writer')
		 ON CONFLICT (name) DO NOTHING`,
	}

	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
