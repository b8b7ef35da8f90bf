package repository

import (
	"context"
	"database/sql"
	"fmt"

	"movie-finder/internal/models"
)

// UserRepository handles database operations for accounts.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user and fills in its id and creation time.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (full_name, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING user_id, created_at
	`, u.FullName, u.Username, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	return translate(err, "create user")
}

// GetByUsername returns the user with the given username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `
		SELECT user_id, full_name, username, password_hash, created_at
		FROM users WHERE username = $1
	`, username)
}

// GetByID returns the user with the given id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `
		SELECT user_id, full_name, username, password_hash, created_at
		FROM users WHERE user_id = $1
	`, id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.FullName, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, translate(err, "get user")
	}
	return &u, nil
}

// UpdateProfile changes the supplied profile fields and keeps the others.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, fullName, username *string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET full_name = COALESCE($1, full_name),
			username = COALESCE($2, username)
		WHERE user_id = $3
		RETURNING user_id, full_name, username, password_hash, created_at
	`, fullName, username, id).Scan(&u.ID, &u.FullName, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, translate(err, "update user")
	}
	return &u, nil
}

// UpdatePassword stores a new password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE user_id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return requireRow(res, "update password")
}

// Delete removes the user's interactions and then the user.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_interactions WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("delete user interactions: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return requireRow(res, "delete user")
	})
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}
