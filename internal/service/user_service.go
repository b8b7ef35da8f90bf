package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"movie-finder/internal/models"
	"movie-finder/internal/repository"
	"movie-finder/internal/validation"
)

// bcryptCost is the bcrypt cost factor for password hashing.
const bcryptCost = 12

// UserStore is the account persistence the user service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, fullName, username *string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

// UserService handles signup, login and profile management.
type UserService struct {
	repo UserStore
	cost int
}

func NewUserService(repo UserStore) *UserService {
	return &UserService{repo: repo, cost: bcryptCost}
}

// Signup creates an account with a bcrypt-hashed password.
func (s *UserService) Signup(ctx context.Context, req models.SignupRequest) (*models.SignupResponse, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Username = strings.TrimSpace(req.Username)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{FullName: req.FullName, Username: req.Username, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return &models.SignupResponse{UserID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}, nil
}

// Login checks the credentials. Unknown users and wrong passwords are indistinguishable.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &models.LoginResponse{UserID: u.ID, Username: u.Username, FullName: u.FullName}, nil
}

// UpdateProfile changes the user's full name and/or username.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	if req.FullName == nil && req.Username == nil {
		return nil, ErrNoUpdates
	}
	if req.FullName != nil {
		v := strings.TrimSpace(*req.FullName)
		req.FullName = &v
	}
	if req.Username != nil {
		v := strings.TrimSpace(*req.Username)
		req.Username = &v
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	u, err := s.repo.UpdateProfile(ctx, id, req.FullName, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, notFound(err)
	}
	return u, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *UserService) ChangePassword(ctx context.Context, id int64, req models.ChangePasswordRequest) error {
	if err := validation.ValidateStruct(req); err != nil {
		return err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return notFound(s.repo.UpdatePassword(ctx, id, string(hash)))
}

// Delete removes the account and its interactions.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return notFound(s.repo.Delete(ctx, id))
}
