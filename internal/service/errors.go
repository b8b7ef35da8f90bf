package service

import (
	"errors"

	"movie-finder/internal/repository"
)

var (
	ErrNotFound                  = errors.New("not found")
	ErrInvalidCredentials        = errors.New("invalid username or password")
	ErrUsernameTaken             = errors.New("username already taken")
	ErrInvalidRecommendationType = errors.New("invalid recommendation type")
	ErrNoUpdates                 = errors.New("no fields to update")
	ErrImportDisabled            = errors.New("catalog import is not configured")
)

// notFound turns the repository's missing-row errors into ErrNotFound and passes
// everything else through.
func notFound(err error) error {
	if errors.Is(err, repository.ErrRecordNotFound) || errors.Is(err, repository.ErrMissingParent) {
		return ErrNotFound
	}
	return err
}
