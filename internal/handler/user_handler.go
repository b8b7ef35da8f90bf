package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"movie-finder/internal/models"
)

// UserService is the account behaviour the user handler exposes.
type UserService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.SignupResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	UpdateProfile(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error)
	ChangePassword(ctx context.Context, id int64, req models.ChangePasswordRequest) error
	Delete(ctx context.Context, id int64) error
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Signup creates an account.
// @Summary Sign up
// @Tags users
// @Accept json
// @Produce json
// @Param body body models.SignupRequest true "Account"
// @Success 201 {object} models.SignupResponse
// @Failure 400 {object} ErrorResponse
// @Router /signup [post]
func (h *UserHandler) Signup(c fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.svc.Signup(c.Context(), req)
	if err != nil {
		return fail(c, err, "user")
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login checks credentials.
// @Summary Log in
// @Tags users
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} ErrorResponse
// @Router /login [post]
func (h *UserHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	resp, err := h.svc.Login(c.Context(), req)
	if err != nil {
		return fail(c, err, "user")
	}
	return c.JSON(resp)
}

// Update changes the profile fields that are present in the body.
// @Router /users/{id} [put]
func (h *UserHandler) Update(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	var req models.UpdateUserRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	u, err := h.svc.UpdateProfile(c.Context(), id, req)
	if err != nil {
		return fail(c, err, "user")
	}
	return c.JSON(u)
}

// ChangePassword replaces the password after checking the current one.
// @Router /users/{id}/password [put]
func (h *UserHandler) ChangePassword(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	var req models.ChangePasswordRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.svc.ChangePassword(c.Context(), id, req); err != nil {
		return fail(c, err, "user")
	}
	return c.JSON(fiber.Map{"message": "password updated"})
}

// Delete removes the account and its interactions.
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user ID")
	}

	if err := h.svc.Delete(c.Context(), id); err != nil {
		return fail(c, err, "user")
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}
