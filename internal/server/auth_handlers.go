package server

import (
	"socialpulse/internal/middleware"
	"socialpulse/internal/models"
	"socialpulse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles user registration.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.Context(), req)
	if err != nil {
		return models.RespondError(c, err)
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		return models.RespondError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles user authentication.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}

	user, err := s.authService.Login(c.Context(), identifier, req.Password)
	if err != nil {
		return models.RespondError(c, err)
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		return models.RespondError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated user's own profile.
func (s *Server) Me(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// ChangePassword updates the caller's password after verifying the current one.
func (s *Server) ChangePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.authService.ChangePassword(c.Context(), currentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return models.RespondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password updated"})
}
