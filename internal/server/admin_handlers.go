package server

import (
	"socialpulse/internal/models"
	"socialpulse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAdminStats returns dashboard counts for the admin console.
func (s *Server) GetAdminStats(c *fiber.Ctx) error {
	stats, err := s.moderationService.Stats(c.Context())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(stats)
}

// GetAdminUsers lists all accounts, including banned ones.
func (s *Server) GetAdminUsers(c *fiber.Ctx) error {
	p := parsePagination(c)
	users, err := s.moderationService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(users)
}

// UpdateUserFlags applies a partial ban/verify/admin flag update to a user.
func (s *Server) UpdateUserFlags(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UserFlags
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.moderationService.UpdateFlags(c.Context(), id, req)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser removes a non-admin account and all of its content.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.DeleteUser(c.Context(), id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// GetAdminReports lists moderation reports, optionally filtered by status.
func (s *Server) GetAdminReports(c *fiber.Ctx) error {
	p := parsePagination(c)
	reports, err := s.moderationService.ListReports(c.Context(), c.Query("status"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(reports)
}

// ResolveReport moves a pending report to a terminal status. Resolving with
// action_taken removes the reported post.
func (s *Server) ResolveReport(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.moderationService.Resolve(c.Context(), id, req.Status)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(report)
}

// AdminDeletePost removes a post and closes its pending reports.
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.RemovePost(c.Context(), id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post removed"})
}
