package server

import (
	"socialpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateReport files a moderation report against a post.
func (s *Server) CreateReport(c *fiber.Ctx) error {
	var req struct {
		PostID      uint   `json:"post_id"`
		Reason      string `json:"reason"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.moderationService.Report(c.Context(), currentUserID(c), req.PostID, req.Reason, req.Description)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}
