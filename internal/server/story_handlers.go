package server

import (
	"socialpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateStory publishes a new story for the authenticated user.
func (s *Server) CreateStory(c *fiber.Ctx) error {
	var req struct {
		Image string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	story, err := s.storyService.Create(c.Context(), currentUserID(c), req.Image)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(story)
}

// GetStoryFeed returns active stories from the caller and followed accounts,
// grouped per author.
func (s *Server) GetStoryFeed(c *fiber.Ctx) error {
	feed, err := s.storyService.Feed(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(feed)
}

// GetUserStories returns a single user's active stories.
func (s *Server) GetUserStories(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	stories, err := s.storyService.UserStories(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(stories)
}

// DeleteStory removes a story. Authors delete their own; admins any story.
func (s *Server) DeleteStory(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.storyService.Delete(c.Context(), currentUserID(c), s.callerIsAdmin(c), id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Story deleted"})
}
