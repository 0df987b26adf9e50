package server

import (
	"socialpulse/internal/models"
	"socialpulse/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers searches users by username or display name.
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	p := parsePagination(c)
	results, err := s.userService.Search(c.Context(), c.Query("q"), p.Limit)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(results)
}

// SuggestedUsers returns accounts the caller does not follow yet.
func (s *Server) SuggestedUsers(c *fiber.Ctx) error {
	p := parsePagination(c)
	results, err := s.userService.Suggested(c.Context(), currentUserID(c), p.Limit)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(results)
}

// GetProfileByUsername returns a user's public profile.
func (s *Server) GetProfileByUsername(c *fiber.Ctx) error {
	user, err := s.userService.GetProfileByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// GetProfileByID returns a user's public profile looked up by numeric ID.
func (s *Server) GetProfileByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.userService.GetProfile(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req service.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), currentUserID(c), req)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(user)
}

// ToggleFollow follows or unfollows the target user.
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.userService.ToggleFollow(c.Context(), currentUserID(c), targetID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(result)
}

// GetFollowers lists accounts following the given user.
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	followers, err := s.userService.Followers(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(followers)
}

// GetFollowing lists accounts the given user follows.
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	following, err := s.userService.Following(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(following)
}
