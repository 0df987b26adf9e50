package server

import (
	"socialpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePost creates a new post for the authenticated user.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content string   `json:"content"`
		Images  []string `json:"images"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.Context(), currentUserID(c), req.Content, req.Images)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetTimeline returns posts from the caller and followed accounts.
func (s *Server) GetTimeline(c *fiber.Ctx) error {
	p := parsePagination(c)
	posts, err := s.postService.Timeline(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost returns a single post by ID.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.postService.Get(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// GetUserPosts returns a user's posts, newest first.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	p := parsePagination(c)
	posts, err := s.postService.UserPosts(c.Context(), c.Params("username"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(posts)
}

// UpdatePost edits the text content of the caller's own post.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(c.Context(), currentUserID(c), id, req.Content)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes a post. Authors delete their own posts; admins any post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.Context(), currentUserID(c), s.callerIsAdmin(c), id); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// ToggleLike likes or unlikes a post.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.postService.ToggleLike(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(result)
}

// CreateComment adds a comment to a post and returns the updated post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.AddComment(c.Context(), currentUserID(c), id, req.Text)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeleteComment removes a comment. The comment's author, the post's author,
// and admins may delete.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.postService.DeleteComment(c.Context(), currentUserID(c), s.callerIsAdmin(c), commentID); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
