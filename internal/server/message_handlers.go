package server

import (
	"socialpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendMessage sends a direct message to another user.
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		RecipientID uint   `json:"recipient_id"`
		Text        string `json:"text"`
		Image       string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.Send(c.Context(), currentUserID(c), req.RecipientID, req.Text, req.Image)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetChats lists the caller's conversations, most recently active first.
func (s *Server) GetChats(c *fiber.Ctx) error {
	chats, err := s.messageService.ListChats(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(chats)
}

// GetConversation returns the message history with another user.
func (s *Server) GetConversation(c *fiber.Ctx) error {
	otherID, err := parseID(c, "recipientId")
	if err != nil {
		return nil
	}

	p := parsePagination(c)
	messages, err := s.messageService.Conversation(c.Context(), currentUserID(c), otherID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(messages)
}

// MarkConversationRead marks all messages from the other user as read.
func (s *Server) MarkConversationRead(c *fiber.Ctx) error {
	otherID, err := parseID(c, "recipientId")
	if err != nil {
		return nil
	}

	updated, err := s.messageService.MarkConversationRead(c.Context(), currentUserID(c), otherID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}

// GetUnreadMessageCount returns the caller's unread message count.
func (s *Server) GetUnreadMessageCount(c *fiber.Ctx) error {
	count, err := s.messageService.CountUnread(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}
