package server

import (
	"socialpulse/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications lists the caller's notifications, newest first.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	p := parsePagination(c)
	notifications, err := s.notificationService.List(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(notifications)
}

// GetUnreadNotificationCount returns the caller's unread notification count.
func (s *Server) GetUnreadNotificationCount(c *fiber.Ctx) error {
	count, err := s.notificationService.CountUnread(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// MarkNotificationRead marks a single notification as read.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationService.MarkRead(c.Context(), id, currentUserID(c)); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked read"})
}

// MarkAllNotificationsRead marks every unread notification as read.
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	updated, err := s.notificationService.MarkAllRead(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"updated": updated})
}

// DeleteNotification removes a single notification from the caller's list.
func (s *Server) DeleteNotification(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationService.Delete(c.Context(), id, currentUserID(c)); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification deleted"})
}

// ClearNotifications removes all of the caller's notifications.
func (s *Server) ClearNotifications(c *fiber.Ctx) error {
	removed, err := s.notificationService.Clear(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"removed": removed})
}
