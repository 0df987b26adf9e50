package service

import (
	"context"
	"log/slog"
	"strings"

	"socialpulse/internal/models"
	"socialpulse/internal/observability"
	"socialpulse/internal/realtime"
	"socialpulse/internal/repository"
)

// MessageService provides direct-message business logic.
type MessageService struct {
	messageRepo   repository.MessageRepository
	userRepo      repository.UserRepository
	notifier      *realtime.Notifier
	notifications *NotificationService
}

// NewMessageService returns a new MessageService.
func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	notifier *realtime.Notifier,
	notifications *NotificationService,
) *MessageService {
	return &MessageService{
		messageRepo:   messageRepo,
		userRepo:      userRepo,
		notifier:      notifier,
		notifications: notifications,
	}
}

// Send persists a message and pushes it to the recipient's realtime channel.
// The realtime push is best-effort: the message is durable once persisted.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID uint, text, image string) (*models.Message, error) {
	if senderID == recipientID {
		return nil, models.NewValidationError("Cannot message yourself")
	}

	text = strings.TrimSpace(text)
	if text == "" && image == "" {
		return nil, models.NewValidationError("Message must have text or an image")
	}
	if len(text) > 5000 {
		return nil, models.NewValidationError("Message must not exceed 5000 characters")
	}

	if _, err := s.userRepo.GetByID(ctx, recipientID); err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: models.ConversationID(senderID, recipientID),
		SenderID:       senderID,
		RecipientID:    recipientID,
		Text:           text,
		Image:          image,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	// Clients render the sender's display fields straight off the pushed
	// event, so resolve them before publishing and before returning.
	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		observability.Logger.WarnContext(ctx, "message sender resolution failed",
			slog.Any("sender_id", senderID),
			slog.String("error", err.Error()))
	} else {
		message.Sender = sender
	}

	if s.notifier != nil {
		event := realtime.Event{Event: realtime.EventMessage, Payload: message}
		if err := s.notifier.PublishUser(ctx, recipientID, event); err != nil {
			observability.Logger.WarnContext(ctx, "message publish failed",
				slog.Any("recipient_id", recipientID),
				slog.String("error", err.Error()))
		}
	}

	_ = s.notifications.Notify(ctx, &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        models.NotificationMessage,
		Text:        "sent you a message",
	})

	return message, nil
}

// Conversation returns the message history between the caller and another
// user, oldest first.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID uint, limit, offset int) ([]models.Message, error) {
	if userID == otherID {
		return nil, models.NewValidationError("A conversation needs two distinct users")
	}
	conversationID := models.ConversationID(userID, otherID)
	return s.messageRepo.ByConversation(ctx, conversationID, limit, offset)
}

// Chat is one entry in the caller's conversation list.
type Chat struct {
	ConversationID string         `json:"conversation_id"`
	Partner        models.Summary `json:"partner"`
	LastMessage    models.Message `json:"last_message"`
}

// ListChats returns the caller's conversations, most recently active first.
func (s *MessageService) ListChats(ctx context.Context, userID uint) ([]Chat, error) {
	messages, err := s.messageRepo.LatestPerConversation(ctx, userID)
	if err != nil {
		return nil, err
	}

	chats := make([]Chat, 0, len(messages))
	for _, msg := range messages {
		var partner models.Summary
		if msg.SenderID == userID {
			if msg.Recipient != nil {
				partner = msg.Recipient.Summary()
			}
		} else if msg.Sender != nil {
			partner = msg.Sender.Summary()
		}
		chats = append(chats, Chat{
			ConversationID: msg.ConversationID,
			Partner:        partner,
			LastMessage:    msg,
		})
	}
	return chats, nil
}

// MarkConversationRead flags every message from otherID to the caller as read.
func (s *MessageService) MarkConversationRead(ctx context.Context, userID, otherID uint) (int64, error) {
	conversationID := models.ConversationID(userID, otherID)
	return s.messageRepo.MarkConversationRead(ctx, conversationID, userID)
}

// CountUnread returns the caller's total unread message count.
func (s *MessageService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}
