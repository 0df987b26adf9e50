package repository

import (
	"context"

	"socialpulse/internal/cache"
	"socialpulse/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ByConversation(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error)
	LatestPerConversation(ctx context.Context, userID uint) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, conversationID string, readerID uint) (int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if message.ConversationID == "" {
		message.ConversationID = models.ConversationID(message.SenderID, message.RecipientID)
	}
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateChatList(ctx, message.SenderID)
	cache.InvalidateChatList(ctx, message.RecipientID)
	return nil
}

// ByConversation returns messages ordered oldest first, with the row ID as a
// tie-break so same-timestamp messages keep insertion order.
func (r *messageRepository) ByConversation(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var messages []models.Message
	if err := readDB(r.db).WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// LatestPerConversation returns the newest message of every conversation the
// user participates in, newest conversation first.
func (r *messageRepository) LatestPerConversation(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	sub := readDB(r.db).WithContext(ctx).
		Model(&models.Message{}).
		Select("MAX(id)").
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Group("conversation_id")
	if err := readDB(r.db).WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		Where("id IN (?)", sub).
		Order("created_at DESC, id DESC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// MarkConversationRead flags every message addressed to readerID in the
// conversation as read and returns how many rows changed.
func (r *messageRepository) MarkConversationRead(ctx context.Context, conversationID string, readerID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("conversation_id = ? AND recipient_id = ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidateChatList(ctx, readerID)
	}
	return result.RowsAffected, nil
}

func (r *messageRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
