package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Message is a direct message between two users.
type Message struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ConversationID string         `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint           `gorm:"not null;index" json:"sender_id"`
	Sender         *User          `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	RecipientID    uint           `gorm:"not null;index" json:"recipient_id"`
	Recipient      *User          `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Text           string         `gorm:"type:text" json:"text"`
	Image          string         `json:"image"`
	IsRead         bool           `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// ConversationID derives the stable partition key for a pair of users.
// The smaller ID always comes first, so ConversationID(a, b) ==
// ConversationID(b, a) regardless of who initiates.
func ConversationID(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}
